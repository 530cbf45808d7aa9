package models

import "time"

// PathPoint is a geolocated sample appended to an active session. Points are
// never mutated after insert; retrieval order is insertion order.
type PathPoint struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID uint      `gorm:"not null;index"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
	Timestamp time.Time `gorm:"not null"`
}
