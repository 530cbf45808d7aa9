package models

import "time"

// Session is a single path-recording run. A user may own many sessions with
// the same name, but at most one active session at a time; the partial unique
// index created in db.Migrate backs that invariant at the storage layer.
type Session struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   uint   `gorm:"not null;index"`
	Name     string `gorm:"type:text;not null"`
	IsActive bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`

	Points []PathPoint `gorm:"constraint:OnDelete:CASCADE"`
}
