package models

import "time"

// User is an account identified by a unique username. At most one refresh
// token is outstanding per user; the stored copy is the authoritative one and
// clearing it (or setting Revoked) invalidates the token ahead of its
// embedded expiry.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"type:text;uniqueIndex;not null"`
	PasswordHash string `gorm:"type:text;not null"`

	RefreshToken     *string `gorm:"type:text;uniqueIndex"`
	RefreshExpiresAt *time.Time
	Revoked          bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Sessions []Session `gorm:"constraint:OnDelete:CASCADE"`
}
