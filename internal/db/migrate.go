package db

import (
	"context"

	"gorm.io/gorm"

	"waypoint/internal/models"
)

// Sessions check-then-insert runs inside a transaction, but two concurrent
// starts could still both observe "no active session" under read-committed
// isolation. The partial unique index makes the second insert fail at the
// storage layer instead.
const activeSessionIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_single_active ON sessions (user_id) WHERE is_active`

// Migrate performs schema migrations for the persistent models.
func Migrate(ctx context.Context, database *gorm.DB) error {
	if err := database.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.PathPoint{},
	); err != nil {
		return err
	}

	return database.WithContext(ctx).Exec(activeSessionIndex).Error
}
