package paths

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"waypoint/internal/db"
	"waypoint/internal/models"
)

var (
	// ErrSessionAlreadyActive is returned by Start while the user has an
	// in-progress session.
	ErrSessionAlreadyActive = errors.New("session already active") // 400

	// ErrNoActiveSession is returned by Stop and AddPoint when no matching
	// active session exists.
	ErrNoActiveSession = errors.New("no active session") // 400

	// ErrSessionNotFound is returned by Path when the named session does not
	// belong to the requesting user.
	ErrSessionNotFound = errors.New("session not found") // 404
)

// Ledger records path sessions and their points. Every operation is scoped to
// the owning user id, so cross-user reads are impossible by construction.
type Ledger struct {
	db *gorm.DB
}

// NewLedger returns a Ledger backed by the given database handle.
func NewLedger(database *gorm.DB) *Ledger {
	return &Ledger{db: database}
}

// Start opens a new active session. The check and the insert share one
// transaction, and the partial unique index on (user_id) WHERE is_active
// catches the remaining concurrent-start race at the storage layer.
// Name reuse across inactive sessions is allowed.
func (l *Ledger) Start(ctx context.Context, userID uint, name string) (*models.Session, error) {
	session := &models.Session{UserID: userID, Name: name, IsActive: true}
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Session{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSessionAlreadyActive
		}
		return tx.Create(session).Error
	})
	if db.IsUniqueViolation(err) {
		return nil, ErrSessionAlreadyActive
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Stop deactivates the user's single active session and returns it. Sessions
// are never reactivated.
func (l *Ledger) Stop(ctx context.Context, userID uint) (*models.Session, error) {
	var session models.Session
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND is_active = ?", userID, true).
			First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveSession
			}
			return err
		}
		session.IsActive = false
		return tx.Model(&session).Update("is_active", false).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AddPoint appends a point to the user's active session, which must carry
// exactly the given name. An inactive session by that name does not qualify.
func (l *Ledger) AddPoint(ctx context.Context, userID uint, sessionName string, lat, lng float64) (*models.PathPoint, error) {
	var point *models.PathPoint
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.Where("user_id = ? AND is_active = ? AND name = ?", userID, true, sessionName).
			First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveSession
			}
			return err
		}
		point = &models.PathPoint{
			SessionID: session.ID,
			Latitude:  lat,
			Longitude: lng,
			Timestamp: time.Now().UTC(),
		}
		return tx.Create(point).Error
	})
	if err != nil {
		return nil, err
	}
	return point, nil
}

// Path returns the points of the named session in insertion order. Inactive
// sessions remain queryable; another user's session by the same name is not.
func (l *Ledger) Path(ctx context.Context, userID uint, sessionName string) ([]models.PathPoint, error) {
	var session models.Session
	if err := l.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, sessionName).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var points []models.PathPoint
	if err := l.db.WithContext(ctx).
		Where("session_id = ?", session.ID).
		Order("id").
		Find(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

// Sessions lists every session owned by the user, active or not.
func (l *Ledger) Sessions(ctx context.Context, userID uint) ([]models.Session, error) {
	var sessions []models.Session
	if err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// DeleteUser removes a user together with its sessions and their points as a
// single transactional cascade.
func (l *Ledger) DeleteUser(ctx context.Context, userID uint) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sessionIDs []uint
		if err := tx.Model(&models.Session{}).
			Where("user_id = ?", userID).
			Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}
		if len(sessionIDs) > 0 {
			if err := tx.Where("session_id IN ?", sessionIDs).
				Delete(&models.PathPoint{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).
				Delete(&models.Session{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}
