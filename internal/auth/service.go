package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"waypoint/internal/db"
	"waypoint/internal/models"
)

// TokenPair is the envelope returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Service implements registration, login, refresh, and logout on top of the
// user store and the token signer.
type Service struct {
	db     *gorm.DB
	tokens *Tokens
	rotate bool
}

// NewService wires the auth service. When rotate is true a fresh refresh
// token is issued on every successful refresh; by default the same refresh
// token stays valid until logout or natural expiry.
func NewService(database *gorm.DB, tokens *Tokens, rotate bool) *Service {
	return &Service{db: database, tokens: tokens, rotate: rotate}
}

// Register creates a user with a bcrypt-hashed password. The username must be
// unused (case-sensitive exact match).
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: hash}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateUsername
		}
		return tx.Create(user).Error
	})
	if db.IsUniqueViolation(err) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a fresh token pair. The new refresh
// token replaces any previously stored one and clears the revoked flag.
// Unknown usernames and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, ErrAuthFailure
		}
		return TokenPair{}, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return TokenPair{}, ErrAuthFailure
	}

	access, err := s.tokens.IssueAccess(user.ID, user.Username)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, expiresAt, err := s.tokens.IssueRefresh(user.ID, user.Username)
	if err != nil {
		return TokenPair{}, err
	}

	updates := map[string]any{
		"refresh_token":      refresh,
		"refresh_expires_at": expiresAt,
		"revoked":            false,
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The token
// must verify cryptographically AND match the stored server-side copy of a
// non-revoked, non-expired user record; any violation is rejected with the
// same error.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if _, err := s.tokens.Parse(refreshToken); err != nil {
		return TokenPair{}, ErrRefreshRejected
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("refresh_token = ? AND revoked = ? AND refresh_expires_at > ?", refreshToken, false, s.tokens.now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, ErrRefreshRejected
		}
		return TokenPair{}, err
	}

	access, err := s.tokens.IssueAccess(user.ID, user.Username)
	if err != nil {
		return TokenPair{}, err
	}

	if s.rotate {
		rotated, expiresAt, err := s.tokens.IssueRefresh(user.ID, user.Username)
		if err != nil {
			return TokenPair{}, err
		}
		updates := map[string]any{
			"refresh_token":      rotated,
			"refresh_expires_at": expiresAt,
		}
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return TokenPair{}, err
		}
		refreshToken = rotated
	}

	return TokenPair{AccessToken: access, RefreshToken: refreshToken, TokenType: "bearer"}, nil
}

// Logout revokes the user's refresh token server-side, independent of its
// embedded expiry. Calling it for a user with no outstanding token is a no-op.
func (s *Service) Logout(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]any{
			"refresh_token":      nil,
			"refresh_expires_at": nil,
			"revoked":            true,
		}).Error
}

// CurrentUser resolves the acting user from a bearer access token. Both parse
// failures and a stale subject map to ErrInvalidToken.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Parse(accessToken)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", claims.Subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &user, nil
}
