package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by both access and refresh tokens: the
// subject username, the numeric user id, and the registered expiry.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 tokens with a server-held secret.
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	now func() time.Time
}

// NewTokens builds a token signer. TTLs fall back to 30 minutes (access) and
// 7 days (refresh) when unset.
func NewTokens(secret string, accessTTL, refreshTTL time.Duration) *Tokens {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Tokens{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccess signs a short-lived access token for the given user.
func (t *Tokens) IssueAccess(userID uint, username string) (string, error) {
	return t.sign(userID, username, t.accessTTL)
}

// IssueRefresh signs a refresh token and returns its expiry so the caller can
// persist the server-side copy alongside the token string.
func (t *Tokens) IssueRefresh(userID uint, username string) (string, time.Time, error) {
	expiresAt := t.now().Add(t.refreshTTL)
	token, err := t.sign(userID, username, t.refreshTTL)
	return token, expiresAt, err
}

func (t *Tokens) sign(userID uint, username string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies the signature and embedded expiry of a token and returns its
// claims. Any failure, including a missing subject or user id, yields
// ErrInvalidToken. For refresh tokens signature validity alone is not enough;
// Service.Refresh additionally checks the server-side stored copy.
func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
