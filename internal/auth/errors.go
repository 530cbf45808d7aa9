package auth

import "errors"

var (
	// ErrDuplicateUsername is returned when registration hits an existing username.
	ErrDuplicateUsername = errors.New("username already registered") // 400

	// ErrAuthFailure is deliberately shared between unknown-user and
	// bad-password so login responses carry no distinguishing signal.
	ErrAuthFailure = errors.New("invalid credentials") // 401

	// ErrInvalidToken covers malformed, mis-signed, and expired access tokens.
	ErrInvalidToken = errors.New("invalid token") // 401

	// ErrRefreshRejected covers every refresh-validity condition: bad
	// signature, embedded expiry, stored-token mismatch, revocation, and
	// server-side expiry.
	ErrRefreshRejected = errors.New("refresh token expired or revoked") // 401
)
