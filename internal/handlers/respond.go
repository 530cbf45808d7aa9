package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"waypoint/internal/auth"
	"waypoint/internal/paths"
)

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	respondJSON(w, status, map[string]any{"error": err.Error()})
}

// respondDomainError maps the domain error taxonomy 1:1 onto HTTP statuses.
// Anything outside the taxonomy (gorm/pgx connectivity failures and the like)
// is logged and surfaced as an opaque 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrDuplicateUsername),
		errors.Is(err, paths.ErrSessionAlreadyActive),
		errors.Is(err, paths.ErrNoActiveSession):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, auth.ErrAuthFailure),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshRejected):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, paths.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, err)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
