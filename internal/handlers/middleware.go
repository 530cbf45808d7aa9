package handlers

import (
	"context"
	"net/http"
	"strings"

	"waypoint/internal/auth"
	"waypoint/internal/models"
)

type contextKey string

const userContextKey contextKey = "waypoint.user"

// requireUser resolves the acting user from the bearer access token and
// stashes it in the request context. Requests without a valid token never
// reach the wrapped handler.
func (a *API) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, auth.ErrInvalidToken)
			return
		}

		user, err := a.auth.CurrentUser(r.Context(), token)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func userFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}
