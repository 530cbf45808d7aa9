package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"waypoint/internal/bus"
	"waypoint/internal/metrics"
)

func (a *API) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	user := userFrom(r.Context())
	session, err := a.ledger.Start(r.Context(), user.ID, req.Name)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	metrics.SessionsStarted.Inc()
	a.bus.Publish(r.Context(), bus.SessionStartedSubject, user.ID, session.ID, map[string]any{
		"name": session.Name,
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"name": session.Name,
		"date": session.CreatedAt.Format("2006-01-02"),
	})
}

func (a *API) handleStopSession(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	session, err := a.ledger.Stop(r.Context(), user.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	a.bus.Publish(r.Context(), bus.SessionStoppedSubject, user.ID, session.ID, nil)

	respondJSON(w, http.StatusOK, map[string]any{
		"message":    "session stopped",
		"session_id": session.ID,
	})
}

func (a *API) handleAddPoint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	user := userFrom(r.Context())
	name := chi.URLParam(r, "name")

	point, err := a.ledger.AddPoint(r.Context(), user.ID, name, req.Latitude, req.Longitude)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	metrics.PointsRecorded.Inc()
	a.bus.Publish(r.Context(), bus.PointAddedSubject, user.ID, point.SessionID, map[string]any{
		"lat": point.Latitude,
		"lng": point.Longitude,
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"lat": point.Latitude,
		"lng": point.Longitude,
	})
}

func (a *API) handleGetPath(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	name := chi.URLParam(r, "name")

	points, err := a.ledger.Path(r.Context(), user.ID, name)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]map[string]any, 0, len(points))
	for _, p := range points {
		out = append(out, map[string]any{
			"id":        p.ID,
			"latitude":  p.Latitude,
			"longitude": p.Longitude,
			"timestamp": p.Timestamp,
		})
	}

	respondJSON(w, http.StatusOK, out)
}

func (a *API) handleListSessions(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	sessions, err := a.ledger.Sessions(r.Context(), user.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]map[string]any, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, map[string]any{
			"id":         s.ID,
			"name":       s.Name,
			"created_at": s.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, out)
}
