package bus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Subjects for session lifecycle events.
const (
	SessionStartedSubject = "waypoint.sessions.started"
	SessionStoppedSubject = "waypoint.sessions.stopped"
	PointAddedSubject     = "waypoint.points.added"
)

// Event is the envelope published for every session lifecycle change.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uint           `json:"user_id"`
	SessionID uint           `json:"session_id"`
	Payload   map[string]any `json:"payload,omitempty"`
	At        time.Time      `json:"at"`
}

// Bus wraps a NATS JetStream connection for publishing lifecycle events. A
// nil Bus is valid and drops every publish, so event delivery stays optional.
type Bus struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// Connect creates a Bus connected to the provided NATS endpoint. An empty URL
// returns a nil Bus.
func Connect(url string, opts ...nats.Option) (*Bus, error) {
	if url == "" {
		return nil, nil
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	return &Bus{conn: nc, js: js}, nil
}

// Close shuts down the underlying NATS connection.
func (b *Bus) Close() {
	if b == nil {
		return
	}
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
	}
}

// Publish sends an event to the given subject. Delivery is best-effort:
// failures are logged, never surfaced to the request path.
func (b *Bus) Publish(ctx context.Context, subj string, userID, sessionID uint, payload map[string]any) {
	if b == nil {
		return
	}

	event := Event{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: sessionID,
		Payload:   payload,
		At:        time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("subject", subj).Msg("marshal event")
		return
	}

	if _, err := b.js.Publish(subj, data, nats.Context(ctx)); err != nil {
		log.Warn().Err(err).Str("subject", subj).Msg("publish event")
	}
}
