package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registrations counts successfully created accounts.
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waypoint_registrations_total",
		Help: "Number of successful user registrations.",
	})

	// Logins counts login attempts by outcome (ok, rejected).
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypoint_logins_total",
		Help: "Number of login attempts by outcome.",
	}, []string{"outcome"})

	// SessionsStarted counts path sessions opened.
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waypoint_sessions_started_total",
		Help: "Number of path sessions started.",
	})

	// PointsRecorded counts path points appended to active sessions.
	PointsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waypoint_path_points_total",
		Help: "Number of path points recorded.",
	})
)
