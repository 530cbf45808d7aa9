package version

// Name identifies the service in logs, traces, and event payloads.
const Name = "waypoint-api"

// Version is overridden at build time via -ldflags.
var Version = "dev"
