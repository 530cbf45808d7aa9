package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the waypoint API service.
type Config struct {
	Addr                 string        `env:"ADDR,default=:8080"`
	DBDSN                string        `env:"DB_DSN,required"`
	JWTSigningKey        string        `env:"JWT_SIGNING_KEY,required"`
	AccessTokenTTL       time.Duration `env:"ACCESS_TOKEN_TTL,default=30m"`
	RefreshTokenTTL      time.Duration `env:"REFRESH_TOKEN_TTL,default=168h"`
	RefreshTokenRotation bool          `env:"REFRESH_TOKEN_ROTATION,default=false"`
	AllowedOrigins       []string      `env:"CORS_ALLOWED_ORIGINS,default=*"`
	NATSURL              string        `env:"NATS_URL"`
	OTLPEndpoint         string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
