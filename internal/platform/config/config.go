package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// RedisURL enables the Redis-backed session and lockout stores when
	// set; empty falls back to in-memory stores.
	RedisURL string

	// PostgresDSN enables the Postgres clearance store when set; empty
	// falls back to the seeded in-memory store.
	PostgresDSN string

	// MonitorInterval is how often each monitored session is re-verified.
	MonitorInterval time.Duration

	// CollaboratorTimeout bounds every external verifier/scorer/sealer call.
	CollaboratorTimeout time.Duration

	// SealerEncKey and SealerSignSeed are base64 key material for the
	// token sealer. Empty means an ephemeral dev sealer.
	SealerEncKey   string
	SealerSignSeed string

	Issuer string

	// SeedDev loads development clearance records into the in-memory store.
	SeedDev bool
}

// RedisConfig carries tuning for the shared Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                envDefault("ZONEGATE_ADDR", ":8080"),
		RedisURL:            os.Getenv("ZONEGATE_REDIS_URL"),
		PostgresDSN:         os.Getenv("ZONEGATE_POSTGRES_DSN"),
		MonitorInterval:     envDuration("ZONEGATE_MONITOR_INTERVAL", 30*time.Second),
		CollaboratorTimeout: envDuration("ZONEGATE_COLLABORATOR_TIMEOUT", 3*time.Second),
		SealerEncKey:        os.Getenv("ZONEGATE_SEALER_ENC_KEY"),
		SealerSignSeed:      os.Getenv("ZONEGATE_SEALER_SIGN_SEED"),
		Issuer:              envDefault("ZONEGATE_ISSUER", "zonegate"),
		SeedDev:             envBool("ZONEGATE_SEED_DEV", true),
	}
	return cfg
}

// Redis derives the Redis client configuration with pool defaults.
func (s Server) Redis() RedisConfig {
	return RedisConfig{
		URL:          s.RedisURL,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
