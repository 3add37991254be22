package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration assembled from the environment.
type Server struct {
	Addr string

	// SQLite database path, used unless DatabaseURL selects Postgres.
	DBPath string
	// Postgres connection string. When set it takes precedence over DBPath.
	DatabaseURL string

	Redis RedisConfig

	// CacheTTL bounds how long cached representative data stays servable.
	CacheTTL time.Duration
	// SweepInterval is the cadence of the background expired-entry sweep.
	SweepInterval time.Duration
	// ChatRetention bounds how long conversation history is kept.
	ChatRetention time.Duration

	// MaxLegislators caps how many legislators are enriched per ZIP lookup.
	MaxLegislators int
	// ActivityLimit caps recent legislative activity items per legislator.
	ActivityLimit int
	// UpstreamTimeout bounds each call to an external government data source.
	UpstreamTimeout time.Duration

	GeocodioAPIKey string
	CongressAPIKey string

	// ExplainProvider selects the completion backend: "gemini" or "openai".
	ExplainProvider string
	GeminiAPIKey    string
	OpenAIAPIKey    string
}

// RedisConfig captures connection settings for the optional Redis-backed
// chat history store. An empty URL means Redis is not configured.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:        envOr("CIVIC_ADDR", ":8080"),
		DBPath:      envOr("CIVIC_DB_PATH", "civicbridge.db"),
		DatabaseURL: os.Getenv("CIVIC_DATABASE_URL"),

		Redis: RedisConfig{
			URL:          os.Getenv("CIVIC_REDIS_URL"),
			PoolSize:     envInt("CIVIC_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("CIVIC_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("CIVIC_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("CIVIC_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("CIVIC_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},

		CacheTTL:      envDuration("CIVIC_CACHE_TTL", 24*time.Hour),
		SweepInterval: envDuration("CIVIC_SWEEP_INTERVAL", time.Hour),
		ChatRetention: envDuration("CIVIC_CHAT_RETENTION", 7*24*time.Hour),

		MaxLegislators:  envInt("CIVIC_MAX_LEGISLATORS", 3),
		ActivityLimit:   envInt("CIVIC_ACTIVITY_LIMIT", 5),
		UpstreamTimeout: envDuration("CIVIC_UPSTREAM_TIMEOUT", 10*time.Second),

		GeocodioAPIKey: os.Getenv("GEOCODIO_API_KEY"),
		CongressAPIKey: os.Getenv("CONGRESS_API_KEY"),

		ExplainProvider: envOr("CIVIC_EXPLAIN_PROVIDER", "gemini"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
