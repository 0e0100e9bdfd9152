package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration

	// Transform retry settings. UpdateSession retries up to MaxRetries
	// times when a concurrent write invalidates the transaction, backing
	// off RetryBackoff (doubled each attempt) between tries.
	MaxRetries   int
	RetryBackoff time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:           "redis://localhost:6379",
		PoolSize:      10,
		MinIdleConns:  2,
		SessionTTL:    7 * 24 * time.Hour,
		ResetTokenTTL: time.Hour,
		MaxRetries:    5,
		RetryBackoff:  10 * time.Millisecond,
	}
}
