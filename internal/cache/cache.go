package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores document summaries keyed by the hash of their extracted text.
type Cache interface {
	// GetSummary returns the cached summary and whether it was found.
	GetSummary(ctx context.Context, key string) (string, bool, error)

	// SetSummary stores a summary with TTL.
	SetSummary(ctx context.Context, key, summary string, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// Key derives the cache key for a model prompt.
func Key(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
