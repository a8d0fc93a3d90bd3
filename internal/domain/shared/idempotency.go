package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that have already been handled
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Unmark forgets a key so it can be marked again. Unknown keys are not
	// an error.
	Unmark(ctx context.Context, key string) error

	Close() error
}

// DefaultIdempotencyTTL is how long a processed key is remembered when the
// caller does not configure one
const DefaultIdempotencyTTL = 24 * time.Hour
