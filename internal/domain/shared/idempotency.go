package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so redelivered events
// are handled at most once within the TTL window.
type IdempotencyStore interface {
	// MarkProcessed records the event ID. It returns false when the ID
	// was already present, meaning another delivery won.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls duplicate suppression on event handlers
type IdempotencyConfig struct {
	// TTL bounds how long an event ID is remembered. A redelivery
	// after the window is processed again.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig keeps event IDs for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{TTL: 24 * time.Hour, Enabled: true}
}
