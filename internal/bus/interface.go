package bus

import (
	"context"
	"io"
	"log"
)

// Stream names.
const (
	StreamShares  = "case_shares"
	StreamQueries = "case_queries"
)

// Bus defines the interface for event bus implementations
type Bus interface {
	// PublishShare publishes a share action to the shares stream
	PublishShare(ctx context.Context, msg ShareMessage) error

	// PublishQuery publishes a filter query to the queries stream
	PublishQuery(ctx context.Context, msg QueryMessage) error

	// ReadSharesStream reads from the shares stream
	ReadSharesStream(ctx context.Context, group, consumer string, handler func(ctx context.Context, share ShareMessage) error) error

	// GetStats returns basic statistics about the bus
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// HealthCheck performs a health check on the bus connection
	HealthCheck(ctx context.Context) error

	// Close closes the bus connection
	Close() error
}

// NewBus creates a new bus instance based on the Redis URL
// If redisURL is empty or invalid, returns a NullBus
func NewBus(redisURL string, logger *log.Logger) Bus {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if redisURL == "" {
		return NewNullBus(logger)
	}

	// Try to create Redis bus
	redisBus, err := NewRedisBus(redisURL, logger)
	if err == nil {
		return redisBus
	}

	// Fall back to null bus if Redis fails
	logger.Printf("Redis unavailable, share and query events are not published: %v", err)
	return NewNullBus(logger)
}
