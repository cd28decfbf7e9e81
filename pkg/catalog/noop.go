package catalog

import "context"

// NoopPublisher is a no-operation implementation of EventPublisher.
// Useful when no downstream consumer is wired, and for testing.
type NoopPublisher struct{}

// NewNoopPublisher creates a new no-operation publisher
func NewNoopPublisher() EventPublisher {
	return &NoopPublisher{}
}

// Publish does nothing and returns nil
func (n *NoopPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	return nil
}
