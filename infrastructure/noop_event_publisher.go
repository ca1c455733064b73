package infrastructure

import (
	"lottoledger/domain/events"
)

// NoopEventPublisher is an event publisher that does nothing. Used in tests
// and administrative tooling where side effects are unwanted.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
