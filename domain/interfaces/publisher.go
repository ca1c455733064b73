package interfaces

import "context"

// TransactionalEventPublisher buffers published events until the enclosing
// unit of work settles. Flush delivers the buffer after commit; Discard
// drops it on rollback.
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush delivers all buffered events
	Flush(ctx context.Context)

	// Discard drops all buffered events
	Discard()
}
