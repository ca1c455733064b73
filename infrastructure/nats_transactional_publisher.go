package infrastructure

import (
	"context"

	log "github.com/sirupsen/logrus"

	"lottoledger/domain/events"
	"lottoledger/domain/interfaces"
)

// NATSTransactionalPublisher holds events until Flush, keeping event
// delivery consistent with the database transaction they were produced in
type NATSTransactionalPublisher struct {
	realPublisher interfaces.EventPublisher
	pending       []events.Event
}

// NewNATSTransactionalPublisher creates a new transactional publisher
func NewNATSTransactionalPublisher(realPublisher interfaces.EventPublisher) *NATSTransactionalPublisher {
	return &NATSTransactionalPublisher{
		realPublisher: realPublisher,
		pending:       make([]events.Event, 0),
	}
}

// Publish stores an event in the pending queue without immediately publishing
func (p *NATSTransactionalPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

// Flush publishes all pending events. Called after a successful commit;
// individual publish failures are logged and do not block the rest of the
// buffer, since the database state is already final.
func (p *NATSTransactionalPublisher) Flush(ctx context.Context) {
	for _, event := range p.pending {
		if err := p.realPublisher.Publish(event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to publish event during flush")
		}
	}
	p.pending = p.pending[:0]
}

// Discard clears all pending events without publishing them. Called on
// transaction rollback.
func (p *NATSTransactionalPublisher) Discard() {
	if len(p.pending) > 0 {
		log.WithField("discardedEventCount", len(p.pending)).Debug("Discarding pending events")
	}
	p.pending = p.pending[:0]
}
