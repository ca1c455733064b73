package infrastructure

import (
	"context"

	"lottoledger/application"
	"lottoledger/database"
	"lottoledger/domain/events"
	"lottoledger/domain/interfaces"
	"lottoledger/repository"
)

// UnitOfWorkFactory implements the application.UnitOfWorkFactory interface.
// Each unit of work gets its own transactional publisher, so events buffered
// in one transaction never leak into another.
type UnitOfWorkFactory struct {
	repoFactory interface {
		CreateWithPublisher(publisher interfaces.TransactionalEventPublisher) application.UnitOfWork
	}
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler registers a handler that will be invoked in-process
// for events of the given type
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error) {
	if natsPublisher, ok := f.eventPublisher.(*NATSEventPublisher); ok {
		natsPublisher.RegisterLocalHandler(eventType, handler)
	}
}

// Create creates a new UnitOfWork with a fresh transactional event publisher
func (f *UnitOfWorkFactory) Create() application.UnitOfWork {
	return f.repoFactory.CreateWithPublisher(NewNATSTransactionalPublisher(f.eventPublisher))
}
