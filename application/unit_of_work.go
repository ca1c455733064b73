package application

import (
	"context"

	"lottoledger/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// Events published through EventBus() are buffered and only flushed after a
// successful commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() interfaces.AccountRepository
	TransactionRepository() interfaces.TransactionRepository
	LotteryRepository() interfaces.LotteryRepository
	TicketRepository() interfaces.TicketRepository
	WinnerRepository() interfaces.WinnerRepository
	DrawAuditLogRepository() interfaces.DrawAuditLogRepository
	WithdrawalRequestRepository() interfaces.WithdrawalRequestRepository
	PaymentIntentRepository() interfaces.PaymentIntentRepository
	ReferralRepository() interfaces.ReferralRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
