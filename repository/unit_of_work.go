package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lottoledger/application"
	"lottoledger/database"
	"lottoledger/domain/interfaces"
)

// unitOfWork implements the UnitOfWork interface over a single pgx transaction
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher

	accountRepo     interfaces.AccountRepository
	transactionRepo interfaces.TransactionRepository
	lotteryRepo     interfaces.LotteryRepository
	ticketRepo      interfaces.TicketRepository
	winnerRepo      interfaces.WinnerRepository
	auditLogRepo    interfaces.DrawAuditLogRepository
	withdrawalRepo  interfaces.WithdrawalRequestRepository
	paymentRepo     interfaces.PaymentIntentRepository
	referralRepo    interfaces.ReferralRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// CreateWithPublisher creates a new UnitOfWork with a specific transactional publisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction and binds the repositories to it
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = NewAccountRepository(tx)
	u.transactionRepo = NewTransactionRepository(tx)
	u.lotteryRepo = NewLotteryRepository(tx)
	u.ticketRepo = NewTicketRepository(tx)
	u.winnerRepo = NewWinnerRepository(tx)
	u.auditLogRepo = NewDrawAuditLogRepository(tx)
	u.withdrawalRepo = NewWithdrawalRequestRepository(tx)
	u.paymentRepo = NewPaymentIntentRepository(tx)
	u.referralRepo = NewReferralRepository(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Flush(u.ctx)
	}
	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}
	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	u.mustBeStarted(u.accountRepo == nil)
	return u.accountRepo
}

// TransactionRepository returns the transaction repository for this unit of work
func (u *unitOfWork) TransactionRepository() interfaces.TransactionRepository {
	u.mustBeStarted(u.transactionRepo == nil)
	return u.transactionRepo
}

// LotteryRepository returns the lottery repository for this unit of work
func (u *unitOfWork) LotteryRepository() interfaces.LotteryRepository {
	u.mustBeStarted(u.lotteryRepo == nil)
	return u.lotteryRepo
}

// TicketRepository returns the ticket repository for this unit of work
func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	u.mustBeStarted(u.ticketRepo == nil)
	return u.ticketRepo
}

// WinnerRepository returns the winner repository for this unit of work
func (u *unitOfWork) WinnerRepository() interfaces.WinnerRepository {
	u.mustBeStarted(u.winnerRepo == nil)
	return u.winnerRepo
}

// DrawAuditLogRepository returns the draw audit log repository for this unit of work
func (u *unitOfWork) DrawAuditLogRepository() interfaces.DrawAuditLogRepository {
	u.mustBeStarted(u.auditLogRepo == nil)
	return u.auditLogRepo
}

// WithdrawalRequestRepository returns the withdrawal request repository for this unit of work
func (u *unitOfWork) WithdrawalRequestRepository() interfaces.WithdrawalRequestRepository {
	u.mustBeStarted(u.withdrawalRepo == nil)
	return u.withdrawalRepo
}

// PaymentIntentRepository returns the payment intent repository for this unit of work
func (u *unitOfWork) PaymentIntentRepository() interfaces.PaymentIntentRepository {
	u.mustBeStarted(u.paymentRepo == nil)
	return u.paymentRepo
}

// ReferralRepository returns the referral repository for this unit of work
func (u *unitOfWork) ReferralRepository() interfaces.ReferralRepository {
	u.mustBeStarted(u.referralRepo == nil)
	return u.referralRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	u.mustBeStarted(u.transactionalPublisher == nil)
	return u.transactionalPublisher
}

func (u *unitOfWork) mustBeStarted(missing bool) {
	if missing {
		panic("unit of work not started - call Begin() first")
	}
}
