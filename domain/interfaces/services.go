package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lottoledger/domain/entities"
)

// TransactionDetail carries optional context attached to a ledger entry
type TransactionDetail struct {
	Description string
	LotteryID   *uuid.UUID
	ReferenceID string
}

// LedgerEntry is the result of a balance mutation: the account with its
// updated balance and the transaction recording the change
type LedgerEntry struct {
	Account     *entities.Account
	Transaction *entities.Transaction
}

// LedgerService defines the interface for balance mutations. Every mutation
// records exactly one transaction; callers run it inside a unit of work.
type LedgerService interface {
	// Credit adds amount to the account balance and records a completed transaction
	Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, kind entities.TransactionKind, detail TransactionDetail) (*LedgerEntry, error)

	// Debit subtracts amount from the account balance and records a completed transaction.
	// Returns ErrInsufficientBalance without any writes when the balance cannot cover it.
	Debit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, kind entities.TransactionKind, detail TransactionDetail) (*LedgerEntry, error)

	// ApplyDebit subtracts the transaction's amount from the account balance
	// against an already recorded pending transaction, instead of creating a
	// new one. Used when the hold was logged before the funds moved.
	ApplyDebit(ctx context.Context, accountID uuid.UUID, transaction *entities.Transaction) (*entities.Account, error)

	// MarkCompleted transitions a pending transaction to COMPLETED
	MarkCompleted(ctx context.Context, transactionID uuid.UUID) (*entities.Transaction, error)

	// MarkFailed transitions a pending transaction to FAILED
	MarkFailed(ctx context.Context, transactionID uuid.UUID) (*entities.Transaction, error)

	// MarkCancelled transitions a pending transaction to CANCELLED
	MarkCancelled(ctx context.Context, transactionID uuid.UUID) (*entities.Transaction, error)
}

// PurchaseResult is the outcome of a ticket purchase
type PurchaseResult struct {
	Tickets     []*entities.Ticket
	TotalCost   decimal.Decimal
	NewBalance  decimal.Decimal
	Transaction *entities.Transaction
}

// LotteryService defines the interface for lottery sales operations
type LotteryService interface {
	// CreateLottery creates a new lottery in DRAFT status
	CreateLottery(ctx context.Context, lottery *entities.Lottery) (*entities.Lottery, error)

	// PurchaseTickets sells quantity tickets of a lottery to an account,
	// debiting the total cost and assigning sequential ticket numbers
	PurchaseTickets(ctx context.Context, accountID, lotteryID uuid.UUID, quantity int) (*PurchaseResult, error)

	// GetAccountTickets returns an account's tickets for a lottery
	GetAccountTickets(ctx context.Context, accountID, lotteryID uuid.UUID) ([]*entities.Ticket, error)
}

// DrawResult is the outcome of a conducted draw
type DrawResult struct {
	Lottery       *entities.Lottery
	Winner        *entities.Winner
	WinningTicket *entities.Ticket
	AuditLog      *entities.DrawAuditLog
}

// DrawService defines the interface for conducting lottery draws
type DrawService interface {
	// ConductDraw selects a winning ticket uniformly at random, awards the
	// prize and records the audit trail. conductedBy is nil for scheduled
	// draws. A lottery can only ever be drawn once.
	ConductDraw(ctx context.Context, lotteryID uuid.UUID, conductedBy *uuid.UUID) (*DrawResult, error)
}

// WithdrawalAllowance reports how much of each limit window remains
type WithdrawalAllowance struct {
	DailyUsed        decimal.Decimal
	DailyRemaining   decimal.Decimal
	MonthlyUsed      decimal.Decimal
	MonthlyRemaining decimal.Decimal
}

// WithdrawalService defines the interface for the withdrawal lifecycle
type WithdrawalService interface {
	// Request validates the amount against balance and limits and creates a
	// REQUESTED withdrawal with a linked pending transaction. No funds move yet.
	Request(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, remarks string) (*entities.WithdrawalRequest, error)

	// Approve debits the account and moves the request to APPROVED
	Approve(ctx context.Context, requestID uuid.UUID, reviewedBy uuid.UUID) (*entities.WithdrawalRequest, error)

	// MarkProcessing moves an approved request to PROCESSING
	MarkProcessing(ctx context.Context, requestID uuid.UUID) (*entities.WithdrawalRequest, error)

	// Complete finalizes a processing request and completes its transaction
	Complete(ctx context.Context, requestID uuid.UUID) (*entities.WithdrawalRequest, error)

	// Reject declines a requested withdrawal before any funds have moved
	Reject(ctx context.Context, requestID uuid.UUID, reviewedBy uuid.UUID, remarks string) (*entities.WithdrawalRequest, error)

	// Allowance reports the account's remaining daily and monthly allowance
	// relative to now
	Allowance(ctx context.Context, accountID uuid.UUID, now time.Time) (*WithdrawalAllowance, error)
}

// PaymentService defines the interface for deposit settlement
type PaymentService interface {
	// CreateIntent registers a pending deposit keyed by the gateway's reference
	CreateIntent(ctx context.Context, accountID uuid.UUID, gatewayReference string, amount decimal.Decimal, currency string) (*entities.PaymentIntent, error)

	// HandleSuccess credits the deposit exactly once. Replayed deliveries
	// for an already settled intent return the intent unchanged.
	HandleSuccess(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error)

	// HandleFailure marks the intent failed without touching the balance
	HandleFailure(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error)

	// HandleCancellation marks the intent canceled without touching the balance
	HandleCancellation(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error)
}

// ReferralService defines the interface for referral qualification
type ReferralService interface {
	// CreateReferral links a referred account to its referrer
	CreateReferral(ctx context.Context, referrerAccountID, referredAccountID uuid.UUID) (*entities.Referral, error)

	// TrackDeposit accumulates a completed deposit toward the referred
	// account's qualification threshold and pays both bonuses when crossed
	TrackDeposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error
}

// LifecycleService defines the interface for scheduled lottery transitions
type LifecycleService interface {
	// ActivateScheduled opens DRAFT lotteries whose start date has passed,
	// returning how many were activated
	ActivateScheduled(ctx context.Context, now time.Time) (int, error)

	// CloseExpired closes ACTIVE lotteries whose end date has passed,
	// returning how many were closed
	CloseExpired(ctx context.Context, now time.Time) (int, error)

	// DueDraws returns CLOSED auto-draw lotteries whose draw date has passed
	DueDraws(ctx context.Context, now time.Time) ([]*entities.Lottery, error)
}
