package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lottoledger/domain/entities"
	"lottoledger/domain/events"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by its ID, or nil if none exists
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error)

	// GetByIDForUpdate retrieves an account with a row lock held for the
	// duration of the enclosing transaction
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Account, error)

	// Create creates a new account
	Create(ctx context.Context, account *entities.Account) error

	// UpdateBalance persists a new balance for the account
	UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error
}

// TransactionRepository defines the interface for transaction log access
type TransactionRepository interface {
	// Create creates a new transaction record and fills in its ID and CreatedAt
	Create(ctx context.Context, transaction *entities.Transaction) error

	// GetByID retrieves a transaction by its ID, or nil if none exists
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)

	// GetByIDForUpdate retrieves a transaction with a row lock
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)

	// UpdateStatus persists the transaction's status and CompletedAt
	UpdateStatus(ctx context.Context, transaction *entities.Transaction) error

	// GetByAccount returns the most recent transactions for an account
	GetByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*entities.Transaction, error)

	// GetByKind returns the most recent transactions of a given kind
	GetByKind(ctx context.Context, kind entities.TransactionKind, limit int) ([]*entities.Transaction, error)

	// GetByDateRange returns an account's transactions within a date range
	GetByDateRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*entities.Transaction, error)

	// GetByReference retrieves a transaction by its external reference ID,
	// or nil if none exists
	GetByReference(ctx context.Context, referenceID string) (*entities.Transaction, error)
}

// LotteryRepository defines the interface for lottery data access
type LotteryRepository interface {
	// Create creates a new lottery
	Create(ctx context.Context, lottery *entities.Lottery) error

	// GetByID retrieves a lottery by its ID, or nil if none exists
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Lottery, error)

	// GetByIDForUpdate retrieves a lottery with a row lock held for the
	// duration of the enclosing transaction
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Lottery, error)

	// Update persists the lottery's mutable fields
	Update(ctx context.Context, lottery *entities.Lottery) error

	// GetByStatus returns lotteries in the given status, newest first
	GetByStatus(ctx context.Context, status entities.LotteryStatus) ([]*entities.Lottery, error)

	// GetDraftStartingBefore returns DRAFT lotteries whose start date has passed
	GetDraftStartingBefore(ctx context.Context, t time.Time) ([]*entities.Lottery, error)

	// GetActiveEndedBefore returns ACTIVE lotteries whose end date has passed
	GetActiveEndedBefore(ctx context.Context, t time.Time) ([]*entities.Lottery, error)

	// GetDueForDraw returns CLOSED auto-draw lotteries whose draw date has passed
	GetDueForDraw(ctx context.Context, t time.Time) ([]*entities.Lottery, error)
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// CreateBatch inserts a contiguous block of tickets in one statement
	CreateBatch(ctx context.Context, tickets []*entities.Ticket) error

	// GetByLottery returns all tickets for a lottery ordered by ticket number
	GetByLottery(ctx context.Context, lotteryID uuid.UUID) ([]*entities.Ticket, error)

	// GetByAccountAndLottery returns an account's tickets for a lottery
	GetByAccountAndLottery(ctx context.Context, accountID, lotteryID uuid.UUID) ([]*entities.Ticket, error)

	// CountByAccountAndLottery returns how many tickets an account holds in a lottery
	CountByAccountAndLottery(ctx context.Context, accountID, lotteryID uuid.UUID) (int, error)

	// CountByLottery returns the number of tickets sold for a lottery
	CountByLottery(ctx context.Context, lotteryID uuid.UUID) (int, error)

	// CountDistinctParticipants returns the number of distinct ticket holders
	CountDistinctParticipants(ctx context.Context, lotteryID uuid.UUID) (int, error)

	// MaxTicketNumber returns the highest ticket number assigned so far,
	// or 0 when no tickets have been sold
	MaxTicketNumber(ctx context.Context, lotteryID uuid.UUID) (int64, error)

	// MarkWinner flags a ticket as the winning ticket
	MarkWinner(ctx context.Context, ticketID uuid.UUID) error

	// GetParticipantSummary returns per-account ticket counts for a lottery
	GetParticipantSummary(ctx context.Context, lotteryID uuid.UUID) ([]*entities.ParticipantInfo, error)
}

// WinnerRepository defines the interface for winner records
type WinnerRepository interface {
	// Create creates a new winner record
	Create(ctx context.Context, winner *entities.Winner) error

	// GetByLottery retrieves the winner for a lottery, or nil if not drawn
	GetByLottery(ctx context.Context, lotteryID uuid.UUID) (*entities.Winner, error)

	// GetByAccount returns all wins for an account, newest first
	GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.Winner, error)
}

// DrawAuditLogRepository defines the interface for draw audit records
type DrawAuditLogRepository interface {
	// Create creates the audit record for a conducted draw
	Create(ctx context.Context, log *entities.DrawAuditLog) error

	// GetByLottery retrieves the audit record for a lottery, or nil if none exists
	GetByLottery(ctx context.Context, lotteryID uuid.UUID) (*entities.DrawAuditLog, error)
}

// WithdrawalRequestRepository defines the interface for withdrawal requests
type WithdrawalRequestRepository interface {
	// Create creates a new withdrawal request
	Create(ctx context.Context, request *entities.WithdrawalRequest) error

	// GetByID retrieves a withdrawal request by its ID, or nil if none exists
	GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error)

	// GetByIDForUpdate retrieves a withdrawal request with a row lock
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error)

	// Update persists the request's status, remarks and ProcessedAt
	Update(ctx context.Context, request *entities.WithdrawalRequest) error

	// SumCountedInWindow sums the amounts of an account's limit-counted
	// requests whose RequestedAt falls within [from, to)
	SumCountedInWindow(ctx context.Context, accountID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

// PaymentIntentRepository defines the interface for payment intents
type PaymentIntentRepository interface {
	// Create creates a new payment intent
	Create(ctx context.Context, intent *entities.PaymentIntent) error

	// GetByGatewayReference retrieves an intent by its gateway reference,
	// or nil if none exists
	GetByGatewayReference(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error)

	// GetByGatewayReferenceForUpdate retrieves an intent by its gateway
	// reference with a row lock, serializing concurrent webhook deliveries
	GetByGatewayReferenceForUpdate(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error)

	// Update persists the intent's status and linked transaction
	Update(ctx context.Context, intent *entities.PaymentIntent) error
}

// ReferralRepository defines the interface for referral tracking
type ReferralRepository interface {
	// Create creates a new referral link
	Create(ctx context.Context, referral *entities.Referral) error

	// GetByReferredAccountForUpdate retrieves the referral where the given
	// account is the referred party, with a row lock, or nil if none exists
	GetByReferredAccountForUpdate(ctx context.Context, referredAccountID uuid.UUID) (*entities.Referral, error)

	// GetByReferrer returns all referrals made by an account
	GetByReferrer(ctx context.Context, referrerAccountID uuid.UUID) ([]*entities.Referral, error)

	// Update persists the referral's accumulated deposit and status
	Update(ctx context.Context, referral *entities.Referral) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish publishes an event. Within a unit of work the event is
	// buffered and only flushed after a successful commit.
	Publish(event events.Event) error
}
