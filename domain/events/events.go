package events

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lottoledger/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange           EventType = "balance_change"
	EventTypeTicketsPurchased        EventType = "tickets_purchased"
	EventTypeDrawCompleted           EventType = "draw_completed"
	EventTypeDepositCompleted        EventType = "deposit_completed"
	EventTypeWithdrawalStatusChanged EventType = "withdrawal_status_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID     uuid.UUID
	TransactionID uuid.UUID
	Kind          entities.TransactionKind
	OldBalance    decimal.Decimal
	NewBalance    decimal.Decimal
	ChangeAmount  decimal.Decimal
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// TicketsPurchasedEvent represents a completed ticket purchase
type TicketsPurchasedEvent struct {
	AccountID     uuid.UUID
	LotteryID     uuid.UUID
	Quantity      int
	TotalCost     decimal.Decimal
	TicketNumbers []int64
}

func (e TicketsPurchasedEvent) Type() EventType {
	return EventTypeTicketsPurchased
}

// DrawCompletedEvent represents a settled lottery draw
type DrawCompletedEvent struct {
	LotteryID       uuid.UUID
	WinnerAccountID uuid.UUID
	WinningTicket   int64
	PrizeAmount     decimal.Decimal
}

func (e DrawCompletedEvent) Type() EventType {
	return EventTypeDrawCompleted
}

// DepositCompletedEvent represents a credited gateway deposit
type DepositCompletedEvent struct {
	AccountID        uuid.UUID
	GatewayReference string
	Amount           decimal.Decimal
}

func (e DepositCompletedEvent) Type() EventType {
	return EventTypeDepositCompleted
}

// WithdrawalStatusChangedEvent represents a withdrawal lifecycle transition
type WithdrawalStatusChangedEvent struct {
	RequestID uuid.UUID
	AccountID uuid.UUID
	OldStatus entities.WithdrawalStatus
	NewStatus entities.WithdrawalStatus
	Amount    decimal.Decimal
}

func (e WithdrawalStatusChangedEvent) Type() EventType {
	return EventTypeWithdrawalStatusChanged
}
