package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the type of balance-affecting event
type TransactionKind string

const (
	TransactionKindTicketPurchase  TransactionKind = "TICKET_PURCHASE"
	TransactionKindPrizeAward      TransactionKind = "PRIZE_AWARD"
	TransactionKindDeposit         TransactionKind = "DEPOSIT"
	TransactionKindWithdrawal      TransactionKind = "WITHDRAWAL"
	TransactionKindRefund          TransactionKind = "REFUND"
	TransactionKindAdminAdjustment TransactionKind = "ADMIN_ADJUSTMENT"
	TransactionKindReferralBonus   TransactionKind = "REFERRAL_BONUS"
)

// IsCredit returns true if the kind increases the account balance
func (k TransactionKind) IsCredit() bool {
	switch k {
	case TransactionKindPrizeAward, TransactionKindDeposit,
		TransactionKindRefund, TransactionKindReferralBonus:
		return true
	}
	return false
}

// String returns the string representation of the kind
func (k TransactionKind) String() string {
	return string(k)
}

// TransactionStatus represents the lifecycle state of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// IsTerminal returns true once the status can no longer change
func (s TransactionStatus) IsTerminal() bool {
	return s != TransactionStatusPending
}

// Transaction is an append-only ledger record. Amount, kind and account never
// change after creation; only the status and completed_at may move, once,
// out of PENDING.
type Transaction struct {
	ID          uuid.UUID         `db:"id"`
	AccountID   uuid.UUID         `db:"account_id"`
	Kind        TransactionKind   `db:"kind"`
	Amount      decimal.Decimal   `db:"amount"`
	Status      TransactionStatus `db:"status"`
	LotteryID   *uuid.UUID        `db:"lottery_id"`
	ReferenceID string            `db:"reference_id"`
	Description string            `db:"description"`
	CreatedAt   time.Time         `db:"created_at"`
	CompletedAt *time.Time        `db:"completed_at"`
}

// MarkCompleted transitions the transaction from PENDING to COMPLETED
func (t *Transaction) MarkCompleted(now time.Time) error {
	if t.Status != TransactionStatusPending {
		return ErrInvalidStateTransition
	}
	t.Status = TransactionStatusCompleted
	t.CompletedAt = &now
	return nil
}

// MarkFailed transitions the transaction from PENDING to FAILED
func (t *Transaction) MarkFailed() error {
	if t.Status != TransactionStatusPending {
		return ErrInvalidStateTransition
	}
	t.Status = TransactionStatusFailed
	return nil
}

// MarkCancelled transitions the transaction from PENDING to CANCELLED
func (t *Transaction) MarkCancelled() error {
	if t.Status != TransactionStatusPending {
		return ErrInvalidStateTransition
	}
	t.Status = TransactionStatusCancelled
	return nil
}
