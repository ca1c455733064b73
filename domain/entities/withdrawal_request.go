package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalStatus represents the admin-driven withdrawal lifecycle
type WithdrawalStatus string

const (
	WithdrawalStatusRequested  WithdrawalStatus = "REQUESTED"
	WithdrawalStatusApproved   WithdrawalStatus = "APPROVED"
	WithdrawalStatusProcessing WithdrawalStatus = "PROCESSING"
	WithdrawalStatusCompleted  WithdrawalStatus = "COMPLETED"
	WithdrawalStatusRejected   WithdrawalStatus = "REJECTED"
)

// CountsTowardLimit reports whether the status consumes withdrawal allowance.
// Anything that has left the purely-requested state counts, even before final
// settlement, so concurrent pending requests cannot evade the limits.
func (s WithdrawalStatus) CountsTowardLimit() bool {
	switch s {
	case WithdrawalStatusApproved, WithdrawalStatusProcessing, WithdrawalStatusCompleted:
		return true
	}
	return false
}

// WithdrawalRequest tracks a user's request to move funds out of the wallet.
// The linked transaction is created PENDING at request time; approval is the
// point at which the wallet is debited.
type WithdrawalRequest struct {
	ID            uuid.UUID        `db:"id"`
	AccountID     uuid.UUID        `db:"account_id"`
	Amount        decimal.Decimal  `db:"amount"`
	Status        WithdrawalStatus `db:"status"`
	TransactionID *uuid.UUID       `db:"transaction_id"`
	Remarks       string           `db:"remarks"`
	RequestedAt   time.Time        `db:"requested_at"`
	ProcessedAt   *time.Time       `db:"processed_at"`
}

// CanTransitionTo validates the withdrawal state machine:
// REQUESTED -> APPROVED -> PROCESSING -> COMPLETED, REQUESTED -> REJECTED.
func (w *WithdrawalRequest) CanTransitionTo(next WithdrawalStatus) bool {
	switch w.Status {
	case WithdrawalStatusRequested:
		return next == WithdrawalStatusApproved || next == WithdrawalStatusRejected
	case WithdrawalStatusApproved:
		return next == WithdrawalStatusProcessing
	case WithdrawalStatusProcessing:
		return next == WithdrawalStatusCompleted
	}
	return false
}

// TransitionTo moves the request to the next status, enforcing the state machine
func (w *WithdrawalRequest) TransitionTo(next WithdrawalStatus, now time.Time) error {
	if !w.CanTransitionTo(next) {
		return ErrInvalidStateTransition
	}
	w.Status = next
	if next == WithdrawalStatusCompleted || next == WithdrawalStatusRejected {
		w.ProcessedAt = &now
	}
	return nil
}
