package entities

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation errors: bad input, rejected before any mutation.
var (
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Business-rule violations: the request itself must change before a retry
// can succeed.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrLotteryNotActive    = errors.New("lottery is not active")
	ErrSalePeriodClosed    = errors.New("lottery is not currently accepting ticket purchases")
	ErrInsufficientTickets = errors.New("not enough tickets available")
	ErrMaxTicketsExceeded  = errors.New("maximum tickets per user exceeded")
)

// State-conflict errors: the entity is not in the expected lifecycle state.
var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// Not-found errors: surfaced distinctly so callers can choose retry-vs-drop.
var (
	ErrAccountNotFound           = errors.New("account not found")
	ErrLotteryNotFound           = errors.New("lottery not found")
	ErrTransactionNotFound       = errors.New("transaction not found")
	ErrWithdrawalRequestNotFound = errors.New("withdrawal request not found")
	ErrPaymentIntentNotFound     = errors.New("payment intent not found")
)

// DrawError reports why a lottery draw cannot be conducted.
type DrawError struct {
	Reason string
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("draw error: %s", e.Reason)
}

// NewDrawError creates a DrawError with the given reason
func NewDrawError(reason string) *DrawError {
	return &DrawError{Reason: reason}
}

// LimitScope identifies which withdrawal limit was breached
type LimitScope string

const (
	LimitScopeMinimum LimitScope = "minimum"
	LimitScopeMaximum LimitScope = "maximum"
	LimitScopeDaily   LimitScope = "daily"
	LimitScopeMonthly LimitScope = "monthly"
)

// LimitError reports a breached withdrawal limit along with the remaining
// allowance so callers can surface it to the user.
type LimitError struct {
	Scope     LimitScope
	Limit     decimal.Decimal
	Remaining decimal.Decimal
}

func (e *LimitError) Error() string {
	switch e.Scope {
	case LimitScopeMinimum:
		return fmt.Sprintf("minimum withdrawal amount is %s", e.Limit.StringFixed(2))
	case LimitScopeMaximum:
		return fmt.Sprintf("maximum withdrawal amount is %s", e.Limit.StringFixed(2))
	default:
		return fmt.Sprintf("%s withdrawal limit of %s exceeded, remaining allowance %s",
			e.Scope, e.Limit.StringFixed(2), e.Remaining.StringFixed(2))
	}
}
