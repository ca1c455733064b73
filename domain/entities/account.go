package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a user's wallet. The balance is mutated exclusively through the
// ledger service; no other component writes it.
type Account struct {
	ID        uuid.UUID       `db:"id"`
	Username  string          `db:"username"`
	Email     string          `db:"email"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// HasSufficientBalance checks if the account can cover an amount
func (a *Account) HasSufficientBalance(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// ValidateAmount checks that an amount is a legal mutation amount
func (a *Account) ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
