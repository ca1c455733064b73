package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentIntentStatus mirrors the external gateway's intent lifecycle
type PaymentIntentStatus string

const (
	PaymentIntentStatusCreated    PaymentIntentStatus = "created"
	PaymentIntentStatusProcessing PaymentIntentStatus = "processing"
	PaymentIntentStatusSucceeded  PaymentIntentStatus = "succeeded"
	PaymentIntentStatusFailed     PaymentIntentStatus = "failed"
	PaymentIntentStatusCanceled   PaymentIntentStatus = "canceled"
)

// PaymentIntent is the local mirror of an external payment-processor intent.
// gateway_reference is unique: at most one DEPOSIT transaction is ever
// created per reference, no matter how many webhook deliveries arrive.
type PaymentIntent struct {
	ID               uuid.UUID           `db:"id"`
	AccountID        uuid.UUID           `db:"account_id"`
	GatewayReference string              `db:"gateway_reference"`
	Amount           decimal.Decimal     `db:"amount"`
	Currency         string              `db:"currency"`
	Status           PaymentIntentStatus `db:"status"`
	TransactionID    *uuid.UUID          `db:"transaction_id"`
	CreatedAt        time.Time           `db:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at"`
	CompletedAt      *time.Time          `db:"completed_at"`
}

// IsSettled returns true once a completed deposit has been linked
func (p *PaymentIntent) IsSettled() bool {
	return p.Status == PaymentIntentStatusSucceeded && p.TransactionID != nil
}
