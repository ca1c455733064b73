package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lottoledger/domain/entities"
)

// PaymentIntentRepository implements payment intent access
type PaymentIntentRepository struct {
	q Queryable
}

// NewPaymentIntentRepository creates a new payment intent repository
func NewPaymentIntentRepository(q Queryable) *PaymentIntentRepository {
	return &PaymentIntentRepository{q: q}
}

const paymentIntentColumns = `id, account_id, gateway_reference, amount, currency, status,
		transaction_id, created_at, updated_at, completed_at`

// Create creates a new payment intent
func (r *PaymentIntentRepository) Create(ctx context.Context, intent *entities.PaymentIntent) error {
	query := `
		INSERT INTO payment_intents (account_id, gateway_reference, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		intent.AccountID,
		intent.GatewayReference,
		intent.Amount,
		intent.Currency,
		intent.Status,
	).Scan(&intent.ID, &intent.CreatedAt, &intent.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment intent: %w", err)
	}
	return nil
}

// GetByGatewayReference retrieves an intent by its gateway reference
func (r *PaymentIntentRepository) GetByGatewayReference(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error) {
	query := `SELECT ` + paymentIntentColumns + ` FROM payment_intents WHERE gateway_reference = $1`
	return r.scanOne(ctx, query, gatewayReference)
}

// GetByGatewayReferenceForUpdate retrieves an intent with a row lock.
// Concurrent webhook deliveries for the same reference serialize here.
func (r *PaymentIntentRepository) GetByGatewayReferenceForUpdate(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error) {
	query := `SELECT ` + paymentIntentColumns + ` FROM payment_intents WHERE gateway_reference = $1 FOR UPDATE`
	return r.scanOne(ctx, query, gatewayReference)
}

// Update persists the intent's status and linked transaction
func (r *PaymentIntentRepository) Update(ctx context.Context, intent *entities.PaymentIntent) error {
	query := `
		UPDATE payment_intents
		SET status = $2, transaction_id = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query, intent.ID, intent.Status, intent.TransactionID, intent.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to update payment intent %s: %w", intent.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrPaymentIntentNotFound
	}
	return nil
}

func (r *PaymentIntentRepository) scanOne(ctx context.Context, query string, args ...any) (*entities.PaymentIntent, error) {
	var p entities.PaymentIntent
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.AccountID,
		&p.GatewayReference,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.TransactionID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}
	return &p, nil
}
