package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"lottoledger/domain/entities"
)

// WithdrawalRequestRepository implements withdrawal request access
type WithdrawalRequestRepository struct {
	q Queryable
}

// NewWithdrawalRequestRepository creates a new withdrawal request repository
func NewWithdrawalRequestRepository(q Queryable) *WithdrawalRequestRepository {
	return &WithdrawalRequestRepository{q: q}
}

const withdrawalColumns = `id, account_id, amount, status, transaction_id, remarks, requested_at, processed_at`

// Create creates a new withdrawal request
func (r *WithdrawalRequestRepository) Create(ctx context.Context, request *entities.WithdrawalRequest) error {
	query := `
		INSERT INTO withdrawal_requests (account_id, amount, status, transaction_id, remarks, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.q.QueryRow(ctx, query,
		request.AccountID,
		request.Amount,
		request.Status,
		request.TransactionID,
		request.Remarks,
		request.RequestedAt,
	).Scan(&request.ID)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal request: %w", err)
	}
	return nil
}

// GetByID retrieves a withdrawal request by its ID
func (r *WithdrawalRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByIDForUpdate retrieves a withdrawal request with a row lock
func (r *WithdrawalRequestRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

// Update persists the request's status, remarks and processed_at
func (r *WithdrawalRequestRepository) Update(ctx context.Context, request *entities.WithdrawalRequest) error {
	query := `
		UPDATE withdrawal_requests
		SET status = $2, remarks = $3, processed_at = $4
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query, request.ID, request.Status, request.Remarks, request.ProcessedAt)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal request %s: %w", request.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrWithdrawalRequestNotFound
	}
	return nil
}

// SumCountedInWindow sums the amounts of an account's limit-counted requests
// whose requested_at falls within [from, to)
func (r *WithdrawalRequestRepository) SumCountedInWindow(ctx context.Context, accountID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM withdrawal_requests
		WHERE account_id = $1
			AND status = ANY($2)
			AND requested_at >= $3 AND requested_at < $4
	`
	counted := []string{
		string(entities.WithdrawalStatusApproved),
		string(entities.WithdrawalStatusProcessing),
		string(entities.WithdrawalStatusCompleted),
	}
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, accountID, counted, from, to).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum withdrawals: %w", err)
	}
	return sum, nil
}

func (r *WithdrawalRequestRepository) scanOne(ctx context.Context, query string, args ...any) (*entities.WithdrawalRequest, error) {
	var w entities.WithdrawalRequest
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&w.ID,
		&w.AccountID,
		&w.Amount,
		&w.Status,
		&w.TransactionID,
		&w.Remarks,
		&w.RequestedAt,
		&w.ProcessedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request: %w", err)
	}
	return &w, nil
}
