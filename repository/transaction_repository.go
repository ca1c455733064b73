package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lottoledger/domain/entities"
)

// TransactionRepository implements transaction log access. Rows are
// append-only; only status and completed_at are ever updated.
type TransactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(q Queryable) *TransactionRepository {
	return &TransactionRepository{q: q}
}

const transactionColumns = `id, account_id, kind, amount, status, lottery_id, reference_id, description, created_at, completed_at`

// Create creates a new transaction record
func (r *TransactionRepository) Create(ctx context.Context, transaction *entities.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, kind, amount, status, lottery_id, reference_id, description, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		transaction.AccountID,
		transaction.Kind,
		transaction.Amount,
		transaction.Status,
		transaction.LotteryID,
		transaction.ReferenceID,
		transaction.Description,
		transaction.CompletedAt,
	).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByIDForUpdate retrieves a transaction with a row lock
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

// UpdateStatus persists the transaction's status and completed_at
func (r *TransactionRepository) UpdateStatus(ctx context.Context, transaction *entities.Transaction) error {
	query := `UPDATE transactions SET status = $2, completed_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, transaction.ID, transaction.Status, transaction.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", transaction.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrTransactionNotFound
	}
	return nil
}

// GetByAccount returns the most recent transactions for an account
func (r *TransactionRepository) GetByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.scanMany(ctx, query, accountID, limit)
}

// GetByKind returns the most recent transactions of a given kind
func (r *TransactionRepository) GetByKind(ctx context.Context, kind entities.TransactionKind, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE kind = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.scanMany(ctx, query, kind, limit)
}

// GetByDateRange returns an account's transactions within a date range
func (r *TransactionRepository) GetByDateRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*entities.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC
	`
	return r.scanMany(ctx, query, accountID, from, to)
}

// GetByReference retrieves a transaction by its external reference ID
func (r *TransactionRepository) GetByReference(ctx context.Context, referenceID string) (*entities.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference_id = $1`
	return r.scanOne(ctx, query, referenceID)
}

func (r *TransactionRepository) scanOne(ctx context.Context, query string, args ...any) (*entities.Transaction, error) {
	var t entities.Transaction
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&t.ID,
		&t.AccountID,
		&t.Kind,
		&t.Amount,
		&t.Status,
		&t.LotteryID,
		&t.ReferenceID,
		&t.Description,
		&t.CreatedAt,
		&t.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

func (r *TransactionRepository) scanMany(ctx context.Context, query string, args ...any) ([]*entities.Transaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		var t entities.Transaction
		err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&t.Kind,
			&t.Amount,
			&t.Status,
			&t.LotteryID,
			&t.ReferenceID,
			&t.Description,
			&t.CreatedAt,
			&t.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}
