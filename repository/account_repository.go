package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"lottoledger/domain/entities"
)

// AccountRepository implements account data access
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(q Queryable) *AccountRepository {
	return &AccountRepository{q: q}
}

const accountColumns = `id, username, email, balance, created_at, updated_at`

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByIDForUpdate retrieves an account with a row lock. Must be called
// within a transaction for the lock to have any effect.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	query := `
		INSERT INTO accounts (username, email, balance)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query, account.Username, account.Email, account.Balance).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// UpdateBalance persists a new balance for the account
func (r *AccountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) scanOne(ctx context.Context, query string, args ...any) (*entities.Account, error) {
	var account entities.Account
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
