package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lottoledger/domain/entities"
)

// ReferralRepository implements referral tracking access
type ReferralRepository struct {
	q Queryable
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(q Queryable) *ReferralRepository {
	return &ReferralRepository{q: q}
}

const referralColumns = `id, referrer_account_id, referred_account_id, status,
		referrer_bonus, referred_bonus, accumulated_deposit, qualified_at, created_at`

// Create creates a new referral link
func (r *ReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	query := `
		INSERT INTO referrals (referrer_account_id, referred_account_id, status,
			referrer_bonus, referred_bonus, accumulated_deposit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		referral.ReferrerAccountID,
		referral.ReferredAccountID,
		referral.Status,
		referral.ReferrerBonus,
		referral.ReferredBonus,
		referral.AccumulatedDeposit,
	).Scan(&referral.ID, &referral.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}

// GetByReferredAccountForUpdate retrieves the referral where the given
// account is the referred party, with a row lock
func (r *ReferralRepository) GetByReferredAccountForUpdate(ctx context.Context, referredAccountID uuid.UUID) (*entities.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referred_account_id = $1 FOR UPDATE`
	var ref entities.Referral
	err := r.q.QueryRow(ctx, query, referredAccountID).Scan(
		&ref.ID,
		&ref.ReferrerAccountID,
		&ref.ReferredAccountID,
		&ref.Status,
		&ref.ReferrerBonus,
		&ref.ReferredBonus,
		&ref.AccumulatedDeposit,
		&ref.QualifiedAt,
		&ref.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get referral: %w", err)
	}
	return &ref, nil
}

// GetByReferrer returns all referrals made by an account
func (r *ReferralRepository) GetByReferrer(ctx context.Context, referrerAccountID uuid.UUID) ([]*entities.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referrer_account_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, referrerAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query referrals: %w", err)
	}
	defer rows.Close()

	var referrals []*entities.Referral
	for rows.Next() {
		var ref entities.Referral
		err := rows.Scan(
			&ref.ID,
			&ref.ReferrerAccountID,
			&ref.ReferredAccountID,
			&ref.Status,
			&ref.ReferrerBonus,
			&ref.ReferredBonus,
			&ref.AccumulatedDeposit,
			&ref.QualifiedAt,
			&ref.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan referral: %w", err)
		}
		referrals = append(referrals, &ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate referrals: %w", err)
	}
	return referrals, nil
}

// Update persists the referral's accumulated deposit and status
func (r *ReferralRepository) Update(ctx context.Context, referral *entities.Referral) error {
	query := `
		UPDATE referrals
		SET status = $2, accumulated_deposit = $3, qualified_at = $4
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query, referral.ID, referral.Status, referral.AccumulatedDeposit, referral.QualifiedAt)
	if err != nil {
		return fmt.Errorf("failed to update referral %s: %w", referral.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("referral %s not found", referral.ID)
	}
	return nil
}
