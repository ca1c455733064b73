package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lottoledger/domain/entities"
)

// WinnerRepository implements winner record access
type WinnerRepository struct {
	q Queryable
}

// NewWinnerRepository creates a new winner repository
func NewWinnerRepository(q Queryable) *WinnerRepository {
	return &WinnerRepository{q: q}
}

// Create creates a new winner record. The unique constraint on lottery_id
// makes a second winner for the same lottery a hard database error.
func (r *WinnerRepository) Create(ctx context.Context, winner *entities.Winner) error {
	query := `
		INSERT INTO winners (account_id, lottery_id, ticket_id, prize_amount, announced_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.q.QueryRow(ctx, query,
		winner.AccountID,
		winner.LotteryID,
		winner.TicketID,
		winner.PrizeAmount,
		winner.AnnouncedAt,
	).Scan(&winner.ID)
	if err != nil {
		return fmt.Errorf("failed to create winner: %w", err)
	}
	return nil
}

// GetByLottery retrieves the winner for a lottery
func (r *WinnerRepository) GetByLottery(ctx context.Context, lotteryID uuid.UUID) (*entities.Winner, error) {
	query := `
		SELECT id, account_id, lottery_id, ticket_id, prize_amount, announced_at
		FROM winners
		WHERE lottery_id = $1
	`
	var w entities.Winner
	err := r.q.QueryRow(ctx, query, lotteryID).Scan(
		&w.ID, &w.AccountID, &w.LotteryID, &w.TicketID, &w.PrizeAmount, &w.AnnouncedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get winner: %w", err)
	}
	return &w, nil
}

// GetByAccount returns all wins for an account, newest first
func (r *WinnerRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.Winner, error) {
	query := `
		SELECT id, account_id, lottery_id, ticket_id, prize_amount, announced_at
		FROM winners
		WHERE account_id = $1
		ORDER BY announced_at DESC
	`
	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query winners: %w", err)
	}
	defer rows.Close()

	var winners []*entities.Winner
	for rows.Next() {
		var w entities.Winner
		if err := rows.Scan(&w.ID, &w.AccountID, &w.LotteryID, &w.TicketID, &w.PrizeAmount, &w.AnnouncedAt); err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate winners: %w", err)
	}
	return winners, nil
}
