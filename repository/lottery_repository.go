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

// LotteryRepository implements lottery data access
type LotteryRepository struct {
	q Queryable
}

// NewLotteryRepository creates a new lottery repository
func NewLotteryRepository(q Queryable) *LotteryRepository {
	return &LotteryRepository{q: q}
}

const lotteryColumns = `id, name, description, ticket_price, total_tickets, available_tickets,
		prize_amount, status, start_date, end_date, draw_date, max_tickets_per_user,
		auto_draw, created_by, created_at, updated_at`

// Create creates a new lottery
func (r *LotteryRepository) Create(ctx context.Context, lottery *entities.Lottery) error {
	query := `
		INSERT INTO lotteries (name, description, ticket_price, total_tickets, available_tickets,
			prize_amount, status, start_date, end_date, draw_date, max_tickets_per_user,
			auto_draw, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		lottery.Name,
		lottery.Description,
		lottery.TicketPrice,
		lottery.TotalTickets,
		lottery.AvailableTickets,
		lottery.PrizeAmount,
		lottery.Status,
		lottery.StartDate,
		lottery.EndDate,
		lottery.DrawDate,
		lottery.MaxTicketsPerUser,
		lottery.AutoDraw,
		lottery.CreatedBy,
	).Scan(&lottery.ID, &lottery.CreatedAt, &lottery.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lottery: %w", err)
	}
	return nil
}

// GetByID retrieves a lottery by its ID
func (r *LotteryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Lottery, error) {
	query := `SELECT ` + lotteryColumns + ` FROM lotteries WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByIDForUpdate retrieves a lottery with a row lock
func (r *LotteryRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Lottery, error) {
	query := `SELECT ` + lotteryColumns + ` FROM lotteries WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

// Update persists the lottery's mutable fields
func (r *LotteryRepository) Update(ctx context.Context, lottery *entities.Lottery) error {
	query := `
		UPDATE lotteries
		SET name = $2, description = $3, available_tickets = $4, status = $5,
			start_date = $6, end_date = $7, draw_date = $8, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, query,
		lottery.ID,
		lottery.Name,
		lottery.Description,
		lottery.AvailableTickets,
		lottery.Status,
		lottery.StartDate,
		lottery.EndDate,
		lottery.DrawDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update lottery %s: %w", lottery.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrLotteryNotFound
	}
	return nil
}

// GetByStatus returns lotteries in the given status, newest first
func (r *LotteryRepository) GetByStatus(ctx context.Context, status entities.LotteryStatus) ([]*entities.Lottery, error) {
	query := `SELECT ` + lotteryColumns + ` FROM lotteries WHERE status = $1 ORDER BY created_at DESC`
	return r.scanMany(ctx, query, status)
}

// GetDraftStartingBefore returns DRAFT lotteries whose start date has passed
func (r *LotteryRepository) GetDraftStartingBefore(ctx context.Context, t time.Time) ([]*entities.Lottery, error) {
	query := `
		SELECT ` + lotteryColumns + `
		FROM lotteries
		WHERE status = $1 AND start_date IS NOT NULL AND start_date <= $2
		ORDER BY start_date ASC
	`
	return r.scanMany(ctx, query, entities.LotteryStatusDraft, t)
}

// GetActiveEndedBefore returns ACTIVE lotteries whose end date has passed
func (r *LotteryRepository) GetActiveEndedBefore(ctx context.Context, t time.Time) ([]*entities.Lottery, error) {
	query := `
		SELECT ` + lotteryColumns + `
		FROM lotteries
		WHERE status = $1 AND end_date IS NOT NULL AND end_date <= $2
		ORDER BY end_date ASC
	`
	return r.scanMany(ctx, query, entities.LotteryStatusActive, t)
}

// GetDueForDraw returns CLOSED auto-draw lotteries whose draw date has passed
func (r *LotteryRepository) GetDueForDraw(ctx context.Context, t time.Time) ([]*entities.Lottery, error) {
	query := `
		SELECT ` + lotteryColumns + `
		FROM lotteries
		WHERE status = $1 AND auto_draw = TRUE AND draw_date <= $2
		ORDER BY draw_date ASC
	`
	return r.scanMany(ctx, query, entities.LotteryStatusClosed, t)
}

func (r *LotteryRepository) scanOne(ctx context.Context, query string, args ...any) (*entities.Lottery, error) {
	var l entities.Lottery
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&l.ID,
		&l.Name,
		&l.Description,
		&l.TicketPrice,
		&l.TotalTickets,
		&l.AvailableTickets,
		&l.PrizeAmount,
		&l.Status,
		&l.StartDate,
		&l.EndDate,
		&l.DrawDate,
		&l.MaxTicketsPerUser,
		&l.AutoDraw,
		&l.CreatedBy,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery: %w", err)
	}
	return &l, nil
}

func (r *LotteryRepository) scanMany(ctx context.Context, query string, args ...any) ([]*entities.Lottery, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lotteries: %w", err)
	}
	defer rows.Close()

	var lotteries []*entities.Lottery
	for rows.Next() {
		var l entities.Lottery
		err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.Description,
			&l.TicketPrice,
			&l.TotalTickets,
			&l.AvailableTickets,
			&l.PrizeAmount,
			&l.Status,
			&l.StartDate,
			&l.EndDate,
			&l.DrawDate,
			&l.MaxTicketsPerUser,
			&l.AutoDraw,
			&l.CreatedBy,
			&l.CreatedAt,
			&l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery: %w", err)
		}
		lotteries = append(lotteries, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lotteries: %w", err)
	}
	return lotteries, nil
}
