package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lottoledger/domain/entities"
)

// DrawAuditLogRepository implements draw audit record access
type DrawAuditLogRepository struct {
	q Queryable
}

// NewDrawAuditLogRepository creates a new draw audit log repository
func NewDrawAuditLogRepository(q Queryable) *DrawAuditLogRepository {
	return &DrawAuditLogRepository{q: q}
}

// Create creates the audit record for a conducted draw
func (r *DrawAuditLogRepository) Create(ctx context.Context, log *entities.DrawAuditLog) error {
	query := `
		INSERT INTO draw_audit_logs (lottery_id, conducted_by, total_participants,
			total_tickets_sold, revenue, random_seed, drawn_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.q.QueryRow(ctx, query,
		log.LotteryID,
		log.ConductedBy,
		log.TotalParticipants,
		log.TotalTicketsSold,
		log.Revenue,
		log.RandomSeed,
		log.DrawnAt,
	).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("failed to create draw audit log: %w", err)
	}
	return nil
}

// GetByLottery retrieves the audit record for a lottery
func (r *DrawAuditLogRepository) GetByLottery(ctx context.Context, lotteryID uuid.UUID) (*entities.DrawAuditLog, error) {
	query := `
		SELECT id, lottery_id, conducted_by, total_participants, total_tickets_sold,
			revenue, random_seed, drawn_at
		FROM draw_audit_logs
		WHERE lottery_id = $1
	`
	var l entities.DrawAuditLog
	err := r.q.QueryRow(ctx, query, lotteryID).Scan(
		&l.ID,
		&l.LotteryID,
		&l.ConductedBy,
		&l.TotalParticipants,
		&l.TotalTicketsSold,
		&l.Revenue,
		&l.RandomSeed,
		&l.DrawnAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw audit log: %w", err)
	}
	return &l, nil
}
