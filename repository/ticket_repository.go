package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"lottoledger/domain/entities"
)

// TicketRepository implements ticket data access
type TicketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(q Queryable) *TicketRepository {
	return &TicketRepository{q: q}
}

// CreateBatch inserts a block of tickets in a single statement
func (r *TicketRepository) CreateBatch(ctx context.Context, tickets []*entities.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	query := `
		INSERT INTO tickets (account_id, lottery_id, ticket_number, purchased_at)
		VALUES `

	values := make([]any, 0, len(tickets)*4)
	for i, ticket := range tickets {
		if i > 0 {
			query += ", "
		}
		offset := i * 4
		query += fmt.Sprintf("($%d, $%d, $%d, $%d)", offset+1, offset+2, offset+3, offset+4)
		values = append(values, ticket.AccountID, ticket.LotteryID, ticket.TicketNumber, ticket.PurchasedAt)
	}
	query += " RETURNING id"

	rows, err := r.q.Query(ctx, query, values...)
	if err != nil {
		return fmt.Errorf("failed to batch create tickets: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if err := rows.Scan(&tickets[i].ID); err != nil {
			return fmt.Errorf("failed to scan ticket id: %w", err)
		}
		i++
	}
	return rows.Err()
}

// GetByLottery returns all tickets for a lottery ordered by ticket number.
// The draw indexes into this ordering, so it must be stable.
func (r *TicketRepository) GetByLottery(ctx context.Context, lotteryID uuid.UUID) ([]*entities.Ticket, error) {
	query := `
		SELECT id, account_id, lottery_id, ticket_number, is_winner, purchased_at
		FROM tickets
		WHERE lottery_id = $1
		ORDER BY ticket_number ASC
	`
	return r.scanMany(ctx, query, lotteryID)
}

// GetByAccountAndLottery returns an account's tickets for a lottery
func (r *TicketRepository) GetByAccountAndLottery(ctx context.Context, accountID, lotteryID uuid.UUID) ([]*entities.Ticket, error) {
	query := `
		SELECT id, account_id, lottery_id, ticket_number, is_winner, purchased_at
		FROM tickets
		WHERE account_id = $1 AND lottery_id = $2
		ORDER BY ticket_number ASC
	`
	return r.scanMany(ctx, query, accountID, lotteryID)
}

// CountByAccountAndLottery returns how many tickets an account holds in a lottery
func (r *TicketRepository) CountByAccountAndLottery(ctx context.Context, accountID, lotteryID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tickets WHERE account_id = $1 AND lottery_id = $2`
	if err := r.q.QueryRow(ctx, query, accountID, lotteryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// CountByLottery returns the number of tickets sold for a lottery
func (r *TicketRepository) CountByLottery(ctx context.Context, lotteryID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tickets WHERE lottery_id = $1`
	if err := r.q.QueryRow(ctx, query, lotteryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// CountDistinctParticipants returns the number of distinct ticket holders
func (r *TicketRepository) CountDistinctParticipants(ctx context.Context, lotteryID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(DISTINCT account_id) FROM tickets WHERE lottery_id = $1`
	if err := r.q.QueryRow(ctx, query, lotteryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

// MaxTicketNumber returns the highest ticket number assigned so far
func (r *TicketRepository) MaxTicketNumber(ctx context.Context, lotteryID uuid.UUID) (int64, error) {
	var max int64
	query := `SELECT COALESCE(MAX(ticket_number), 0) FROM tickets WHERE lottery_id = $1`
	if err := r.q.QueryRow(ctx, query, lotteryID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max ticket number: %w", err)
	}
	return max, nil
}

// MarkWinner flags a ticket as the winning ticket
func (r *TicketRepository) MarkWinner(ctx context.Context, ticketID uuid.UUID) error {
	query := `UPDATE tickets SET is_winner = TRUE WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, ticketID)
	if err != nil {
		return fmt.Errorf("failed to mark winning ticket %s: %w", ticketID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ticket %s not found", ticketID)
	}
	return nil
}

// GetParticipantSummary returns per-account ticket counts for a lottery
func (r *TicketRepository) GetParticipantSummary(ctx context.Context, lotteryID uuid.UUID) ([]*entities.ParticipantInfo, error) {
	query := `
		SELECT account_id, COUNT(*) AS ticket_count
		FROM tickets
		WHERE lottery_id = $1
		GROUP BY account_id
		ORDER BY ticket_count DESC
	`
	rows, err := r.q.Query(ctx, query, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant summary: %w", err)
	}
	defer rows.Close()

	var participants []*entities.ParticipantInfo
	for rows.Next() {
		var p entities.ParticipantInfo
		if err := rows.Scan(&p.AccountID, &p.TicketCount); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

func (r *TicketRepository) scanMany(ctx context.Context, query string, args ...any) ([]*entities.Ticket, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		var t entities.Ticket
		err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&t.LotteryID,
			&t.TicketNumber,
			&t.IsWinner,
			&t.PurchasedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}
	return tickets, nil
}
