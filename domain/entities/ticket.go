package entities

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is a single lottery ticket. Tickets are immutable after creation
// except for the one-time is_winner flip during draw settlement.
type Ticket struct {
	ID           uuid.UUID `db:"id"`
	AccountID    uuid.UUID `db:"account_id"`
	LotteryID    uuid.UUID `db:"lottery_id"`
	TicketNumber int64     `db:"ticket_number"`
	IsWinner     bool      `db:"is_winner"`
	PurchasedAt  time.Time `db:"purchased_at"`
}

// ParticipantInfo summarizes one account's tickets in a lottery
type ParticipantInfo struct {
	AccountID   uuid.UUID `db:"account_id"`
	TicketCount int64     `db:"ticket_count"`
}
