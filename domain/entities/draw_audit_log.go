package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DrawAuditLog records how a draw was conducted, one row per lottery,
// written at settlement time and never mutated. The random seed material is
// stored for post-hoc verification of the selection.
type DrawAuditLog struct {
	ID                uuid.UUID       `db:"id"`
	LotteryID         uuid.UUID       `db:"lottery_id"`
	ConductedBy       *uuid.UUID      `db:"conducted_by"`
	TotalParticipants int             `db:"total_participants"`
	TotalTicketsSold  int             `db:"total_tickets_sold"`
	Revenue           decimal.Decimal `db:"revenue"`
	RandomSeed        string          `db:"random_seed"`
	DrawnAt           time.Time       `db:"drawn_at"`
}
