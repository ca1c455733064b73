package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Winner links the winning account, ticket and lottery for a settled draw
type Winner struct {
	ID          uuid.UUID       `db:"id"`
	AccountID   uuid.UUID       `db:"account_id"`
	LotteryID   uuid.UUID       `db:"lottery_id"`
	TicketID    uuid.UUID       `db:"ticket_id"`
	PrizeAmount decimal.Decimal `db:"prize_amount"`
	AnnouncedAt time.Time       `db:"announced_at"`
}
