package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotteryStatus represents the lifecycle state of a lottery
type LotteryStatus string

const (
	LotteryStatusDraft     LotteryStatus = "DRAFT"
	LotteryStatusActive    LotteryStatus = "ACTIVE"
	LotteryStatusClosed    LotteryStatus = "CLOSED"
	LotteryStatusDrawn     LotteryStatus = "DRAWN"
	LotteryStatusCompleted LotteryStatus = "COMPLETED"
	LotteryStatusCancelled LotteryStatus = "CANCELLED"
)

// Lottery represents a single prize draw with a fixed ticket supply
type Lottery struct {
	ID                uuid.UUID       `db:"id"`
	Name              string          `db:"name"`
	Description       string          `db:"description"`
	TicketPrice       decimal.Decimal `db:"ticket_price"`
	TotalTickets      int             `db:"total_tickets"`
	AvailableTickets  int             `db:"available_tickets"`
	PrizeAmount       decimal.Decimal `db:"prize_amount"`
	Status            LotteryStatus   `db:"status"`
	StartDate         *time.Time      `db:"start_date"`
	EndDate           *time.Time      `db:"end_date"`
	DrawDate          time.Time       `db:"draw_date"`
	MaxTicketsPerUser int             `db:"max_tickets_per_user"`
	AutoDraw          bool            `db:"auto_draw"`
	CreatedBy         *uuid.UUID      `db:"created_by"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// IsDrawn returns true once the lottery has been settled
func (l *Lottery) IsDrawn() bool {
	return l.Status == LotteryStatusDrawn || l.Status == LotteryStatusCompleted
}

// IsWithinSalePeriod checks whether sales are open at the given time.
// A nil start or end date leaves that side of the window unbounded.
func (l *Lottery) IsWithinSalePeriod(now time.Time) bool {
	if l.StartDate != nil && now.Before(*l.StartDate) {
		return false
	}
	if l.EndDate != nil && now.After(*l.EndDate) {
		return false
	}
	return true
}

// CanDraw checks the draw preconditions on status and draw date
func (l *Lottery) CanDraw(now time.Time) bool {
	return l.Status == LotteryStatusClosed && !l.DrawDate.After(now)
}

// TicketsSold returns the number of tickets sold so far
func (l *Lottery) TicketsSold() int {
	return l.TotalTickets - l.AvailableTickets
}

// Revenue returns the total revenue from sold tickets
func (l *Lottery) Revenue() decimal.Decimal {
	return l.TicketPrice.Mul(decimal.NewFromInt(int64(l.TicketsSold())))
}

// CanTransitionTo validates the lottery state machine:
// DRAFT -> ACTIVE -> CLOSED -> DRAWN -> COMPLETED, with CANCELLED reachable
// from any pre-DRAWN state.
func (l *Lottery) CanTransitionTo(next LotteryStatus) bool {
	if next == LotteryStatusCancelled {
		return !l.IsDrawn() && l.Status != LotteryStatusCancelled
	}

	switch l.Status {
	case LotteryStatusDraft:
		return next == LotteryStatusActive
	case LotteryStatusActive:
		return next == LotteryStatusClosed
	case LotteryStatusClosed:
		return next == LotteryStatusDrawn
	case LotteryStatusDrawn:
		return next == LotteryStatusCompleted
	}
	return false
}

// TransitionTo moves the lottery to the next status, enforcing the state machine
func (l *Lottery) TransitionTo(next LotteryStatus) error {
	if !l.CanTransitionTo(next) {
		return ErrInvalidStateTransition
	}
	l.Status = next
	return nil
}
