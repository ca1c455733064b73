package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLottery_StateMachine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    LotteryStatus
		to      LotteryStatus
		allowed bool
	}{
		{"draft to active", LotteryStatusDraft, LotteryStatusActive, true},
		{"active to closed", LotteryStatusActive, LotteryStatusClosed, true},
		{"closed to drawn", LotteryStatusClosed, LotteryStatusDrawn, true},
		{"drawn to completed", LotteryStatusDrawn, LotteryStatusCompleted, true},
		{"draft to closed skips active", LotteryStatusDraft, LotteryStatusClosed, false},
		{"active to drawn skips closed", LotteryStatusActive, LotteryStatusDrawn, false},
		{"drawn back to active", LotteryStatusDrawn, LotteryStatusActive, false},
		{"completed to anything", LotteryStatusCompleted, LotteryStatusActive, false},
		{"draft cancellable", LotteryStatusDraft, LotteryStatusCancelled, true},
		{"active cancellable", LotteryStatusActive, LotteryStatusCancelled, true},
		{"closed cancellable", LotteryStatusClosed, LotteryStatusCancelled, true},
		{"drawn not cancellable", LotteryStatusDrawn, LotteryStatusCancelled, false},
		{"completed not cancellable", LotteryStatusCompleted, LotteryStatusCancelled, false},
		{"cancelled not re-cancellable", LotteryStatusCancelled, LotteryStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Lottery{Status: tt.from}
			err := l.TransitionTo(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, l.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStateTransition)
				assert.Equal(t, tt.from, l.Status)
			}
		})
	}
}

func TestLottery_IsWithinSalePeriod(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	t.Run("inside bounded window", func(t *testing.T) {
		l := &Lottery{StartDate: &before, EndDate: &after}
		assert.True(t, l.IsWithinSalePeriod(now))
	})

	t.Run("before start", func(t *testing.T) {
		l := &Lottery{StartDate: &after}
		assert.False(t, l.IsWithinSalePeriod(now))
	})

	t.Run("after end", func(t *testing.T) {
		l := &Lottery{EndDate: &before}
		assert.False(t, l.IsWithinSalePeriod(now))
	})

	t.Run("nil bounds are unbounded", func(t *testing.T) {
		l := &Lottery{}
		assert.True(t, l.IsWithinSalePeriod(now))
	})
}

func TestLottery_CanDraw(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("closed and due", func(t *testing.T) {
		l := &Lottery{Status: LotteryStatusClosed, DrawDate: now.Add(-time.Minute)}
		assert.True(t, l.CanDraw(now))
	})

	t.Run("draw date exactly now", func(t *testing.T) {
		l := &Lottery{Status: LotteryStatusClosed, DrawDate: now}
		assert.True(t, l.CanDraw(now))
	})

	t.Run("not yet due", func(t *testing.T) {
		l := &Lottery{Status: LotteryStatusClosed, DrawDate: now.Add(time.Minute)}
		assert.False(t, l.CanDraw(now))
	})

	t.Run("still active", func(t *testing.T) {
		l := &Lottery{Status: LotteryStatusActive, DrawDate: now.Add(-time.Minute)}
		assert.False(t, l.CanDraw(now))
	})
}

func TestLottery_Revenue(t *testing.T) {
	t.Parallel()

	l := &Lottery{
		TicketPrice:      decimal.RequireFromString("2.50"),
		TotalTickets:     100,
		AvailableTickets: 60,
	}
	assert.Equal(t, 40, l.TicketsSold())
	assert.True(t, l.Revenue().Equal(decimal.RequireFromString("100.00")))
}
