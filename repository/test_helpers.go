package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"lottoledger/domain/entities"
)

// test fixtures shared by the repository integration tests

func createTestAccount(t *testing.T, q Queryable, username string, balance string) *entities.Account {
	t.Helper()
	account := &entities.Account{
		Username: username,
		Email:    username + "@example.com",
		Balance:  decimal.RequireFromString(balance),
	}
	require.NoError(t, NewAccountRepository(q).Create(context.Background(), account))
	return account
}

func createTestLottery(t *testing.T, q Queryable, status entities.LotteryStatus, totalTickets int) *entities.Lottery {
	t.Helper()
	now := time.Now().UTC()
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	lottery := &entities.Lottery{
		Name:              "Test Lottery " + uuid.NewString()[:8],
		Description:       "integration fixture",
		TicketPrice:       decimal.RequireFromString("5.00"),
		TotalTickets:      totalTickets,
		AvailableTickets:  totalTickets,
		PrizeAmount:       decimal.RequireFromString("100.00"),
		Status:            entities.LotteryStatusDraft,
		StartDate:         &start,
		EndDate:           &end,
		DrawDate:          now.Add(2 * time.Hour),
		MaxTicketsPerUser: 10,
		AutoDraw:          true,
	}
	repo := NewLotteryRepository(q)
	require.NoError(t, repo.Create(context.Background(), lottery))

	// Fixtures may need a status the creation path does not produce
	if status != entities.LotteryStatusDraft {
		lottery.Status = status
		require.NoError(t, repo.Update(context.Background(), lottery))
	}
	return lottery
}

func createTestTickets(t *testing.T, q Queryable, accountID, lotteryID uuid.UUID, numbers ...int64) []*entities.Ticket {
	t.Helper()
	tickets := make([]*entities.Ticket, 0, len(numbers))
	for _, n := range numbers {
		tickets = append(tickets, &entities.Ticket{
			AccountID:    accountID,
			LotteryID:    lotteryID,
			TicketNumber: n,
			PurchasedAt:  time.Now().UTC(),
		})
	}
	require.NoError(t, NewTicketRepository(q).CreateBatch(context.Background(), tickets))
	return tickets
}
