package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lottoledger/domain/entities"
	"lottoledger/domain/events"
	"lottoledger/domain/interfaces"
	"lottoledger/domain/testhelpers"
)

func activeLottery() *entities.Lottery {
	start := time.Now().UTC().Add(-time.Hour)
	end := time.Now().UTC().Add(time.Hour)
	return &entities.Lottery{
		ID:                uuid.New(),
		Name:              "Weekly Jackpot",
		TicketPrice:       decimal.RequireFromString("5.00"),
		TotalTickets:      100,
		AvailableTickets:  100,
		PrizeAmount:       decimal.RequireFromString("250.00"),
		Status:            entities.LotteryStatusActive,
		StartDate:         &start,
		EndDate:           &end,
		DrawDate:          time.Now().UTC().Add(2 * time.Hour),
		MaxTicketsPerUser: 10,
	}
}

func TestLotteryService_CreateLottery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("forces draft status and defaults the per-user cap", func(t *testing.T) {
		lotteryRepo := new(testhelpers.MockLotteryRepository)
		svc := NewLotteryService(lotteryRepo, nil, nil, nil)

		lotteryRepo.On("Create", ctx, mock.AnythingOfType("*entities.Lottery")).Return(nil)

		created, err := svc.CreateLottery(ctx, &entities.Lottery{
			Name:         "Weekly Jackpot",
			TicketPrice:  decimal.RequireFromString("5.00"),
			PrizeAmount:  decimal.RequireFromString("250.00"),
			TotalTickets: 100,
			Status:       entities.LotteryStatusActive, // caller cannot skip DRAFT
			DrawDate:     time.Now().UTC().Add(24 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, entities.LotteryStatusDraft, created.Status)
		assert.Equal(t, 100, created.AvailableTickets)
		assert.Equal(t, 10, created.MaxTicketsPerUser)
	})

	t.Run("rejects non-positive prices", func(t *testing.T) {
		svc := NewLotteryService(nil, nil, nil, nil)

		_, err := svc.CreateLottery(ctx, &entities.Lottery{
			TicketPrice:  decimal.Zero,
			PrizeAmount:  decimal.RequireFromString("250.00"),
			TotalTickets: 100,
		})
		assert.ErrorIs(t, err, entities.ErrInvalidAmount)
	})
}

func TestLotteryService_PurchaseTickets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("happy path numbers tickets contiguously", func(t *testing.T) {
		lotteryRepo := new(testhelpers.MockLotteryRepository)
		ticketRepo := new(testhelpers.MockTicketRepository)
		ledger := new(testhelpers.MockLedgerService)
		publisher := new(testhelpers.MockEventPublisher)
		svc := NewLotteryService(lotteryRepo, ticketRepo, ledger, publisher)

		lottery := activeLottery()
		lottery.AvailableTickets = 60

		lotteryRepo.On("GetByIDForUpdate", ctx, lottery.ID).Return(lottery, nil)
		ledger.On("Debit", ctx, accountID, mock.MatchedBy(func(a decimal.Decimal) bool {
			return a.Equal(decimal.RequireFromString("15.00"))
		}), entities.TransactionKindTicketPurchase, mock.AnythingOfType("interfaces.TransactionDetail")).Return(&interfaces.LedgerEntry{
			Account:     &entities.Account{ID: accountID, Balance: decimal.RequireFromString("85.00")},
			Transaction: &entities.Transaction{ID: uuid.New()},
		}, nil)
		ticketRepo.On("CountByAccountAndLottery", ctx, accountID, lottery.ID).Return(2, nil)
		ticketRepo.On("MaxTicketNumber", ctx, lottery.ID).Return(int64(40), nil)
		ticketRepo.On("CreateBatch", ctx, mock.MatchedBy(func(tickets []*entities.Ticket) bool {
			if len(tickets) != 3 {
				return false
			}
			for i, ticket := range tickets {
				if ticket.TicketNumber != int64(41+i) {
					return false
				}
			}
			return true
		})).Return(nil)
		lotteryRepo.On("Update", ctx, mock.MatchedBy(func(l *entities.Lottery) bool {
			return l.AvailableTickets == 57
		})).Return(nil)
		publisher.On("Publish", mock.AnythingOfType("events.TicketsPurchasedEvent")).Return(nil)

		result, err := svc.PurchaseTickets(ctx, accountID, lottery.ID, 3)
		require.NoError(t, err)
		assert.Len(t, result.Tickets, 3)
		assert.True(t, result.TotalCost.Equal(decimal.RequireFromString("15.00")))
		assert.True(t, result.NewBalance.Equal(decimal.RequireFromString("85.00")))

		require.Len(t, publisher.Events, 1)
		purchased := publisher.Events[0].(events.TicketsPurchasedEvent)
		assert.Equal(t, []int64{41, 42, 43}, purchased.TicketNumbers)

		lotteryRepo.AssertExpectations(t)
		ticketRepo.AssertExpectations(t)
		ledger.AssertExpectations(t)
	})

	t.Run("lottery must be active", func(t *testing.T) {
		lotteryRepo := new(testhelpers.MockLotteryRepository)
		svc := NewLotteryService(lotteryRepo, nil, nil, nil)

		lottery := activeLottery()
		lottery.Status = entities.LotteryStatusDraft
		lotteryRepo.On("GetByIDForUpdate", ctx, lottery.ID).Return(lottery, nil)

		_, err := svc.PurchaseTickets(ctx, accountID, lottery.ID, 1)
		assert.ErrorIs(t, err, entities.ErrLotteryNotActive)
	})

	t.Run("sale window closed", func(t *testing.T) {
		lotteryRepo := new(testhelpers.MockLotteryRepository)
		svc := NewLotteryService(lotteryRepo, nil, nil, nil)

		lottery := activeLottery()
		past := time.Now().UTC().Add(-time.Minute)
		lottery.EndDate = &past
		lotteryRepo.On("GetByIDForUpdate", ctx, lottery.ID).Return(lottery, nil)

		_, err := svc.PurchaseTickets(ctx, accountID, lottery.ID, 1)
		assert.ErrorIs(t, err, entities.ErrSalePeriodClosed)
	})

	t.Run("not enough supply", func(t *testing.T) {
		lotteryRepo := new(testhelpers.MockLotteryRepository)
		svc := NewLotteryService(lotteryRepo, nil, nil, nil)

		lottery := activeLottery()
		lottery.AvailableTickets = 2
		lotteryRepo.On("GetByIDForUpdate", ctx, lottery.ID).Return(lottery, nil)

		_, err := svc.PurchaseTickets(ctx, accountID, lottery.ID, 3)
		assert.ErrorIs(t, err, entities.ErrInsufficientTickets)
	})

	t.Run("buying the last available ticket succeeds", func(t *testing.T) {
		lotteryRepo := new(testhelpers.MockLotteryRepository)
		ticketRepo := new(testhelpers.MockTicketRepository)
		ledger := new(testhelpers.MockLedgerService)
		publisher := new(testhelpers.MockEventPublisher)
		svc := NewLotteryService(lotteryRepo, ticketRepo, ledger, publisher)

		lottery := activeLottery()
		lottery.AvailableTickets = 1

		lotteryRepo.On("GetByIDForUpdate", ctx, lottery.ID).Return(lottery, nil)
		ledger.On("Debit", ctx, accountID, mock.Anything, entities.TransactionKindTicketPurchase, mock.Anything).Return(&interfaces.LedgerEntry{
			Account:     &entities.Account{ID: accountID, Balance: decimal.RequireFromString("95.00")},
			Transaction: &entities.Transaction{ID: uuid.New()},
		}, nil)
		ticketRepo.On("CountByAccountAndLottery", ctx, accountID, lottery.ID).Return(0, nil)
		ticketRepo.On("MaxTicketNumber", ctx, lottery.ID).Return(int64(99), nil)
		ticketRepo.On("CreateBatch", ctx, mock.Anything).Return(nil)
		lotteryRepo.On("Update", ctx, mock.MatchedBy(func(l *entities.Lottery) bool {
			return l.AvailableTickets == 0
		})).Return(nil)
		publisher.On("Publish", mock.Anything).Return(nil)

		result, err := svc.PurchaseTickets(ctx, accountID, lottery.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), result.Tickets[0].TicketNumber)
	})

	t.Run("per-user cap counts already held tickets", func(t *testing.T) {
		lotteryRepo := new(testhelpers.MockLotteryRepository)
		ticketRepo := new(testhelpers.MockTicketRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewLotteryService(lotteryRepo, ticketRepo, ledger, nil)

		lottery := activeLottery()
		lotteryRepo.On("GetByIDForUpdate", ctx, lottery.ID).Return(lottery, nil)
		ledger.On("Debit", ctx, accountID, mock.Anything, entities.TransactionKindTicketPurchase, mock.Anything).Return(&interfaces.LedgerEntry{
			Account:     &entities.Account{ID: accountID, Balance: decimal.RequireFromString("85.00")},
			Transaction: &entities.Transaction{ID: uuid.New()},
		}, nil)
		ticketRepo.On("CountByAccountAndLottery", ctx, accountID, lottery.ID).Return(8, nil)

		_, err := svc.PurchaseTickets(ctx, accountID, lottery.ID, 3)
		assert.ErrorIs(t, err, entities.ErrMaxTicketsExceeded)
		ticketRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("debit failure stops the purchase", func(t *testing.T) {
		lotteryRepo := new(testhelpers.MockLotteryRepository)
		ticketRepo := new(testhelpers.MockTicketRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewLotteryService(lotteryRepo, ticketRepo, ledger, nil)

		lottery := activeLottery()
		lotteryRepo.On("GetByIDForUpdate", ctx, lottery.ID).Return(lottery, nil)
		ledger.On("Debit", ctx, accountID, mock.Anything, entities.TransactionKindTicketPurchase, mock.Anything).Return(nil, entities.ErrInsufficientBalance)

		_, err := svc.PurchaseTickets(ctx, accountID, lottery.ID, 2)
		assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
		ticketRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("empty wallet reported before the per-user cap", func(t *testing.T) {
		lotteryRepo := new(testhelpers.MockLotteryRepository)
		ticketRepo := new(testhelpers.MockTicketRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewLotteryService(lotteryRepo, ticketRepo, ledger, nil)

		// Holds 4 of 5 allowed tickets and cannot afford 3 more: the
		// balance failure wins over the cap failure
		lottery := activeLottery()
		lottery.MaxTicketsPerUser = 5
		lotteryRepo.On("GetByIDForUpdate", ctx, lottery.ID).Return(lottery, nil)
		ledger.On("Debit", ctx, accountID, mock.Anything, entities.TransactionKindTicketPurchase, mock.Anything).Return(nil, entities.ErrInsufficientBalance)

		_, err := svc.PurchaseTickets(ctx, accountID, lottery.ID, 3)
		assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
		ticketRepo.AssertNotCalled(t, "CountByAccountAndLottery", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown lottery", func(t *testing.T) {
		lotteryRepo := new(testhelpers.MockLotteryRepository)
		svc := NewLotteryService(lotteryRepo, nil, nil, nil)

		lotteryID := uuid.New()
		lotteryRepo.On("GetByIDForUpdate", ctx, lotteryID).Return(nil, nil)

		_, err := svc.PurchaseTickets(ctx, accountID, lotteryID, 1)
		assert.ErrorIs(t, err, entities.ErrLotteryNotFound)
	})
}
