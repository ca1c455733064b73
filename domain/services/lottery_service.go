package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"lottoledger/domain/entities"
	"lottoledger/domain/events"
	"lottoledger/domain/interfaces"
)

// lotteryService implements ticket sales. All checks and writes run under a
// row lock on the lottery, so concurrent purchases for the same lottery
// serialize and ticket numbers come out contiguous.
type lotteryService struct {
	lotteryRepo    interfaces.LotteryRepository
	ticketRepo     interfaces.TicketRepository
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewLotteryService creates a new lottery service
func NewLotteryService(
	lotteryRepo interfaces.LotteryRepository,
	ticketRepo interfaces.TicketRepository,
	ledger interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.LotteryService {
	return &lotteryService{
		lotteryRepo:    lotteryRepo,
		ticketRepo:     ticketRepo,
		ledger:         ledger,
		eventPublisher: eventPublisher,
	}
}

// CreateLottery creates a new lottery in DRAFT status
func (s *lotteryService) CreateLottery(ctx context.Context, lottery *entities.Lottery) (*entities.Lottery, error) {
	if lottery.TicketPrice.LessThanOrEqual(decimal.Zero) || lottery.PrizeAmount.LessThanOrEqual(decimal.Zero) {
		return nil, entities.ErrInvalidAmount
	}
	if lottery.TotalTickets <= 0 {
		return nil, fmt.Errorf("total tickets must be positive, got %d", lottery.TotalTickets)
	}
	if lottery.MaxTicketsPerUser <= 0 {
		lottery.MaxTicketsPerUser = 10
	}

	lottery.Status = entities.LotteryStatusDraft
	lottery.AvailableTickets = lottery.TotalTickets
	if err := s.lotteryRepo.Create(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to create lottery: %w", err)
	}

	log.WithFields(log.Fields{
		"lotteryID":    lottery.ID,
		"totalTickets": lottery.TotalTickets,
		"ticketPrice":  lottery.TicketPrice,
	}).Info("Lottery created")

	return lottery, nil
}

// PurchaseTickets sells quantity tickets of a lottery to an account.
// Validation order: status, sale window, supply, balance, then per-user cap.
// The debit runs before the cap check; a cap failure aborts the enclosing
// transaction, so the debit never sticks.
func (s *lotteryService) PurchaseTickets(ctx context.Context, accountID, lotteryID uuid.UUID, quantity int) (*interfaces.PurchaseResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	lottery, err := s.lotteryRepo.GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock lottery: %w", err)
	}
	if lottery == nil {
		return nil, entities.ErrLotteryNotFound
	}

	if lottery.Status != entities.LotteryStatusActive {
		return nil, entities.ErrLotteryNotActive
	}
	if !lottery.IsWithinSalePeriod(time.Now().UTC()) {
		return nil, entities.ErrSalePeriodClosed
	}
	if quantity > lottery.AvailableTickets {
		return nil, entities.ErrInsufficientTickets
	}

	totalCost := lottery.TicketPrice.Mul(decimal.NewFromInt(int64(quantity)))
	entry, err := s.ledger.Debit(ctx, accountID, totalCost, entities.TransactionKindTicketPurchase, interfaces.TransactionDetail{
		Description: fmt.Sprintf("%d ticket(s) for %s", quantity, lottery.Name),
		LotteryID:   &lotteryID,
	})
	if err != nil {
		return nil, err
	}

	held, err := s.ticketRepo.CountByAccountAndLottery(ctx, accountID, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to count held tickets: %w", err)
	}
	if held+quantity > lottery.MaxTicketsPerUser {
		return nil, entities.ErrMaxTicketsExceeded
	}

	// Sequential numbering continues from the highest assigned number.
	// Safe without a separate lock because the lottery row lock is held.
	maxNumber, err := s.ticketRepo.MaxTicketNumber(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get max ticket number: %w", err)
	}

	now := time.Now().UTC()
	tickets := make([]*entities.Ticket, 0, quantity)
	for i := 1; i <= quantity; i++ {
		tickets = append(tickets, &entities.Ticket{
			AccountID:    accountID,
			LotteryID:    lotteryID,
			TicketNumber: maxNumber + int64(i),
			PurchasedAt:  now,
		})
	}
	if err := s.ticketRepo.CreateBatch(ctx, tickets); err != nil {
		return nil, fmt.Errorf("failed to create tickets: %w", err)
	}

	lottery.AvailableTickets -= quantity
	if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to update lottery: %w", err)
	}

	ticketNumbers := make([]int64, 0, quantity)
	for _, t := range tickets {
		ticketNumbers = append(ticketNumbers, t.TicketNumber)
	}
	if err := s.eventPublisher.Publish(events.TicketsPurchasedEvent{
		AccountID:     accountID,
		LotteryID:     lotteryID,
		Quantity:      quantity,
		TotalCost:     totalCost,
		TicketNumbers: ticketNumbers,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish tickets purchased: %w", err)
	}

	return &interfaces.PurchaseResult{
		Tickets:     tickets,
		TotalCost:   totalCost,
		NewBalance:  entry.Account.Balance,
		Transaction: entry.Transaction,
	}, nil
}

// GetAccountTickets returns an account's tickets for a lottery
func (s *lotteryService) GetAccountTickets(ctx context.Context, accountID, lotteryID uuid.UUID) ([]*entities.Ticket, error) {
	tickets, err := s.ticketRepo.GetByAccountAndLottery(ctx, accountID, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account tickets: %w", err)
	}
	return tickets, nil
}
