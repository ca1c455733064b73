package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"lottoledger/domain/entities"
	"lottoledger/domain/events"
	"lottoledger/domain/interfaces"
)

// drawService conducts lottery draws. Winner selection uses crypto/rand so
// the outcome cannot be predicted from process state.
type drawService struct {
	lotteryRepo    interfaces.LotteryRepository
	ticketRepo     interfaces.TicketRepository
	winnerRepo     interfaces.WinnerRepository
	auditLogRepo   interfaces.DrawAuditLogRepository
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewDrawService creates a new draw service
func NewDrawService(
	lotteryRepo interfaces.LotteryRepository,
	ticketRepo interfaces.TicketRepository,
	winnerRepo interfaces.WinnerRepository,
	auditLogRepo interfaces.DrawAuditLogRepository,
	ledger interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.DrawService {
	return &drawService{
		lotteryRepo:    lotteryRepo,
		ticketRepo:     ticketRepo,
		winnerRepo:     winnerRepo,
		auditLogRepo:   auditLogRepo,
		ledger:         ledger,
		eventPublisher: eventPublisher,
	}
}

// ConductDraw selects a winning ticket uniformly at random and settles the
// lottery. All preconditions are checked under the lottery row lock, so a
// concurrent second draw blocks and then fails the already-drawn check.
func (s *drawService) ConductDraw(ctx context.Context, lotteryID uuid.UUID, conductedBy *uuid.UUID) (*interfaces.DrawResult, error) {
	lottery, err := s.lotteryRepo.GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock lottery: %w", err)
	}
	if lottery == nil {
		return nil, entities.ErrLotteryNotFound
	}

	now := time.Now().UTC()
	if lottery.IsDrawn() {
		return nil, entities.NewDrawError("lottery has already been drawn")
	}
	if lottery.Status != entities.LotteryStatusClosed {
		return nil, entities.NewDrawError("lottery must be closed before drawing")
	}
	if lottery.DrawDate.After(now) {
		return nil, entities.NewDrawError("draw date has not been reached")
	}

	tickets, err := s.ticketRepo.GetByLottery(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	if len(tickets) == 0 {
		return nil, entities.NewDrawError("no tickets were sold")
	}

	seed, err := randomSeed()
	if err != nil {
		return nil, fmt.Errorf("failed to generate draw seed: %w", err)
	}

	index, err := rand.Int(rand.Reader, big.NewInt(int64(len(tickets))))
	if err != nil {
		return nil, fmt.Errorf("failed to select winning ticket: %w", err)
	}
	winningTicket := tickets[index.Int64()]

	if err := s.ticketRepo.MarkWinner(ctx, winningTicket.ID); err != nil {
		return nil, fmt.Errorf("failed to mark winning ticket: %w", err)
	}
	winningTicket.IsWinner = true

	winner := &entities.Winner{
		AccountID:   winningTicket.AccountID,
		LotteryID:   lotteryID,
		TicketID:    winningTicket.ID,
		PrizeAmount: lottery.PrizeAmount,
		AnnouncedAt: now,
	}
	if err := s.winnerRepo.Create(ctx, winner); err != nil {
		return nil, fmt.Errorf("failed to create winner record: %w", err)
	}

	if _, err := s.ledger.Credit(ctx, winningTicket.AccountID, lottery.PrizeAmount, entities.TransactionKindPrizeAward, interfaces.TransactionDetail{
		Description: fmt.Sprintf("Prize for %s", lottery.Name),
		LotteryID:   &lotteryID,
	}); err != nil {
		return nil, fmt.Errorf("failed to award prize: %w", err)
	}

	if err := lottery.TransitionTo(entities.LotteryStatusDrawn); err != nil {
		return nil, err
	}
	if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to update lottery: %w", err)
	}

	participants, err := s.ticketRepo.CountDistinctParticipants(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}

	auditLog := &entities.DrawAuditLog{
		LotteryID:         lotteryID,
		ConductedBy:       conductedBy,
		TotalParticipants: participants,
		TotalTicketsSold:  len(tickets),
		Revenue:           lottery.Revenue(),
		RandomSeed:        seed,
		DrawnAt:           now,
	}
	if err := s.auditLogRepo.Create(ctx, auditLog); err != nil {
		return nil, fmt.Errorf("failed to create draw audit log: %w", err)
	}

	if err := s.eventPublisher.Publish(events.DrawCompletedEvent{
		LotteryID:       lotteryID,
		WinnerAccountID: winningTicket.AccountID,
		WinningTicket:   winningTicket.TicketNumber,
		PrizeAmount:     lottery.PrizeAmount,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish draw completed: %w", err)
	}

	log.WithFields(log.Fields{
		"lotteryID":     lotteryID,
		"winningTicket": winningTicket.TicketNumber,
		"winnerAccount": winningTicket.AccountID,
		"prize":         lottery.PrizeAmount,
		"ticketsSold":   len(tickets),
	}).Info("Lottery draw conducted")

	return &interfaces.DrawResult{
		Lottery:       lottery,
		Winner:        winner,
		WinningTicket: winningTicket,
		AuditLog:      auditLog,
	}, nil
}

// randomSeed returns a 64 character hex string from 32 CSPRNG bytes,
// recorded in the audit log alongside the outcome.
func randomSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
