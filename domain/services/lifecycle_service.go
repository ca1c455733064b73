package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"lottoledger/domain/entities"
	"lottoledger/domain/interfaces"
)

// lifecycleService drives scheduled lottery transitions. Each candidate is
// re-checked under its row lock, so a concurrent manual transition loses
// cleanly instead of double-applying.
type lifecycleService struct {
	lotteryRepo interfaces.LotteryRepository
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(lotteryRepo interfaces.LotteryRepository) interfaces.LifecycleService {
	return &lifecycleService{lotteryRepo: lotteryRepo}
}

// ActivateScheduled opens DRAFT lotteries whose start date has passed
func (s *lifecycleService) ActivateScheduled(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.lotteryRepo.GetDraftStartingBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list draft lotteries: %w", err)
	}
	return s.transitionAll(ctx, candidates, entities.LotteryStatusActive)
}

// CloseExpired closes ACTIVE lotteries whose end date has passed
func (s *lifecycleService) CloseExpired(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.lotteryRepo.GetActiveEndedBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired lotteries: %w", err)
	}
	return s.transitionAll(ctx, candidates, entities.LotteryStatusClosed)
}

// DueDraws returns CLOSED auto-draw lotteries whose draw date has passed
func (s *lifecycleService) DueDraws(ctx context.Context, now time.Time) ([]*entities.Lottery, error) {
	due, err := s.lotteryRepo.GetDueForDraw(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due draws: %w", err)
	}
	return due, nil
}

func (s *lifecycleService) transitionAll(ctx context.Context, candidates []*entities.Lottery, next entities.LotteryStatus) (int, error) {
	count := 0
	for _, candidate := range candidates {
		lottery, err := s.lotteryRepo.GetByIDForUpdate(ctx, candidate.ID)
		if err != nil {
			return count, fmt.Errorf("failed to lock lottery %s: %w", candidate.ID, err)
		}
		if lottery == nil || !lottery.CanTransitionTo(next) {
			continue
		}
		if err := lottery.TransitionTo(next); err != nil {
			continue
		}
		if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
			return count, fmt.Errorf("failed to update lottery %s: %w", lottery.ID, err)
		}
		count++
		log.WithFields(log.Fields{
			"lotteryID": lottery.ID,
			"status":    lottery.Status,
		}).Info("Lottery transitioned")
	}
	return count, nil
}
