package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"lottoledger/domain/entities"
	"lottoledger/domain/interfaces"
)

// referralService accumulates completed deposits toward the referral
// program's qualifying threshold and pays out both bonuses when crossed.
// Bonus amounts are frozen onto the referral at creation time.
type referralService struct {
	referralRepo interfaces.ReferralRepository
	ledger       interfaces.LedgerService
	program      entities.ReferralProgramConfig
}

// NewReferralService creates a new referral service
func NewReferralService(
	referralRepo interfaces.ReferralRepository,
	ledger interfaces.LedgerService,
	program entities.ReferralProgramConfig,
) interfaces.ReferralService {
	return &referralService{
		referralRepo: referralRepo,
		ledger:       ledger,
		program:      program,
	}
}

// CreateReferral links a referred account to its referrer
func (s *referralService) CreateReferral(ctx context.Context, referrerAccountID, referredAccountID uuid.UUID) (*entities.Referral, error) {
	if !s.program.Active {
		return nil, fmt.Errorf("referral program is not active")
	}
	if referrerAccountID == referredAccountID {
		return nil, fmt.Errorf("account cannot refer itself")
	}

	referral := &entities.Referral{
		ReferrerAccountID:  referrerAccountID,
		ReferredAccountID:  referredAccountID,
		Status:             entities.ReferralStatusPending,
		ReferrerBonus:      s.program.ReferrerBonus,
		ReferredBonus:      s.program.ReferredBonus,
		AccumulatedDeposit: decimal.Zero,
	}
	if err := s.referralRepo.Create(ctx, referral); err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}
	return referral, nil
}

// TrackDeposit accumulates a completed deposit toward qualification. A nil
// lookup means the depositor was not referred, which is the common case and
// not an error.
func (s *referralService) TrackDeposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) error {
	referral, err := s.referralRepo.GetByReferredAccountForUpdate(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to lock referral: %w", err)
	}
	if referral == nil || referral.Status != entities.ReferralStatusPending {
		return nil
	}

	referral.AccumulatedDeposit = referral.AccumulatedDeposit.Add(amount)

	if referral.Qualifies(s.program.MinimumQualifyingDeposit) {
		if err := referral.MarkQualified(time.Now().UTC()); err != nil {
			return err
		}
		if err := s.payBonuses(ctx, referral); err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"referralID":  referral.ID,
			"referrer":    referral.ReferrerAccountID,
			"referred":    referral.ReferredAccountID,
			"accumulated": referral.AccumulatedDeposit,
		}).Info("Referral qualified")
	}

	if err := s.referralRepo.Update(ctx, referral); err != nil {
		return fmt.Errorf("failed to update referral: %w", err)
	}
	return nil
}

func (s *referralService) payBonuses(ctx context.Context, referral *entities.Referral) error {
	if referral.ReferrerBonus.GreaterThan(decimal.Zero) {
		if _, err := s.ledger.Credit(ctx, referral.ReferrerAccountID, referral.ReferrerBonus, entities.TransactionKindReferralBonus, interfaces.TransactionDetail{
			Description: "Referral bonus (referrer)",
		}); err != nil {
			return fmt.Errorf("failed to credit referrer bonus: %w", err)
		}
	}
	if referral.ReferredBonus.GreaterThan(decimal.Zero) {
		if _, err := s.ledger.Credit(ctx, referral.ReferredAccountID, referral.ReferredBonus, entities.TransactionKindReferralBonus, interfaces.TransactionDetail{
			Description: "Referral bonus (referred)",
		}); err != nil {
			return fmt.Errorf("failed to credit referred bonus: %w", err)
		}
	}
	return nil
}
