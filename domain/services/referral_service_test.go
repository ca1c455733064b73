package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lottoledger/domain/entities"
	"lottoledger/domain/interfaces"
	"lottoledger/domain/testhelpers"
)

func testProgram() entities.ReferralProgramConfig {
	return entities.ReferralProgramConfig{
		Active:                   true,
		ReferrerBonus:            decimal.RequireFromString("10.00"),
		ReferredBonus:            decimal.RequireFromString("5.00"),
		MinimumQualifyingDeposit: decimal.RequireFromString("20.00"),
	}
}

func TestReferralService_CreateReferral(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("freezes bonuses from the program", func(t *testing.T) {
		referralRepo := new(testhelpers.MockReferralRepository)
		svc := NewReferralService(referralRepo, nil, testProgram())

		referralRepo.On("Create", ctx, mock.AnythingOfType("*entities.Referral")).Return(nil)

		referral, err := svc.CreateReferral(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, entities.ReferralStatusPending, referral.Status)
		assert.True(t, referral.ReferrerBonus.Equal(decimal.RequireFromString("10.00")))
		assert.True(t, referral.ReferredBonus.Equal(decimal.RequireFromString("5.00")))
		assert.True(t, referral.AccumulatedDeposit.IsZero())
	})

	t.Run("inactive program", func(t *testing.T) {
		program := testProgram()
		program.Active = false
		svc := NewReferralService(nil, nil, program)

		_, err := svc.CreateReferral(ctx, uuid.New(), uuid.New())
		assert.Error(t, err)
	})

	t.Run("self referral", func(t *testing.T) {
		svc := NewReferralService(nil, nil, testProgram())

		accountID := uuid.New()
		_, err := svc.CreateReferral(ctx, accountID, accountID)
		assert.Error(t, err)
	})
}

func TestReferralService_TrackDeposit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	newReferral := func() *entities.Referral {
		return &entities.Referral{
			ID:                 uuid.New(),
			ReferrerAccountID:  uuid.New(),
			ReferredAccountID:  uuid.New(),
			Status:             entities.ReferralStatusPending,
			ReferrerBonus:      decimal.RequireFromString("10.00"),
			ReferredBonus:      decimal.RequireFromString("5.00"),
			AccumulatedDeposit: decimal.Zero,
		}
	}

	t.Run("accumulates below the threshold without paying", func(t *testing.T) {
		referralRepo := new(testhelpers.MockReferralRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewReferralService(referralRepo, ledger, testProgram())

		referral := newReferral()
		referralRepo.On("GetByReferredAccountForUpdate", ctx, referral.ReferredAccountID).Return(referral, nil)
		referralRepo.On("Update", ctx, referral).Return(nil)

		err := svc.TrackDeposit(ctx, referral.ReferredAccountID, decimal.RequireFromString("15.00"))
		require.NoError(t, err)
		assert.Equal(t, entities.ReferralStatusPending, referral.Status)
		assert.True(t, referral.AccumulatedDeposit.Equal(decimal.RequireFromString("15.00")))
		ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("crossing the threshold pays both bonuses", func(t *testing.T) {
		referralRepo := new(testhelpers.MockReferralRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewReferralService(referralRepo, ledger, testProgram())

		referral := newReferral()
		referral.AccumulatedDeposit = decimal.RequireFromString("15.00")

		referralRepo.On("GetByReferredAccountForUpdate", ctx, referral.ReferredAccountID).Return(referral, nil)
		ledger.On("Credit", ctx, referral.ReferrerAccountID, mock.MatchedBy(func(a decimal.Decimal) bool {
			return a.Equal(decimal.RequireFromString("10.00"))
		}), entities.TransactionKindReferralBonus, mock.AnythingOfType("interfaces.TransactionDetail")).Return(&interfaces.LedgerEntry{
			Account:     &entities.Account{},
			Transaction: &entities.Transaction{},
		}, nil)
		ledger.On("Credit", ctx, referral.ReferredAccountID, mock.MatchedBy(func(a decimal.Decimal) bool {
			return a.Equal(decimal.RequireFromString("5.00"))
		}), entities.TransactionKindReferralBonus, mock.AnythingOfType("interfaces.TransactionDetail")).Return(&interfaces.LedgerEntry{
			Account:     &entities.Account{},
			Transaction: &entities.Transaction{},
		}, nil)
		referralRepo.On("Update", ctx, referral).Return(nil)

		err := svc.TrackDeposit(ctx, referral.ReferredAccountID, decimal.RequireFromString("5.00"))
		require.NoError(t, err)
		assert.Equal(t, entities.ReferralStatusQualified, referral.Status)
		require.NotNil(t, referral.QualifiedAt)
		ledger.AssertExpectations(t)
	})

	t.Run("depositor without a referral is a no-op", func(t *testing.T) {
		referralRepo := new(testhelpers.MockReferralRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewReferralService(referralRepo, ledger, testProgram())

		accountID := uuid.New()
		referralRepo.On("GetByReferredAccountForUpdate", ctx, accountID).Return(nil, nil)

		err := svc.TrackDeposit(ctx, accountID, decimal.RequireFromString("50.00"))
		require.NoError(t, err)
		referralRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("already qualified referral accumulates nothing further", func(t *testing.T) {
		referralRepo := new(testhelpers.MockReferralRepository)
		ledger := new(testhelpers.MockLedgerService)
		svc := NewReferralService(referralRepo, ledger, testProgram())

		referral := newReferral()
		referral.Status = entities.ReferralStatusQualified
		referralRepo.On("GetByReferredAccountForUpdate", ctx, referral.ReferredAccountID).Return(referral, nil)

		err := svc.TrackDeposit(ctx, referral.ReferredAccountID, decimal.RequireFromString("50.00"))
		require.NoError(t, err)
		ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		referralRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
