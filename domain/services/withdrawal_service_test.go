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

func testLimits() entities.WithdrawalLimits {
	return entities.WithdrawalLimits{
		MinAmount:    decimal.RequireFromString("10.00"),
		MaxAmount:    decimal.RequireFromString("500.00"),
		DailyLimit:   decimal.RequireFromString("1000.00"),
		MonthlyLimit: decimal.RequireFromString("5000.00"),
	}
}

type withdrawalFixture struct {
	withdrawalRepo  *testhelpers.MockWithdrawalRequestRepository
	accountRepo     *testhelpers.MockAccountRepository
	transactionRepo *testhelpers.MockTransactionRepository
	ledger          *testhelpers.MockLedgerService
	publisher       *testhelpers.MockEventPublisher
	svc             interfaces.WithdrawalService
}

func newWithdrawalFixture() *withdrawalFixture {
	f := &withdrawalFixture{
		withdrawalRepo:  new(testhelpers.MockWithdrawalRequestRepository),
		accountRepo:     new(testhelpers.MockAccountRepository),
		transactionRepo: new(testhelpers.MockTransactionRepository),
		ledger:          new(testhelpers.MockLedgerService),
		publisher:       new(testhelpers.MockEventPublisher),
	}
	f.svc = NewWithdrawalService(f.withdrawalRepo, f.accountRepo, f.transactionRepo, f.ledger, testLimits(), f.publisher)
	return f
}

func TestWithdrawalService_Request(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("creates a requested withdrawal with a pending transaction", func(t *testing.T) {
		f := newWithdrawalFixture()

		f.accountRepo.On("GetByIDForUpdate", ctx, accountID).Return(&entities.Account{ID: accountID, Balance: decimal.RequireFromString("200.00")}, nil)
		f.withdrawalRepo.On("SumCountedInWindow", ctx, accountID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil)
		f.transactionRepo.On("Create", ctx, mock.MatchedBy(func(tx *entities.Transaction) bool {
			return tx.Kind == entities.TransactionKindWithdrawal &&
				tx.Status == entities.TransactionStatusPending &&
				tx.Amount.Equal(decimal.RequireFromString("50.00"))
		})).Return(nil)
		f.withdrawalRepo.On("Create", ctx, mock.MatchedBy(func(r *entities.WithdrawalRequest) bool {
			return r.Status == entities.WithdrawalStatusRequested && r.TransactionID != nil
		})).Return(nil)

		request, err := f.svc.Request(ctx, accountID, decimal.RequireFromString("50.00"), "rent")
		require.NoError(t, err)
		assert.Equal(t, entities.WithdrawalStatusRequested, request.Status)
		assert.Equal(t, "rent", request.Remarks)
		assert.False(t, request.RequestedAt.IsZero())

		f.withdrawalRepo.AssertExpectations(t)
		f.transactionRepo.AssertExpectations(t)
		// No funds move at request time
		f.ledger.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("per-request bounds", func(t *testing.T) {
		f := newWithdrawalFixture()

		_, err := f.svc.Request(ctx, accountID, decimal.RequireFromString("9.99"), "")
		var limitErr *entities.LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, entities.LimitScopeMinimum, limitErr.Scope)

		_, err = f.svc.Request(ctx, accountID, decimal.RequireFromString("500.01"), "")
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, entities.LimitScopeMaximum, limitErr.Scope)

		_, err = f.svc.Request(ctx, accountID, decimal.Zero, "")
		assert.ErrorIs(t, err, entities.ErrInvalidAmount)

		// All rejected before touching the account
		f.accountRepo.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		f := newWithdrawalFixture()

		f.accountRepo.On("GetByIDForUpdate", ctx, accountID).Return(&entities.Account{ID: accountID, Balance: decimal.RequireFromString("30.00")}, nil)

		_, err := f.svc.Request(ctx, accountID, decimal.RequireFromString("50.00"), "")
		assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
		f.withdrawalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("daily limit reports remaining allowance", func(t *testing.T) {
		f := newWithdrawalFixture()

		f.accountRepo.On("GetByIDForUpdate", ctx, accountID).Return(&entities.Account{ID: accountID, Balance: decimal.RequireFromString("2000.00")}, nil)
		f.withdrawalRepo.On("SumCountedInWindow", ctx, accountID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(decimal.RequireFromString("960.00"), nil)

		_, err := f.svc.Request(ctx, accountID, decimal.RequireFromString("50.00"), "")
		var limitErr *entities.LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, entities.LimitScopeDaily, limitErr.Scope)
		assert.True(t, limitErr.Remaining.Equal(decimal.RequireFromString("40.00")))
	})

	t.Run("filling the daily window exactly is allowed", func(t *testing.T) {
		f := newWithdrawalFixture()

		f.accountRepo.On("GetByIDForUpdate", ctx, accountID).Return(&entities.Account{ID: accountID, Balance: decimal.RequireFromString("2000.00")}, nil)
		f.withdrawalRepo.On("SumCountedInWindow", ctx, accountID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(decimal.RequireFromString("960.00"), nil)
		f.transactionRepo.On("Create", ctx, mock.Anything).Return(nil)
		f.withdrawalRepo.On("Create", ctx, mock.Anything).Return(nil)

		_, err := f.svc.Request(ctx, accountID, decimal.RequireFromString("40.00"), "")
		assert.NoError(t, err)
	})

	t.Run("monthly limit checked after daily", func(t *testing.T) {
		f := newWithdrawalFixture()

		f.accountRepo.On("GetByIDForUpdate", ctx, accountID).Return(&entities.Account{ID: accountID, Balance: decimal.RequireFromString("2000.00")}, nil)
		// Daily window has room, the monthly window does not
		f.withdrawalRepo.On("SumCountedInWindow", ctx, accountID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(decimal.RequireFromString("100.00"), nil).Once()
		f.withdrawalRepo.On("SumCountedInWindow", ctx, accountID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(decimal.RequireFromString("4980.00"), nil).Once()

		_, err := f.svc.Request(ctx, accountID, decimal.RequireFromString("50.00"), "")
		var limitErr *entities.LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, entities.LimitScopeMonthly, limitErr.Scope)
		assert.True(t, limitErr.Remaining.Equal(decimal.RequireFromString("20.00")))
	})
}

func TestWithdrawalService_Approve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("debits the pending transaction and advances the request", func(t *testing.T) {
		f := newWithdrawalFixture()

		accountID := uuid.New()
		txID := uuid.New()
		reviewedBy := uuid.New()
		request := &entities.WithdrawalRequest{
			ID:            uuid.New(),
			AccountID:     accountID,
			Amount:        decimal.RequireFromString("50.00"),
			Status:        entities.WithdrawalStatusRequested,
			TransactionID: &txID,
		}
		pending := &entities.Transaction{ID: txID, AccountID: accountID, Amount: request.Amount, Status: entities.TransactionStatusPending}

		f.withdrawalRepo.On("GetByIDForUpdate", ctx, request.ID).Return(request, nil)
		f.transactionRepo.On("GetByIDForUpdate", ctx, txID).Return(pending, nil)
		f.ledger.On("ApplyDebit", ctx, accountID, pending).Return(&entities.Account{ID: accountID}, nil)
		f.withdrawalRepo.On("Update", ctx, request).Return(nil)
		f.publisher.On("Publish", mock.AnythingOfType("events.WithdrawalStatusChangedEvent")).Return(nil)

		approved, err := f.svc.Approve(ctx, request.ID, reviewedBy)
		require.NoError(t, err)
		assert.Equal(t, entities.WithdrawalStatusApproved, approved.Status)
		assert.Contains(t, approved.Remarks, reviewedBy.String())

		change := f.publisher.Events[0].(events.WithdrawalStatusChangedEvent)
		assert.Equal(t, entities.WithdrawalStatusRequested, change.OldStatus)
		assert.Equal(t, entities.WithdrawalStatusApproved, change.NewStatus)

		f.ledger.AssertExpectations(t)
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		f := newWithdrawalFixture()

		requestID := uuid.New()
		f.withdrawalRepo.On("GetByIDForUpdate", ctx, requestID).Return(&entities.WithdrawalRequest{
			ID:     requestID,
			Status: entities.WithdrawalStatusApproved,
		}, nil)

		_, err := f.svc.Approve(ctx, requestID, uuid.New())
		assert.ErrorIs(t, err, entities.ErrInvalidStateTransition)
		f.ledger.AssertNotCalled(t, "ApplyDebit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown request", func(t *testing.T) {
		f := newWithdrawalFixture()

		requestID := uuid.New()
		f.withdrawalRepo.On("GetByIDForUpdate", ctx, requestID).Return(nil, nil)

		_, err := f.svc.Approve(ctx, requestID, uuid.New())
		assert.ErrorIs(t, err, entities.ErrWithdrawalRequestNotFound)
	})
}

func TestWithdrawalService_Complete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newWithdrawalFixture()

	txID := uuid.New()
	request := &entities.WithdrawalRequest{
		ID:            uuid.New(),
		AccountID:     uuid.New(),
		Amount:        decimal.RequireFromString("50.00"),
		Status:        entities.WithdrawalStatusProcessing,
		TransactionID: &txID,
	}

	f.withdrawalRepo.On("GetByIDForUpdate", ctx, request.ID).Return(request, nil)
	f.ledger.On("MarkCompleted", ctx, txID).Return(&entities.Transaction{ID: txID, Status: entities.TransactionStatusCompleted}, nil)
	f.withdrawalRepo.On("Update", ctx, request).Return(nil)
	f.publisher.On("Publish", mock.AnythingOfType("events.WithdrawalStatusChangedEvent")).Return(nil)

	completed, err := f.svc.Complete(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.WithdrawalStatusCompleted, completed.Status)
	require.NotNil(t, completed.ProcessedAt)
	f.ledger.AssertExpectations(t)
}

func TestWithdrawalService_Reject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("fails the pending transaction", func(t *testing.T) {
		f := newWithdrawalFixture()

		txID := uuid.New()
		reviewedBy := uuid.New()
		request := &entities.WithdrawalRequest{
			ID:            uuid.New(),
			AccountID:     uuid.New(),
			Amount:        decimal.RequireFromString("50.00"),
			Status:        entities.WithdrawalStatusRequested,
			TransactionID: &txID,
		}

		f.withdrawalRepo.On("GetByIDForUpdate", ctx, request.ID).Return(request, nil)
		f.ledger.On("MarkFailed", ctx, txID).Return(&entities.Transaction{ID: txID, Status: entities.TransactionStatusFailed}, nil)
		f.withdrawalRepo.On("Update", ctx, mock.MatchedBy(func(r *entities.WithdrawalRequest) bool {
			return r.Status == entities.WithdrawalStatusRejected && r.Remarks == "balance dispute"
		})).Return(nil)
		f.publisher.On("Publish", mock.AnythingOfType("events.WithdrawalStatusChangedEvent")).Return(nil)

		rejected, err := f.svc.Reject(ctx, request.ID, reviewedBy, "balance dispute")
		require.NoError(t, err)
		assert.Equal(t, entities.WithdrawalStatusRejected, rejected.Status)
		f.ledger.AssertExpectations(t)
	})

	t.Run("rejection settles the linked transaction as FAILED", func(t *testing.T) {
		withdrawalRepo := new(testhelpers.MockWithdrawalRequestRepository)
		accountRepo := new(testhelpers.MockAccountRepository)
		transactionRepo := new(testhelpers.MockTransactionRepository)
		publisher := new(testhelpers.MockEventPublisher)
		ledger := NewLedgerService(accountRepo, transactionRepo, publisher)
		svc := NewWithdrawalService(withdrawalRepo, accountRepo, transactionRepo, ledger, testLimits(), publisher)

		txID := uuid.New()
		request := &entities.WithdrawalRequest{
			ID:            uuid.New(),
			AccountID:     uuid.New(),
			Amount:        decimal.RequireFromString("50.00"),
			Status:        entities.WithdrawalStatusRequested,
			TransactionID: &txID,
		}
		pending := &entities.Transaction{ID: txID, AccountID: request.AccountID, Amount: request.Amount, Status: entities.TransactionStatusPending}

		withdrawalRepo.On("GetByIDForUpdate", ctx, request.ID).Return(request, nil)
		transactionRepo.On("GetByIDForUpdate", ctx, txID).Return(pending, nil)
		transactionRepo.On("UpdateStatus", ctx, pending).Return(nil)
		withdrawalRepo.On("Update", ctx, request).Return(nil)
		publisher.On("Publish", mock.AnythingOfType("events.WithdrawalStatusChangedEvent")).Return(nil)

		_, err := svc.Reject(ctx, request.ID, uuid.New(), "identity check failed")
		require.NoError(t, err)
		assert.Equal(t, entities.TransactionStatusFailed, pending.Status)
		transactionRepo.AssertExpectations(t)
	})

	t.Run("approved requests cannot be rejected", func(t *testing.T) {
		f := newWithdrawalFixture()

		requestID := uuid.New()
		f.withdrawalRepo.On("GetByIDForUpdate", ctx, requestID).Return(&entities.WithdrawalRequest{
			ID:     requestID,
			Status: entities.WithdrawalStatusApproved,
		}, nil)

		_, err := f.svc.Reject(ctx, requestID, uuid.New(), "")
		assert.ErrorIs(t, err, entities.ErrInvalidStateTransition)
		f.ledger.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything)
	})
}

func TestWithdrawalService_Allowance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newWithdrawalFixture()
	accountID := uuid.New()
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)

	dayStart := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	f.withdrawalRepo.On("SumCountedInWindow", ctx, accountID, dayStart, dayStart.AddDate(0, 0, 1)).Return(decimal.RequireFromString("300.00"), nil)
	f.withdrawalRepo.On("SumCountedInWindow", ctx, accountID, monthStart, monthStart.AddDate(0, 1, 0)).Return(decimal.RequireFromString("1200.00"), nil)

	allowance, err := f.svc.Allowance(ctx, accountID, now)
	require.NoError(t, err)
	assert.True(t, allowance.DailyUsed.Equal(decimal.RequireFromString("300.00")))
	assert.True(t, allowance.DailyRemaining.Equal(decimal.RequireFromString("700.00")))
	assert.True(t, allowance.MonthlyUsed.Equal(decimal.RequireFromString("1200.00")))
	assert.True(t, allowance.MonthlyRemaining.Equal(decimal.RequireFromString("3800.00")))
	f.withdrawalRepo.AssertExpectations(t)
}
