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

// withdrawalService implements the admin-driven withdrawal lifecycle. Limit
// windows are calendar-aligned in UTC and keyed on RequestedAt, so a request
// made at 23:59 counts against that day even if it settles the next.
type withdrawalService struct {
	withdrawalRepo  interfaces.WithdrawalRequestRepository
	accountRepo     interfaces.AccountRepository
	transactionRepo interfaces.TransactionRepository
	ledger          interfaces.LedgerService
	limits          entities.WithdrawalLimits
	eventPublisher  interfaces.EventPublisher
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(
	withdrawalRepo interfaces.WithdrawalRequestRepository,
	accountRepo interfaces.AccountRepository,
	transactionRepo interfaces.TransactionRepository,
	ledger interfaces.LedgerService,
	limits entities.WithdrawalLimits,
	eventPublisher interfaces.EventPublisher,
) interfaces.WithdrawalService {
	return &withdrawalService{
		withdrawalRepo:  withdrawalRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		ledger:          ledger,
		limits:          limits,
		eventPublisher:  eventPublisher,
	}
}

// Request validates the amount and creates a REQUESTED withdrawal with a
// linked pending transaction. Checks run in order: amount validity, per-request
// bounds, balance, daily window, monthly window. No funds move until approval.
func (s *withdrawalService) Request(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, remarks string) (*entities.WithdrawalRequest, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, entities.ErrInvalidAmount
	}
	if amount.LessThan(s.limits.MinAmount) {
		return nil, &entities.LimitError{Scope: entities.LimitScopeMinimum, Limit: s.limits.MinAmount, Remaining: decimal.Zero}
	}
	if amount.GreaterThan(s.limits.MaxAmount) {
		return nil, &entities.LimitError{Scope: entities.LimitScopeMaximum, Limit: s.limits.MaxAmount, Remaining: decimal.Zero}
	}

	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}
	if !account.HasSufficientBalance(amount) {
		return nil, entities.ErrInsufficientBalance
	}

	now := time.Now().UTC()
	if err := s.checkWindow(ctx, accountID, amount, now); err != nil {
		return nil, err
	}

	transaction := &entities.Transaction{
		AccountID:   accountID,
		Kind:        entities.TransactionKindWithdrawal,
		Amount:      amount,
		Status:      entities.TransactionStatusPending,
		Description: "Withdrawal request",
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	request := &entities.WithdrawalRequest{
		AccountID:     accountID,
		Amount:        amount,
		Status:        entities.WithdrawalStatusRequested,
		TransactionID: &transaction.ID,
		Remarks:       remarks,
		RequestedAt:   now,
	}
	if err := s.withdrawalRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	log.WithFields(log.Fields{
		"requestID": request.ID,
		"accountID": accountID,
		"amount":    amount,
	}).Info("Withdrawal requested")

	return request, nil
}

// Approve debits the account against the pending transaction and moves the
// request to APPROVED. From this point the funds are gone from the wallet.
func (s *withdrawalService) Approve(ctx context.Context, requestID uuid.UUID, reviewedBy uuid.UUID) (*entities.WithdrawalRequest, error) {
	request, err := s.lockRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.CanTransitionTo(entities.WithdrawalStatusApproved) {
		return nil, entities.ErrInvalidStateTransition
	}

	transaction, err := s.transactionRepo.GetByIDForUpdate(ctx, *request.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock transaction: %w", err)
	}
	if transaction == nil {
		return nil, entities.ErrTransactionNotFound
	}

	if _, err := s.ledger.ApplyDebit(ctx, request.AccountID, transaction); err != nil {
		return nil, err
	}

	return s.advance(ctx, request, entities.WithdrawalStatusApproved, fmt.Sprintf("approved by %s", reviewedBy))
}

// MarkProcessing moves an approved request to PROCESSING
func (s *withdrawalService) MarkProcessing(ctx context.Context, requestID uuid.UUID) (*entities.WithdrawalRequest, error) {
	request, err := s.lockRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.advance(ctx, request, entities.WithdrawalStatusProcessing, "")
}

// Complete finalizes a processing request and completes its transaction
func (s *withdrawalService) Complete(ctx context.Context, requestID uuid.UUID) (*entities.WithdrawalRequest, error) {
	request, err := s.lockRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.CanTransitionTo(entities.WithdrawalStatusCompleted) {
		return nil, entities.ErrInvalidStateTransition
	}

	if _, err := s.ledger.MarkCompleted(ctx, *request.TransactionID); err != nil {
		return nil, err
	}

	return s.advance(ctx, request, entities.WithdrawalStatusCompleted, "")
}

// Reject declines a requested withdrawal. Only legal before approval, so the
// balance was never touched and the pending transaction is marked failed.
func (s *withdrawalService) Reject(ctx context.Context, requestID uuid.UUID, reviewedBy uuid.UUID, remarks string) (*entities.WithdrawalRequest, error) {
	request, err := s.lockRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.CanTransitionTo(entities.WithdrawalStatusRejected) {
		return nil, entities.ErrInvalidStateTransition
	}

	if _, err := s.ledger.MarkFailed(ctx, *request.TransactionID); err != nil {
		return nil, err
	}

	return s.advance(ctx, request, entities.WithdrawalStatusRejected, remarks)
}

// Allowance reports the account's remaining daily and monthly allowance
func (s *withdrawalService) Allowance(ctx context.Context, accountID uuid.UUID, now time.Time) (*interfaces.WithdrawalAllowance, error) {
	dailyUsed, monthlyUsed, err := s.windowUsage(ctx, accountID, now)
	if err != nil {
		return nil, err
	}
	return &interfaces.WithdrawalAllowance{
		DailyUsed:        dailyUsed,
		DailyRemaining:   decimal.Max(s.limits.DailyLimit.Sub(dailyUsed), decimal.Zero),
		MonthlyUsed:      monthlyUsed,
		MonthlyRemaining: decimal.Max(s.limits.MonthlyLimit.Sub(monthlyUsed), decimal.Zero),
	}, nil
}

func (s *withdrawalService) lockRequest(ctx context.Context, requestID uuid.UUID) (*entities.WithdrawalRequest, error) {
	request, err := s.withdrawalRepo.GetByIDForUpdate(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock withdrawal request: %w", err)
	}
	if request == nil {
		return nil, entities.ErrWithdrawalRequestNotFound
	}
	return request, nil
}

// advance applies the state transition, persists it and publishes the change
func (s *withdrawalService) advance(ctx context.Context, request *entities.WithdrawalRequest, next entities.WithdrawalStatus, remarks string) (*entities.WithdrawalRequest, error) {
	oldStatus := request.Status
	if err := request.TransitionTo(next, time.Now().UTC()); err != nil {
		return nil, err
	}
	if remarks != "" {
		request.Remarks = remarks
	}
	if err := s.withdrawalRepo.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update withdrawal request: %w", err)
	}

	if err := s.eventPublisher.Publish(events.WithdrawalStatusChangedEvent{
		RequestID: request.ID,
		AccountID: request.AccountID,
		OldStatus: oldStatus,
		NewStatus: request.Status,
		Amount:    request.Amount,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish withdrawal status change: %w", err)
	}
	return request, nil
}

// checkWindow enforces the daily and monthly limits against requests whose
// status currently counts toward allowance
func (s *withdrawalService) checkWindow(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, now time.Time) error {
	dailyUsed, monthlyUsed, err := s.windowUsage(ctx, accountID, now)
	if err != nil {
		return err
	}

	if dailyUsed.Add(amount).GreaterThan(s.limits.DailyLimit) {
		return &entities.LimitError{
			Scope:     entities.LimitScopeDaily,
			Limit:     s.limits.DailyLimit,
			Remaining: decimal.Max(s.limits.DailyLimit.Sub(dailyUsed), decimal.Zero),
		}
	}
	if monthlyUsed.Add(amount).GreaterThan(s.limits.MonthlyLimit) {
		return &entities.LimitError{
			Scope:     entities.LimitScopeMonthly,
			Limit:     s.limits.MonthlyLimit,
			Remaining: decimal.Max(s.limits.MonthlyLimit.Sub(monthlyUsed), decimal.Zero),
		}
	}
	return nil
}

func (s *withdrawalService) windowUsage(ctx context.Context, accountID uuid.UUID, now time.Time) (daily, monthly decimal.Decimal, err error) {
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	daily, err = s.withdrawalRepo.SumCountedInWindow(ctx, accountID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum daily withdrawals: %w", err)
	}
	monthly, err = s.withdrawalRepo.SumCountedInWindow(ctx, accountID, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum monthly withdrawals: %w", err)
	}
	return daily, monthly, nil
}
