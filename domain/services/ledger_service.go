package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lottoledger/domain/entities"
	"lottoledger/domain/events"
	"lottoledger/domain/interfaces"
)

// ledgerService implements balance mutations over the account and
// transaction repositories. Every mutation locks the account row, so
// concurrent mutations against the same account serialize in the database.
type ledgerService struct {
	accountRepo     interfaces.AccountRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	accountRepo interfaces.AccountRepository,
	transactionRepo interfaces.TransactionRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.LedgerService {
	return &ledgerService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
	}
}

// Credit adds amount to the account balance and records a completed transaction
func (s *ledgerService) Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, kind entities.TransactionKind, detail interfaces.TransactionDetail) (*interfaces.LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, entities.ErrInvalidAmount
	}

	account, err := s.lockAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	newBalance := account.Balance.Add(amount)
	return s.record(ctx, account, newBalance, amount, kind, detail)
}

// Debit subtracts amount from the account balance and records a completed
// transaction. The balance check happens under the row lock, so two
// concurrent debits cannot both spend the same funds.
func (s *ledgerService) Debit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, kind entities.TransactionKind, detail interfaces.TransactionDetail) (*interfaces.LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, entities.ErrInvalidAmount
	}

	account, err := s.lockAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.HasSufficientBalance(amount) {
		return nil, entities.ErrInsufficientBalance
	}

	newBalance := account.Balance.Sub(amount)
	return s.record(ctx, account, newBalance, amount, kind, detail)
}

// ApplyDebit subtracts the transaction's amount against an already recorded
// pending transaction. The transaction itself stays pending; the caller
// decides when it completes.
func (s *ledgerService) ApplyDebit(ctx context.Context, accountID uuid.UUID, transaction *entities.Transaction) (*entities.Account, error) {
	if transaction.Status != entities.TransactionStatusPending {
		return nil, entities.ErrInvalidStateTransition
	}

	account, err := s.lockAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.HasSufficientBalance(transaction.Amount) {
		return nil, entities.ErrInsufficientBalance
	}

	oldBalance := account.Balance
	newBalance := oldBalance.Sub(transaction.Amount)
	if err := s.accountRepo.UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	account.Balance = newBalance

	if err := s.eventPublisher.Publish(events.BalanceChangeEvent{
		AccountID:     account.ID,
		TransactionID: transaction.ID,
		Kind:          transaction.Kind,
		OldBalance:    oldBalance,
		NewBalance:    newBalance,
		ChangeAmount:  transaction.Amount.Neg(),
	}); err != nil {
		return nil, fmt.Errorf("failed to publish balance change: %w", err)
	}

	return account, nil
}

// MarkCompleted transitions a pending transaction to COMPLETED
func (s *ledgerService) MarkCompleted(ctx context.Context, transactionID uuid.UUID) (*entities.Transaction, error) {
	return s.transition(ctx, transactionID, func(t *entities.Transaction) error {
		return t.MarkCompleted(time.Now().UTC())
	})
}

// MarkFailed transitions a pending transaction to FAILED
func (s *ledgerService) MarkFailed(ctx context.Context, transactionID uuid.UUID) (*entities.Transaction, error) {
	return s.transition(ctx, transactionID, (*entities.Transaction).MarkFailed)
}

// MarkCancelled transitions a pending transaction to CANCELLED
func (s *ledgerService) MarkCancelled(ctx context.Context, transactionID uuid.UUID) (*entities.Transaction, error) {
	return s.transition(ctx, transactionID, (*entities.Transaction).MarkCancelled)
}

func (s *ledgerService) lockAccount(ctx context.Context, accountID uuid.UUID) (*entities.Account, error) {
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}
	return account, nil
}

// record persists the new balance, writes the paired transaction and
// publishes the balance change. Credit or debit direction is derived from
// the kind.
func (s *ledgerService) record(ctx context.Context, account *entities.Account, newBalance, amount decimal.Decimal, kind entities.TransactionKind, detail interfaces.TransactionDetail) (*interfaces.LedgerEntry, error) {
	oldBalance := account.Balance
	if err := s.accountRepo.UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	account.Balance = newBalance

	now := time.Now().UTC()
	transaction := &entities.Transaction{
		AccountID:   account.ID,
		Kind:        kind,
		Amount:      amount,
		Status:      entities.TransactionStatusCompleted,
		Description: detail.Description,
		LotteryID:   detail.LotteryID,
		ReferenceID: detail.ReferenceID,
		CompletedAt: &now,
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	changeAmount := newBalance.Sub(oldBalance)
	if err := s.eventPublisher.Publish(events.BalanceChangeEvent{
		AccountID:     account.ID,
		TransactionID: transaction.ID,
		Kind:          kind,
		OldBalance:    oldBalance,
		NewBalance:    newBalance,
		ChangeAmount:  changeAmount,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish balance change: %w", err)
	}

	return &interfaces.LedgerEntry{Account: account, Transaction: transaction}, nil
}

func (s *ledgerService) transition(ctx context.Context, transactionID uuid.UUID, apply func(*entities.Transaction) error) (*entities.Transaction, error) {
	transaction, err := s.transactionRepo.GetByIDForUpdate(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock transaction: %w", err)
	}
	if transaction == nil {
		return nil, entities.ErrTransactionNotFound
	}

	if err := apply(transaction); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.UpdateStatus(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}
	return transaction, nil
}
