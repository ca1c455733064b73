package testhelpers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"lottoledger/domain/entities"
	"lottoledger/domain/interfaces"
)

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, kind entities.TransactionKind, detail interfaces.TransactionDetail) (*interfaces.LedgerEntry, error) {
	args := m.Called(ctx, accountID, amount, kind, detail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, kind entities.TransactionKind, detail interfaces.TransactionDetail) (*interfaces.LedgerEntry, error) {
	args := m.Called(ctx, accountID, amount, kind, detail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) ApplyDebit(ctx context.Context, accountID uuid.UUID, transaction *entities.Transaction) (*entities.Account, error) {
	args := m.Called(ctx, accountID, transaction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockLedgerService) MarkCompleted(ctx context.Context, transactionID uuid.UUID) (*entities.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockLedgerService) MarkFailed(ctx context.Context, transactionID uuid.UUID) (*entities.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockLedgerService) MarkCancelled(ctx context.Context, transactionID uuid.UUID) (*entities.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}
