package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottoledger/domain/entities"
	"lottoledger/repository/testutil"
)

func TestPaymentIntentRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPaymentIntentRepository(testDB.DB)
	ctx := context.Background()

	account := createTestAccount(t, testDB.DB, "depositor", "0.00")

	intent := &entities.PaymentIntent{
		AccountID:        account.ID,
		GatewayReference: "pi_test_123",
		Amount:           decimal.RequireFromString("40.00"),
		Currency:         "USD",
		Status:           entities.PaymentIntentStatusCreated,
	}
	require.NoError(t, repo.Create(ctx, intent))

	t.Run("found by reference", func(t *testing.T) {
		got, err := repo.GetByGatewayReference(ctx, "pi_test_123")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, intent.ID, got.ID)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("40.00")))
	})

	t.Run("unknown reference", func(t *testing.T) {
		got, err := repo.GetByGatewayReference(ctx, "pi_missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate reference rejected", func(t *testing.T) {
		dup := &entities.PaymentIntent{
			AccountID:        account.ID,
			GatewayReference: "pi_test_123",
			Amount:           decimal.RequireFromString("1.00"),
			Currency:         "USD",
			Status:           entities.PaymentIntentStatusCreated,
		}
		assert.Error(t, repo.Create(ctx, dup))
	})
}

func TestPaymentIntentRepository_Update(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPaymentIntentRepository(testDB.DB)
	ctx := context.Background()

	account := createTestAccount(t, testDB.DB, "settler", "0.00")

	intent := &entities.PaymentIntent{
		AccountID:        account.ID,
		GatewayReference: "pi_settle",
		Amount:           decimal.RequireFromString("15.00"),
		Currency:         "USD",
		Status:           entities.PaymentIntentStatusCreated,
	}
	require.NoError(t, repo.Create(ctx, intent))

	tx := &entities.Transaction{
		AccountID: account.ID,
		Kind:      entities.TransactionKindDeposit,
		Amount:    decimal.RequireFromString("15.00"),
		Status:    entities.TransactionStatusCompleted,
	}
	now := time.Now().UTC()
	tx.CompletedAt = &now
	require.NoError(t, NewTransactionRepository(testDB.DB).Create(ctx, tx))

	intent.Status = entities.PaymentIntentStatusSucceeded
	intent.TransactionID = &tx.ID
	intent.CompletedAt = &now
	require.NoError(t, repo.Update(ctx, intent))

	reloaded, err := repo.GetByGatewayReference(ctx, "pi_settle")
	require.NoError(t, err)
	assert.True(t, reloaded.IsSettled())
	assert.Equal(t, tx.ID, *reloaded.TransactionID)
}
