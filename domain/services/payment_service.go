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

// paymentService settles gateway deposits. Idempotency hinges on the row
// lock by gateway reference plus the settled check: replayed webhook
// deliveries queue on the lock and then see the linked transaction.
type paymentService struct {
	paymentRepo    interfaces.PaymentIntentRepository
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo interfaces.PaymentIntentRepository,
	ledger interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.PaymentService {
	return &paymentService{
		paymentRepo:    paymentRepo,
		ledger:         ledger,
		eventPublisher: eventPublisher,
	}
}

// CreateIntent registers a pending deposit keyed by the gateway's reference
func (s *paymentService) CreateIntent(ctx context.Context, accountID uuid.UUID, gatewayReference string, amount decimal.Decimal, currency string) (*entities.PaymentIntent, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, entities.ErrInvalidAmount
	}
	if gatewayReference == "" {
		return nil, fmt.Errorf("gateway reference must not be empty")
	}

	intent := &entities.PaymentIntent{
		AccountID:        accountID,
		GatewayReference: gatewayReference,
		Amount:           amount,
		Currency:         currency,
		Status:           entities.PaymentIntentStatusCreated,
	}
	if err := s.paymentRepo.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent, nil
}

// HandleSuccess credits the deposit exactly once per gateway reference
func (s *paymentService) HandleSuccess(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error) {
	intent, err := s.lockIntent(ctx, gatewayReference)
	if err != nil {
		return nil, err
	}

	if intent.IsSettled() {
		log.WithFields(log.Fields{
			"gatewayReference": gatewayReference,
			"transactionID":    intent.TransactionID,
		}).Info("Ignoring replayed success webhook for settled intent")
		return intent, nil
	}

	entry, err := s.ledger.Credit(ctx, intent.AccountID, intent.Amount, entities.TransactionKindDeposit, interfaces.TransactionDetail{
		Description: "Gateway deposit",
		ReferenceID: gatewayReference,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	intent.Status = entities.PaymentIntentStatusSucceeded
	intent.TransactionID = &entry.Transaction.ID
	intent.CompletedAt = &now
	if err := s.paymentRepo.Update(ctx, intent); err != nil {
		return nil, fmt.Errorf("failed to update payment intent: %w", err)
	}

	if err := s.eventPublisher.Publish(events.DepositCompletedEvent{
		AccountID:        intent.AccountID,
		GatewayReference: gatewayReference,
		Amount:           intent.Amount,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish deposit completed: %w", err)
	}

	return intent, nil
}

// HandleFailure marks the intent failed without touching the balance
func (s *paymentService) HandleFailure(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error) {
	return s.close(ctx, gatewayReference, entities.PaymentIntentStatusFailed)
}

// HandleCancellation marks the intent canceled without touching the balance
func (s *paymentService) HandleCancellation(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error) {
	return s.close(ctx, gatewayReference, entities.PaymentIntentStatusCanceled)
}

func (s *paymentService) close(ctx context.Context, gatewayReference string, status entities.PaymentIntentStatus) (*entities.PaymentIntent, error) {
	intent, err := s.lockIntent(ctx, gatewayReference)
	if err != nil {
		return nil, err
	}

	// A settled intent never regresses: a late failure webhook after a
	// success delivery is dropped.
	if intent.IsSettled() {
		return intent, nil
	}
	if intent.Status == status {
		return intent, nil
	}

	intent.Status = status
	if err := s.paymentRepo.Update(ctx, intent); err != nil {
		return nil, fmt.Errorf("failed to update payment intent: %w", err)
	}
	return intent, nil
}

func (s *paymentService) lockIntent(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error) {
	intent, err := s.paymentRepo.GetByGatewayReferenceForUpdate(ctx, gatewayReference)
	if err != nil {
		return nil, fmt.Errorf("failed to lock payment intent: %w", err)
	}
	if intent == nil {
		return nil, entities.ErrPaymentIntentNotFound
	}
	return intent, nil
}
