package testhelpers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"lottoledger/domain/entities"
	"lottoledger/domain/events"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error {
	args := m.Called(ctx, id, newBalance)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *entities.Transaction) error {
	args := m.Called(ctx, transaction)
	if args.Error(0) == nil && transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, transaction *entities.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByKind(ctx context.Context, kind entities.TransactionKind, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByDateRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*entities.Transaction, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByReference(ctx context.Context, referenceID string) (*entities.Transaction, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

// MockLotteryRepository is a mock implementation of LotteryRepository
type MockLotteryRepository struct {
	mock.Mock
}

func (m *MockLotteryRepository) Create(ctx context.Context, lottery *entities.Lottery) error {
	args := m.Called(ctx, lottery)
	if args.Error(0) == nil && lottery.ID == uuid.Nil {
		lottery.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockLotteryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Lottery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Lottery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) Update(ctx context.Context, lottery *entities.Lottery) error {
	args := m.Called(ctx, lottery)
	return args.Error(0)
}

func (m *MockLotteryRepository) GetByStatus(ctx context.Context, status entities.LotteryStatus) ([]*entities.Lottery, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) GetDraftStartingBefore(ctx context.Context, t time.Time) ([]*entities.Lottery, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) GetActiveEndedBefore(ctx context.Context, t time.Time) ([]*entities.Lottery, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) GetDueForDraw(ctx context.Context, t time.Time) ([]*entities.Lottery, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) CreateBatch(ctx context.Context, tickets []*entities.Ticket) error {
	args := m.Called(ctx, tickets)
	if args.Error(0) == nil {
		for _, t := range tickets {
			if t.ID == uuid.Nil {
				t.ID = uuid.New()
			}
		}
	}
	return args.Error(0)
}

func (m *MockTicketRepository) GetByLottery(ctx context.Context, lotteryID uuid.UUID) ([]*entities.Ticket, error) {
	args := m.Called(ctx, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByAccountAndLottery(ctx context.Context, accountID, lotteryID uuid.UUID) ([]*entities.Ticket, error) {
	args := m.Called(ctx, accountID, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CountByAccountAndLottery(ctx context.Context, accountID, lotteryID uuid.UUID) (int, error) {
	args := m.Called(ctx, accountID, lotteryID)
	return args.Int(0), args.Error(1)
}

func (m *MockTicketRepository) CountByLottery(ctx context.Context, lotteryID uuid.UUID) (int, error) {
	args := m.Called(ctx, lotteryID)
	return args.Int(0), args.Error(1)
}

func (m *MockTicketRepository) CountDistinctParticipants(ctx context.Context, lotteryID uuid.UUID) (int, error) {
	args := m.Called(ctx, lotteryID)
	return args.Int(0), args.Error(1)
}

func (m *MockTicketRepository) MaxTicketNumber(ctx context.Context, lotteryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, lotteryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) MarkWinner(ctx context.Context, ticketID uuid.UUID) error {
	args := m.Called(ctx, ticketID)
	return args.Error(0)
}

func (m *MockTicketRepository) GetParticipantSummary(ctx context.Context, lotteryID uuid.UUID) ([]*entities.ParticipantInfo, error) {
	args := m.Called(ctx, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ParticipantInfo), args.Error(1)
}

// MockWinnerRepository is a mock implementation of WinnerRepository
type MockWinnerRepository struct {
	mock.Mock
}

func (m *MockWinnerRepository) Create(ctx context.Context, winner *entities.Winner) error {
	args := m.Called(ctx, winner)
	if args.Error(0) == nil && winner.ID == uuid.Nil {
		winner.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockWinnerRepository) GetByLottery(ctx context.Context, lotteryID uuid.UUID) (*entities.Winner, error) {
	args := m.Called(ctx, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Winner), args.Error(1)
}

func (m *MockWinnerRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.Winner, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Winner), args.Error(1)
}

// MockDrawAuditLogRepository is a mock implementation of DrawAuditLogRepository
type MockDrawAuditLogRepository struct {
	mock.Mock
}

func (m *MockDrawAuditLogRepository) Create(ctx context.Context, log *entities.DrawAuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockDrawAuditLogRepository) GetByLottery(ctx context.Context, lotteryID uuid.UUID) (*entities.DrawAuditLog, error) {
	args := m.Called(ctx, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DrawAuditLog), args.Error(1)
}

// MockWithdrawalRequestRepository is a mock implementation of WithdrawalRequestRepository
type MockWithdrawalRequestRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRequestRepository) Create(ctx context.Context, request *entities.WithdrawalRequest) error {
	args := m.Called(ctx, request)
	if args.Error(0) == nil && request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockWithdrawalRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRequestRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRequestRepository) Update(ctx context.Context, request *entities.WithdrawalRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockWithdrawalRequestRepository) SumCountedInWindow(ctx context.Context, accountID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockPaymentIntentRepository is a mock implementation of PaymentIntentRepository
type MockPaymentIntentRepository struct {
	mock.Mock
}

func (m *MockPaymentIntentRepository) Create(ctx context.Context, intent *entities.PaymentIntent) error {
	args := m.Called(ctx, intent)
	if args.Error(0) == nil && intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockPaymentIntentRepository) GetByGatewayReference(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error) {
	args := m.Called(ctx, gatewayReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentIntent), args.Error(1)
}

func (m *MockPaymentIntentRepository) GetByGatewayReferenceForUpdate(ctx context.Context, gatewayReference string) (*entities.PaymentIntent, error) {
	args := m.Called(ctx, gatewayReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentIntent), args.Error(1)
}

func (m *MockPaymentIntentRepository) Update(ctx context.Context, intent *entities.PaymentIntent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	args := m.Called(ctx, referral)
	if args.Error(0) == nil && referral.ID == uuid.Nil {
		referral.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockReferralRepository) GetByReferredAccountForUpdate(ctx context.Context, referredAccountID uuid.UUID) (*entities.Referral, error) {
	args := m.Called(ctx, referredAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Referral), args.Error(1)
}

func (m *MockReferralRepository) GetByReferrer(ctx context.Context, referrerAccountID uuid.UUID) ([]*entities.Referral, error) {
	args := m.Called(ctx, referrerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Referral), args.Error(1)
}

func (m *MockReferralRepository) Update(ctx context.Context, referral *entities.Referral) error {
	args := m.Called(ctx, referral)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher that records
// published events for assertions
type MockEventPublisher struct {
	mock.Mock
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	m.Events = append(m.Events, event)
	args := m.Called(event)
	return args.Error(0)
}
