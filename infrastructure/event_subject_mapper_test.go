package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lottoledger/domain/events"
)

func TestEventSubjectMapper_RoundTrip(t *testing.T) {
	t.Parallel()

	mapper := NewEventSubjectMapper()

	tests := []struct {
		event   events.Event
		subject string
	}{
		{events.BalanceChangeEvent{}, "ledger.balance_changed"},
		{events.TicketsPurchasedEvent{}, "lotteries.tickets_purchased"},
		{events.DrawCompletedEvent{}, "lotteries.draw_completed"},
		{events.DepositCompletedEvent{}, "payments.deposit_completed"},
		{events.WithdrawalStatusChangedEvent{}, "payments.withdrawal_status_changed"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.subject, mapper.MapEventToSubject(tt.event))
		assert.Equal(t, tt.event.Type(), mapper.MapSubjectToEventType(tt.subject))
	}
}

func TestEventSubjectMapper_GetAllSubjects(t *testing.T) {
	t.Parallel()

	mapper := NewEventSubjectMapper()
	subjects := mapper.GetAllSubjects()
	assert.Len(t, subjects, 5)

	for _, subject := range subjects {
		// Every advertised subject maps back to a known event type
		assert.NotEqual(t, events.EventType(subject), mapper.MapSubjectToEventType(subject))
	}
}
