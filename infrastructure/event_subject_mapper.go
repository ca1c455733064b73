package infrastructure

import (
	"fmt"

	"lottoledger/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return "ledger.balance_changed"
	case events.EventTypeTicketsPurchased:
		return "lotteries.tickets_purchased"
	case events.EventTypeDrawCompleted:
		return "lotteries.draw_completed"
	case events.EventTypeDepositCompleted:
		return "payments.deposit_completed"
	case events.EventTypeWithdrawalStatusChanged:
		return "payments.withdrawal_status_changed"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "ledger.balance_changed":
		return events.EventTypeBalanceChange
	case "lotteries.tickets_purchased":
		return events.EventTypeTicketsPurchased
	case "lotteries.draw_completed":
		return events.EventTypeDrawCompleted
	case "payments.deposit_completed":
		return events.EventTypeDepositCompleted
	case "payments.withdrawal_status_changed":
		return events.EventTypeWithdrawalStatusChanged
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"ledger.balance_changed",
		"lotteries.tickets_purchased",
		"lotteries.draw_completed",
		"payments.deposit_completed",
		"payments.withdrawal_status_changed",
	}
}
