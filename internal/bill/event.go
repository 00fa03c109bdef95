package bill

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCreated       EventType = "bill.created"
	EventUpdated       EventType = "bill.updated"
	EventDeleted       EventType = "bill.deleted"
	EventStatusChanged EventType = "bill.status_changed"
)

// Event is emitted after a ledger mutation has been persisted.
type Event struct {
	Type       EventType `json:"type"`
	BillID     uuid.UUID `json:"billId"`
	Status     Status    `json:"status,omitempty"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurredAt"`
}

func newEvent(t EventType, b *Bill, at time.Time) Event {
	return Event{
		Type:       t,
		BillID:     b.ID,
		Status:     b.Status,
		Amount:     b.Amount,
		OccurredAt: at,
	}
}
