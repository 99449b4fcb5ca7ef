package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"budget/internal/core"
)

// Event types, also used as routing key suffixes.
const (
	EventEntryAdded   = "entry.added"
	EventEntryDeleted = "entry.deleted"
)

// EntryEvent describes one ledger change together with the aggregates
// that resulted from it. Amounts are decimal strings.
type EntryEvent struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Category        string    `json:"category"`
	EntryID         int       `json:"entry_id"`
	Description     string    `json:"description,omitempty"`
	Value           string    `json:"value,omitempty"`
	Budget          string    `json:"budget"`
	TotalIncome     string    `json:"total_income"`
	TotalExpense    string    `json:"total_expense"`
	SpendPercentage *int64    `json:"spend_percentage"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewEntryAddedEvent builds the event for a freshly added entry
func NewEntryAddedEvent(e core.Entry, s core.Summary) *EntryEvent {
	ev := newEvent(EventEntryAdded, e.Category, e.ID, s)
	ev.Description = e.Description
	ev.Value = e.Value.String()
	return ev
}

// NewEntryDeletedEvent builds the event for a removed entry
func NewEntryDeletedEvent(c core.Category, id int, s core.Summary) *EntryEvent {
	return newEvent(EventEntryDeleted, c, id, s)
}

func newEvent(typ string, c core.Category, id int, s core.Summary) *EntryEvent {
	ev := &EntryEvent{
		ID:           uuid.NewString(),
		Type:         typ,
		Category:     c.Name(),
		EntryID:      id,
		Budget:       s.Budget.String(),
		TotalIncome:  s.TotalIncome.String(),
		TotalExpense: s.TotalExpense.String(),
		Timestamp:    time.Now().UTC(),
	}
	if v, ok := s.SpendPercentage.Get(); ok {
		ev.SpendPercentage = &v
	}
	return ev
}

// ToJSON converts the message to JSON bytes
func (m *EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
