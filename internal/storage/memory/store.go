package memory

import (
	"context"
	"sync"

	interfaces "github.com/peterso/event-sourced-ledger/internal/interfaces"
	"github.com/peterso/event-sourced-ledger/internal/models"
)

// MemoryEventStore is the reference, volatile implementation of the event log:
// a mutex-guarded slice that only ever grows. Insertion order is the causal
// order of the ledger.
type MemoryEventStore struct {
	mu        sync.Mutex
	events    []models.TransactionEvent
	byMessage map[string]int // (userID, messageID) -> index into events
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		events:    make([]models.TransactionEvent, 0),
		byMessage: make(map[string]int),
	}
}

func messageKey(userID, messageID string) string {
	return userID + "\x00" + messageID
}

// AppendEvent adds the event to the end of the log. It never fails in memory.
func (m *MemoryEventStore) AppendEvent(ctx context.Context, event models.TransactionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
	m.byMessage[messageKey(event.UserID, event.MessageID)] = len(m.events) - 1
	return nil
}

// GetEvents returns a snapshot copy of the whole log so callers can iterate
// repeatedly without observing later appends.
func (m *MemoryEventStore) GetEvents() ([]models.TransactionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.TransactionEvent, len(m.events))
	copy(copied, m.events)
	return copied, nil
}

func (m *MemoryEventStore) GetEventsByUser(userID string) ([]models.TransactionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.TransactionEvent
	for _, e := range m.events {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MemoryEventStore) FindByMessage(userID, messageID string) (*models.TransactionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.byMessage[messageKey(userID, messageID)]
	if !ok {
		return nil, nil
	}
	event := m.events[idx]
	return &event, nil
}

// Compile-time check: MemoryEventStore implements the EventStore interface.
var _ interfaces.EventStore = (*MemoryEventStore)(nil)
