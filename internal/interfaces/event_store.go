package interfaces

import (
	"context"

	"github.com/peterso/event-sourced-ledger/internal/models"
)

// EventStore is the append-only event log. Appends always succeed at this
// layer; validation happens upstream in the ledger engine. Reads return
// snapshots in insertion order.
type EventStore interface {
	AppendEvent(ctx context.Context, event models.TransactionEvent) error
	GetEvents() ([]models.TransactionEvent, error)
	GetEventsByUser(userID string) ([]models.TransactionEvent, error)
	// FindByMessage returns the event previously recorded for this
	// (userID, messageID) pair, or nil if none exists.
	FindByMessage(userID, messageID string) (*models.TransactionEvent, error)
}
