package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind is the closed set of event kinds the ledger records.
type TransactionKind string

const (
	KindLoad          TransactionKind = "LOAD"
	KindAuthorization TransactionKind = "AUTHORIZATION"
)

// Outcome is the recorded result of a transaction event.
type Outcome string

const (
	OutcomeApproved Outcome = "APPROVED"
	OutcomeDeclined Outcome = "DECLINED"
)

// TransactionEvent is one immutable fact in the event log. Events are created
// once with their outcome already decided, appended, and never changed.
type TransactionEvent struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UserID    string
	MessageID string
	Kind      TransactionKind
	Amount    Money
	Outcome   Outcome
}

// NewTransactionEvent stamps a fresh event with its id and creation time.
func NewTransactionEvent(userID, messageID string, kind TransactionKind, amount Money, outcome Outcome) TransactionEvent {
	return TransactionEvent{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		UserID:    userID,
		MessageID: messageID,
		Kind:      kind,
		Amount:    amount,
		Outcome:   outcome,
	}
}
