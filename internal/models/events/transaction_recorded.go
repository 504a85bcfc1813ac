package events

import (
	"time"
)

// TransactionRecorded is the message published after an event is appended to
// the log. Declined authorizations are published too; they are part of history.
type TransactionRecorded struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	MessageID string    `json:"message_id"`
	Kind      string    `json:"kind"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	Outcome   string    `json:"outcome"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}
