package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	interfaces "github.com/peterso/event-sourced-ledger/internal/interfaces"
	"github.com/peterso/event-sourced-ledger/internal/models"
)

// PostgresEventStore persists the event log in a single transaction_events
// table. A serial seq column preserves insertion order and a unique
// (user_id, message_id) index backs the idempotency lookup.
type PostgresEventStore struct {
	db *sql.DB
}

func NewPostgresEventStore(db *sql.DB) *PostgresEventStore {
	return &PostgresEventStore{
		db: db,
	}
}

// Migrate creates the events table if it does not exist yet.
func (p *PostgresEventStore) Migrate(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS transaction_events (
		seq        BIGSERIAL PRIMARY KEY,
		id         UUID NOT NULL,
		user_id    TEXT NOT NULL,
		message_id TEXT NOT NULL,
		kind       TEXT NOT NULL,
		amount     NUMERIC NOT NULL,
		currency   TEXT NOT NULL,
		direction  TEXT NOT NULL,
		outcome    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, message_id)
	)`

	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate transaction_events: %w", err)
	}
	return nil
}

func (p *PostgresEventStore) AppendEvent(ctx context.Context, event models.TransactionEvent) error {
	const query = `INSERT INTO transaction_events (id, user_id, message_id, kind, amount, currency, direction, outcome, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err := p.db.ExecContext(ctx, query,
		event.ID.String(),
		event.UserID,
		event.MessageID,
		string(event.Kind),
		event.Amount.Amount.StringFixed(2),
		event.Amount.Currency,
		string(event.Amount.DebitOrCredit),
		string(event.Outcome),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (p *PostgresEventStore) GetEvents() ([]models.TransactionEvent, error) {
	const query = `SELECT id, user_id, message_id, kind, amount, currency, direction, outcome, created_at
	FROM transaction_events ORDER BY seq`

	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (p *PostgresEventStore) GetEventsByUser(userID string) ([]models.TransactionEvent, error) {
	const query = `SELECT id, user_id, message_id, kind, amount, currency, direction, outcome, created_at
	FROM transaction_events WHERE user_id = $1 ORDER BY seq`

	rows, err := p.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (p *PostgresEventStore) FindByMessage(userID, messageID string) (*models.TransactionEvent, error) {
	const query = `SELECT id, user_id, message_id, kind, amount, currency, direction, outcome, created_at
	FROM transaction_events WHERE user_id = $1 AND message_id = $2 LIMIT 1`

	event, err := scanEvent(p.db.QueryRow(query, userID, messageID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (models.TransactionEvent, error) {
	var (
		event     models.TransactionEvent
		id        string
		amount    string
		kind      string
		direction string
		outcome   string
		createdAt time.Time
	)
	err := row.Scan(
		&id,
		&event.UserID,
		&event.MessageID,
		&kind,
		&amount,
		&event.Amount.Currency,
		&direction,
		&outcome,
		&createdAt,
	)
	if err != nil {
		return models.TransactionEvent{}, err
	}

	event.ID, err = uuid.Parse(id)
	if err != nil {
		return models.TransactionEvent{}, fmt.Errorf("parse event id: %w", err)
	}
	event.Amount.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return models.TransactionEvent{}, fmt.Errorf("parse event amount: %w", err)
	}
	event.Kind = models.TransactionKind(kind)
	event.Amount.DebitOrCredit = models.Direction(direction)
	event.Outcome = models.Outcome(outcome)
	event.CreatedAt = createdAt
	return event, nil
}

func scanEvents(rows *sql.Rows) ([]models.TransactionEvent, error) {
	var events []models.TransactionEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

var _ interfaces.EventStore = (*PostgresEventStore)(nil)
