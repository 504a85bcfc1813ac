package ledger

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	interfaces "github.com/peterso/event-sourced-ledger/internal/interfaces"
	"github.com/peterso/event-sourced-ledger/internal/models"
	recorded "github.com/peterso/event-sourced-ledger/internal/models/events"
)

// TransactionsTopic is where recorded events are published.
const TransactionsTopic = "ledger.transactions"

// LoadResult is returned after a load is recorded. Loads are never declined.
type LoadResult struct {
	UserID    string
	MessageID string
	Balance   models.Money
}

// AuthorizationResult carries the decision and the balance after the event.
type AuthorizationResult struct {
	UserID       string
	MessageID    string
	ResponseCode models.Outcome
	Balance      models.Money
}

// Ledger derives balances by replaying the event log and decides whether new
// transactions are accepted against them. It owns the log: nothing else
// appends. A per-user mutex serializes the read-decide-append sequence so two
// in-flight requests for one user cannot both observe the same balance, while
// requests for different users proceed in parallel.
type Ledger struct {
	store     interfaces.EventStore
	publisher interfaces.EventPublisher // optional, may be nil
	logger    zerolog.Logger
	muMap     map[string]*sync.Mutex // one mutex per userID
	mapMu     sync.Mutex             // protects muMap itself
}

func NewLedger(store interfaces.EventStore, publisher interfaces.EventPublisher, logger zerolog.Logger) *Ledger {
	return &Ledger{
		store:     store,
		publisher: publisher,
		logger:    logger,
		muMap:     make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) getUserLock(userID string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[userID]; !exists {
		l.muMap[userID] = &sync.Mutex{}
	}
	return l.muMap[userID]
}

// HandleLoad records a credit to the user's account. Loads always succeed:
// the engine builds an approved LOAD event, appends it, and responds with the
// re-projected balance. A replayed (userID, messageID) pair is answered from
// the stored event instead of appending a duplicate.
func (l *Ledger) HandleLoad(ctx context.Context, userID, messageID string, amount models.Money) (LoadResult, error) {
	if userID == "" || messageID == "" {
		return LoadResult{}, models.ErrBlankIdentifier
	}
	if amount.DebitOrCredit != models.DirectionCredit {
		return LoadResult{}, models.ErrAmountTypeMismatch
	}

	event, appended, balance, err := l.recordLoad(ctx, userID, messageID, amount)
	if err != nil {
		return LoadResult{}, err
	}

	result := LoadResult{
		UserID:    userID,
		MessageID: messageID,
		Balance: models.Money{
			Amount:        balance,
			Currency:      amount.Currency,
			DebitOrCredit: models.DirectionCredit,
		},
	}
	if appended {
		l.publish(event, result.Balance)
	}

	l.logger.Debug().
		Str("user_id", userID).
		Str("message_id", messageID).
		Str("amount", amount.String()).
		Str("balance", result.Balance.String()).
		Msg("load recorded")
	return result, nil
}

// recordLoad is the per-user critical section of HandleLoad: the idempotency
// lookup, the append, and the balance projection run under the user's mutex.
// Publishing stays outside so a slow broker never stalls the user's requests.
func (l *Ledger) recordLoad(ctx context.Context, userID, messageID string, amount models.Money) (models.TransactionEvent, bool, decimal.Decimal, error) {
	userMutex := l.getUserLock(userID)
	userMutex.Lock()
	defer userMutex.Unlock()

	existing, err := l.store.FindByMessage(userID, messageID)
	if err != nil {
		return models.TransactionEvent{}, false, decimal.Zero, err
	}
	appended := false
	if existing == nil {
		event := models.NewTransactionEvent(userID, messageID, models.KindLoad, amount, models.OutcomeApproved)
		if err := l.store.AppendEvent(ctx, event); err != nil {
			return models.TransactionEvent{}, false, decimal.Zero, err
		}
		existing = &event
		appended = true
	} else {
		// A messageId recorded by another kind cannot be replayed as a load.
		if existing.Kind != models.KindLoad {
			return models.TransactionEvent{}, false, decimal.Zero, models.ErrMessageConflict
		}
		l.logger.Info().
			Str("user_id", userID).
			Str("message_id", messageID).
			Msg("duplicate load message replayed, no event appended")
	}

	balance, err := l.balanceAmount(userID)
	if err != nil {
		return models.TransactionEvent{}, false, decimal.Zero, err
	}
	return *existing, appended, balance, nil
}

// HandleAuthorize decides a debit against the user's current balance. The
// projection, the decision, and the append form one critical section per user.
// The event is appended whether approved or declined; declined events stay in
// history but never count toward future balances.
func (l *Ledger) HandleAuthorize(ctx context.Context, userID, messageID string, amount models.Money) (AuthorizationResult, error) {
	if userID == "" || messageID == "" {
		return AuthorizationResult{}, models.ErrBlankIdentifier
	}
	if amount.DebitOrCredit != models.DirectionDebit {
		return AuthorizationResult{}, models.ErrAmountTypeMismatch
	}

	event, appended, balance, err := l.recordAuthorization(ctx, userID, messageID, amount)
	if err != nil {
		return AuthorizationResult{}, err
	}

	result := AuthorizationResult{
		UserID:       userID,
		MessageID:    messageID,
		ResponseCode: event.Outcome,
		Balance: models.Money{
			Amount:        balance,
			Currency:      amount.Currency,
			DebitOrCredit: models.DirectionDebit,
		},
	}
	if appended {
		l.publish(event, result.Balance)
	}

	l.logger.Debug().
		Str("user_id", userID).
		Str("message_id", messageID).
		Str("amount", amount.String()).
		Str("outcome", string(event.Outcome)).
		Str("balance", result.Balance.String()).
		Msg("authorization decided")
	return result, nil
}

// recordAuthorization is the per-user critical section of HandleAuthorize:
// projection, decision, and append execute as one unit under the user's mutex
// so two concurrent debits cannot both spend the same balance.
func (l *Ledger) recordAuthorization(ctx context.Context, userID, messageID string, amount models.Money) (models.TransactionEvent, bool, decimal.Decimal, error) {
	userMutex := l.getUserLock(userID)
	userMutex.Lock()
	defer userMutex.Unlock()

	existing, err := l.store.FindByMessage(userID, messageID)
	if err != nil {
		return models.TransactionEvent{}, false, decimal.Zero, err
	}
	appended := false
	if existing == nil {
		current, err := l.balanceAmount(userID)
		if err != nil {
			return models.TransactionEvent{}, false, decimal.Zero, err
		}

		// Declined iff the requested amount exceeds the balance; debiting
		// the exact remaining balance is approved and leaves 0.00.
		outcome := models.OutcomeApproved
		if amount.Amount.GreaterThan(current) {
			outcome = models.OutcomeDeclined
		}

		event := models.NewTransactionEvent(userID, messageID, models.KindAuthorization, amount, outcome)
		if err := l.store.AppendEvent(ctx, event); err != nil {
			return models.TransactionEvent{}, false, decimal.Zero, err
		}
		existing = &event
		appended = true
	} else {
		// A load's messageId must not replay as an authorization: the stored
		// APPROVED outcome would report a debit that never happened.
		if existing.Kind != models.KindAuthorization {
			return models.TransactionEvent{}, false, decimal.Zero, models.ErrMessageConflict
		}
		l.logger.Info().
			Str("user_id", userID).
			Str("message_id", messageID).
			Msg("duplicate authorization message replayed, no event appended")
	}

	balance, err := l.balanceAmount(userID)
	if err != nil {
		return models.TransactionEvent{}, false, decimal.Zero, err
	}
	return *existing, appended, balance, nil
}

// Balance projects the user's current balance from the log. A user with no
// history has balance 0.00 and no currency.
func (l *Ledger) Balance(userID string) (models.Money, error) {
	events, err := l.store.GetEventsByUser(userID)
	if err != nil {
		return models.Money{}, err
	}
	amount, currency := ProjectBalance(userID, events)
	return models.Money{Amount: amount, Currency: currency}, nil
}

// Events returns the full event history in insertion order.
func (l *Ledger) Events() ([]models.TransactionEvent, error) {
	return l.store.GetEvents()
}

func (l *Ledger) balanceAmount(userID string) (decimal.Decimal, error) {
	events, err := l.store.GetEventsByUser(userID)
	if err != nil {
		return decimal.Zero, err
	}
	amount, _ := ProjectBalance(userID, events)
	return amount, nil
}

// ProjectBalance is the pure fold at the heart of the ledger: keep the user's
// approved events, add loads, subtract authorizations. Inputs carry at most
// two fractional digits and decimal addition is exact, so no rounding ever
// happens. The currency of the most recent event for the user rides along.
func ProjectBalance(userID string, events []models.TransactionEvent) (decimal.Decimal, string) {
	balance := decimal.Zero
	currency := ""
	for _, event := range events {
		if event.UserID != userID {
			continue
		}
		currency = event.Amount.Currency
		if event.Outcome != models.OutcomeApproved {
			continue
		}
		switch event.Kind {
		case models.KindLoad:
			balance = balance.Add(event.Amount.Amount)
		case models.KindAuthorization:
			balance = balance.Sub(event.Amount.Amount)
		}
	}
	return balance, currency
}

// publish is best-effort: the log append is the source of truth, so a
// publisher failure is logged and never fails the request.
func (l *Ledger) publish(event models.TransactionEvent, balance models.Money) {
	if l.publisher == nil {
		return
	}
	msg := recorded.TransactionRecorded{
		EventID:   event.ID.String(),
		UserID:    event.UserID,
		MessageID: event.MessageID,
		Kind:      string(event.Kind),
		Amount:    event.Amount.String(),
		Currency:  event.Amount.Currency,
		Outcome:   string(event.Outcome),
		Balance:   balance.String(),
		CreatedAt: event.CreatedAt,
	}
	if err := l.publisher.Publish(TransactionsTopic, msg); err != nil {
		l.logger.Error().Err(err).
			Str("user_id", event.UserID).
			Str("message_id", event.MessageID).
			Msg("failed to publish transaction event")
	}
}
