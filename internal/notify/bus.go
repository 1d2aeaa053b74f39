// Package notify is the in-process change channel. Services publish a Change
// after a mutation commits; subscribers are keyed by trip and table and are
// expected to re-fetch whatever they display.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tables that produce change notifications.
const (
	TableTrips                = "trips"
	TableParticipants         = "participants"
	TableExpenses             = "expenses"
	TableExpenseImages        = "expense_images"
	TableTreasuryTransactions = "treasury_transactions"
	TableDuesGoals            = "dues_goals"
	TableParticipantAccounts  = "participant_accounts"
	TableTreasuryAccounts     = "trip_treasury_accounts"
)

// AllTrips subscribes a handler to changes of every trip.
const AllTrips = "*"

// Change describes one committed mutation.
type Change struct {
	TripID     string    `json:"trip_id"`
	Table      string    `json:"table"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Handler receives a change.
type Handler func(ctx context.Context, change Change) error

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, change Change)
}

type subscription struct {
	id      uint64
	table   string
	handler Handler
}

// Bus fans out changes to subscribers registered for a trip.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
	logger *zap.SugaredLogger
}

// NewBus creates an empty bus.
func NewBus(logger *zap.SugaredLogger) *Bus {
	return &Bus{
		subs:   make(map[string][]subscription),
		logger: logger,
	}
}

// Subscribe registers handler for changes on table within tripID. An empty
// table matches every table. The returned func removes the subscription and
// is safe to call more than once.
func (b *Bus) Subscribe(tripID, table string, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[tripID] = append(b.subs[tripID], subscription{id: id, table: table, handler: handler})
	count := len(b.subs[tripID])
	b.mu.Unlock()

	b.logger.Debugw("change handler registered", "trip_id", tripID, "table", table, "total_handlers", count)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(tripID, id) })
	}
}

func (b *Bus) remove(tripID string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[tripID]
	for i, s := range subs {
		if s.id == id {
			b.subs[tripID] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[tripID]) == 0 {
		delete(b.subs, tripID)
	}
}

func (b *Bus) matching(change Change) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var handlers []Handler
	for _, key := range []string{change.TripID, AllTrips} {
		for _, s := range b.subs[key] {
			if s.table == "" || s.table == change.Table {
				handlers = append(handlers, s.handler)
			}
		}
	}
	return handlers
}

// Publish delivers the change to every matching handler on its own
// goroutine. Handler errors are logged.
func (b *Bus) Publish(ctx context.Context, change Change) {
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now().UTC()
	}
	handlers := b.matching(change)
	if len(handlers) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	for _, h := range handlers {
		go func(h Handler) {
			if err := h(ctx, change); err != nil {
				b.logger.Warnw("change handler failed",
					"trip_id", change.TripID,
					"table", change.Table,
					"entity_id", change.EntityID,
					"error", err)
			}
		}(h)
	}
}

// PublishSync delivers the change in the caller's goroutine and stops at the
// first handler error.
func (b *Bus) PublishSync(ctx context.Context, change Change) error {
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now().UTC()
	}
	for _, h := range b.matching(change) {
		if err := h(ctx, change); err != nil {
			return fmt.Errorf("handler failed for %s change on %s: %w", change.Table, change.TripID, err)
		}
	}
	return nil
}

// Subscribers returns the number of handlers registered for tripID.
func (b *Bus) Subscribers(tripID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[tripID])
}
