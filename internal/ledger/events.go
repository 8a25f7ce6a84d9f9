package ledger

import (
	"context"
	"time"

	"github.com/mmynk/settleup/internal/models"
)

// EventType names a ledger change.
type EventType string

const (
	EventDebtCreated EventType = "debt.created"
	EventDebtPaid    EventType = "debt.paid"
	EventDebtDeleted EventType = "debt.deleted"
)

// Event is emitted after a change has been committed.
type Event struct {
	Type EventType
	Debt models.DebtRecord
	At   time.Time
}

// Subscriber receives ledger events synchronously and must not block.
type Subscriber func(ctx context.Context, e Event)

// Subscribe registers fn for every future event.
func (l *Ledger) Subscribe(fn Subscriber) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

func (l *Ledger) emit(ctx context.Context, typ EventType, debt *models.DebtRecord) {
	l.mu.RLock()
	subs := l.subscribers
	l.mu.RUnlock()

	e := Event{Type: typ, Debt: *debt, At: l.clock()}
	for _, fn := range subs {
		fn(ctx, e)
	}
}
