package services

import (
	"context"
	"sync"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
)

// LedgerObserver is told about every committed ledger mutation.
type LedgerObserver interface {
	OperationsChanged(ctx context.Context, event domain.ChangeEvent)
}

// Notifier fans change events out to explicitly subscribed observers.
type Notifier struct {
	mu        sync.RWMutex
	observers []LedgerObserver
}

// NewNotifier creates a notifier without subscribers.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer.
func (n *Notifier) Subscribe(o LedgerObserver) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, o)
}

// Publish delivers event to every observer synchronously, in subscription order.
func (n *Notifier) Publish(ctx context.Context, event domain.ChangeEvent) {
	n.mu.RLock()
	observers := append([]LedgerObserver(nil), n.observers...)
	n.mu.RUnlock()

	for _, o := range observers {
		o.OperationsChanged(ctx, event)
	}
}
