package service

import (
	"context"
	"errors"
	"sync"

	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

// AuthEventBus delivers auth-state changes to subscribers synchronously, in
// subscription order.
type AuthEventBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]ports.AuthEventHandler
	order    []int
}

// NewAuthEventBus returns an empty bus.
func NewAuthEventBus() *AuthEventBus {
	return &AuthEventBus{handlers: make(map[int]ports.AuthEventHandler)}
}

type subscription struct {
	bus  *AuthEventBus
	id   int
	once sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() { s.bus.remove(s.id) })
}

// Subscribe registers handler until the returned subscription is cancelled.
func (b *AuthEventBus) Subscribe(handler ports.AuthEventHandler) ports.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.order = append(b.order, id)
	return &subscription{bus: b, id: id}
}

// Publish runs every current handler and joins their errors.
func (b *AuthEventBus) Publish(ctx context.Context, event ports.AuthEvent) error {
	b.mu.RLock()
	handlers := make([]ports.AuthEventHandler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *AuthEventBus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}
