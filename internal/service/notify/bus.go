// Package notify fans simulator output out to in-process subscribers.
//
// Delivery is synchronous and ordered: callbacks run on the publisher's
// goroutine, in registration order, once per emission while subscribed.
// There is no queueing and no retry.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seu-repo/vending-fleet/internal/domain"
)

type UpdateKind string

const (
	UpdateTransaction UpdateKind = "transaction"
	UpdateSystemEvent UpdateKind = "system_event"
)

// Update is the payload for generic "something changed" subscribers.
type Update struct {
	Kind      UpdateKind `json:"kind"`
	MachineID string     `json:"machine_id"`
	At        time.Time  `json:"at"`
}

// Unsubscribe removes a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

type subscriber[T any] struct {
	id uuid.UUID
	fn func(T)
}

type registry[T any] struct {
	mu   sync.Mutex
	subs []subscriber[T]
}

func (r *registry[T]) add(fn func(T)) Unsubscribe {
	id := uuid.New()

	r.mu.Lock()
	r.subs = append(r.subs, subscriber[T]{id: id, fn: fn})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *registry[T]) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return
		}
	}
}

func (r *registry[T]) publish(v T) {
	r.mu.Lock()
	subs := make([]subscriber[T], len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Bus holds the three subscriber registries.
type Bus struct {
	transactions registry[domain.Transaction]
	events       registry[domain.SystemEvent]
	updates      registry[Update]
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) OnTransaction(fn func(domain.Transaction)) Unsubscribe {
	return b.transactions.add(fn)
}

func (b *Bus) OnSystemEvent(fn func(domain.SystemEvent)) Unsubscribe {
	return b.events.add(fn)
}

func (b *Bus) OnUpdate(fn func(Update)) Unsubscribe {
	return b.updates.add(fn)
}

func (b *Bus) PublishTransaction(tx domain.Transaction) {
	b.transactions.publish(tx)
}

func (b *Bus) PublishSystemEvent(ev domain.SystemEvent) {
	b.events.publish(ev)
}

func (b *Bus) PublishUpdate(u Update) {
	b.updates.publish(u)
}

// Subscribers reports the registry sizes (transactions, events, updates).
func (b *Bus) Subscribers() (int, int, int) {
	return b.transactions.len(), b.events.len(), b.updates.len()
}
