package store

import (
	"sync"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Subscriber receives a read-only copy of the collection.
type Subscriber func(types.Collection)

type subscription struct {
	fn     Subscriber
	mu     sync.Mutex
	active bool
}

// Subscribe registers fn. fn is called once immediately with the current
// collection and then once per completed mutation, in subscription order.
// The returned function deregisters fn; calling it again is a no-op.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	sub := &subscription{fn: fn, active: true}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	snap := s.items.Clone()
	s.mu.Unlock()

	sub.deliver(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.mu.Lock()
			sub.active = false
			sub.mu.Unlock()

			s.mu.Lock()
			defer s.mu.Unlock()
			for i, cur := range s.subs {
				if cur == sub {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// notify delivers snap to a copy of the registry taken under the store lock.
// Each subscriber gets its own clone so one cannot affect what the next
// one sees.
func (s *Store) notify(snap types.Collection, subs []*subscription) {
	for i, sub := range subs {
		c := snap
		if i < len(subs)-1 {
			c = snap.Clone()
		}
		sub.deliver(c)
	}
}

// deliver calls fn unless the subscription was cancelled, including by an
// earlier subscriber during the same notification.
func (sub *subscription) deliver(c types.Collection) {
	sub.mu.Lock()
	active := sub.active
	sub.mu.Unlock()
	if active {
		sub.fn(c)
	}
}
