// Package store implements the board store: the single owner of a board's
// collection. Every mutation is written through to a Persister before
// subscribers are notified.
package store

import (
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Persister is the durable side of the store. persist.Adapter implements it.
type Persister interface {
	Board() types.Board
	Load() types.Collection
	Save(c types.Collection) error
}

// Store owns a board's collection. Operations on a missing ID are no-ops.
// An operation that does not change state neither persists nor notifies.
type Store struct {
	mu        sync.Mutex
	board     types.Board
	items     types.Collection
	persister Persister
	subs      []*subscription

	rand           *rand.Rand
	newID          func() string
	logger         *zap.Logger
	lastPersistErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRand sets the random source used for colors.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) { s.rand = r }
}

// WithIDGenerator replaces UUID v7 generation. Generated IDs must be unique.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New hydrates a Store from p. The collection starts empty when nothing has
// been persisted yet.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		board:     p.Board(),
		persister: p,
		newID:     generateUUID,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.normalize(p.Load())
	return s
}

// generateUUID generates a new UUID v7 for item IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// Board returns the board definition this store serves.
func (s *Store) Board() types.Board {
	return s.board
}

// Items returns a copy of the current collection.
func (s *Store) Items() types.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// Get returns a copy of the item with the given ID.
func (s *Store) Get(id string) (types.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items.Get(id)
	if !ok {
		return types.Item{}, false
	}
	return it.Clone(), true
}

// CountByKind returns the number of items of kind.
func (s *Store) CountByKind(kind types.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Count(kind)
}

// LastPersistErr returns the error of the most recent save, or nil if it
// succeeded.
func (s *Store) LastPersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPersistErr
}

// mutate runs fn under the lock. When fn reports a change the collection
// is saved, the lock is released, and subscribers are notified with a copy.
// A save error is returned after notification; the in-memory change stays.
func (s *Store) mutate(op string, fn func() (bool, error)) error {
	s.mu.Lock()
	changed, err := fn()
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}

	perr := s.persistLocked(op)
	snap := s.items.Clone()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	s.notify(snap, subs)
	return perr
}

func (s *Store) persistLocked(op string) error {
	err := s.persister.Save(s.items)
	s.lastPersistErr = err
	if err != nil {
		s.logger.Warn("persist failed, keeping in-memory state",
			zap.String("op", op),
			zap.String("board", s.board.Name),
			zap.Error(err))
	}
	return err
}

// normalize drops items that break the collection invariants and, for
// grouped boards, orders groups by column.
func (s *Store) normalize(c types.Collection) types.Collection {
	out := make(types.Collection, 0, len(c))
	seen := make(map[string]bool, len(c))
	for _, it := range c {
		if it.ID == "" || seen[it.ID] || !s.board.HasKind(it.Kind) {
			continue
		}
		seen[it.ID] = true
		out = append(out, it.Clone())
	}
	if s.board.Ordered() {
		slices.SortStableFunc(out, func(a, b types.Item) int {
			return s.board.KindIndex(a.Kind) - s.board.KindIndex(b.Kind)
		})
	}
	return out
}

// insertAtGroupEnd places it after the last item of its kind. Flat boards
// append.
func (s *Store) insertAtGroupEnd(it types.Item) {
	if !s.board.Ordered() {
		s.items = append(s.items, it)
		return
	}
	k := s.board.KindIndex(it.Kind)
	pos := len(s.items)
	for i, cur := range s.items {
		if s.board.KindIndex(cur.Kind) > k {
			pos = i
			break
		}
	}
	s.items = slices.Insert(s.items, pos, it)
}
