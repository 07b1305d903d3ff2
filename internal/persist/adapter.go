package persist

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Adapter writes a board's collection through to a Slot and hydrates it at
// startup.
type Adapter struct {
	slot   Slot
	board  types.Board
	codec  codec
	logger *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for load warnings.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdapter returns an Adapter that stores board under board.Key in slot.
func NewAdapter(slot Slot, board types.Board, opts ...Option) *Adapter {
	a := &Adapter{
		slot:   slot,
		board:  board,
		codec:  codecFor(board),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Board returns the board this adapter persists.
func (a *Adapter) Board() types.Board {
	return a.board
}

// Save serializes the full collection and writes it to the slot.
// Failures wrap types.ErrPersistenceUnavailable.
func (a *Adapter) Save(c types.Collection) error {
	data, err := a.codec.encode(a.board, c)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", types.ErrPersistenceUnavailable, a.board.Key, err)
	}
	if err := a.slot.Write(a.board.Key, data); err != nil {
		return fmt.Errorf("%w: %w", types.ErrPersistenceUnavailable, err)
	}
	return nil
}

// Load reads the slot and returns the persisted collection. An absent slot
// yields an empty collection. An unreadable slot or malformed snapshot also
// yields an empty collection and logs a warning. Records with an empty or
// duplicate ID or an undeclared kind are dropped with a warning.
func (a *Adapter) Load() types.Collection {
	log := a.logger.With(zap.String("board", a.board.Name), zap.String("key", a.board.Key))

	data, err := a.slot.Read(a.board.Key)
	if err != nil {
		if !errors.Is(err, types.ErrSlotEmpty) {
			log.Warn("slot unreadable, starting empty",
				zap.Error(fmt.Errorf("%w: %w", types.ErrPersistenceUnavailable, err)))
		}
		return types.Collection{}
	}
	if strings.TrimSpace(string(data)) == "" {
		return types.Collection{}
	}

	items, skipped, err := a.codec.decode(a.board, data)
	if err != nil {
		log.Warn("snapshot malformed, starting empty", zap.Error(err))
		return types.Collection{}
	}
	for _, e := range skipped {
		log.Warn("skipping malformed record", zap.Error(e))
	}
	return a.sanitize(items, log)
}

// sanitize enforces the collection invariants on loaded data and fills
// empty text fields with their placeholders.
func (a *Adapter) sanitize(items types.Collection, log *zap.Logger) types.Collection {
	out := make(types.Collection, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		switch {
		case it.ID == "":
			log.Warn("dropping record without id", zap.String("kind", string(it.Kind)))
			continue
		case seen[it.ID]:
			log.Warn("dropping duplicate id", zap.String("id", it.ID))
			continue
		case !a.board.HasKind(it.Kind):
			log.Warn("dropping record with undeclared kind",
				zap.String("id", it.ID), zap.String("kind", string(it.Kind)))
			continue
		}
		for f, v := range it.Fields {
			if strings.TrimSpace(v) == "" {
				it.Fields[f] = a.board.Placeholders[f]
			}
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}
