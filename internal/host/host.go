// Package host wires a board together for one process: it opens the
// configured slot, hydrates a store from it, and subscribes renderers.
package host

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/boards/internal/persist"
	"github.com/mesh-intelligence/boards/internal/reconcile"
	"github.com/mesh-intelligence/boards/internal/store"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// Host owns the store and slot of one open board.
type Host struct {
	Store *store.Store

	slot   persist.Slot
	logger *zap.Logger
	unsubs []func()
}

// OpenSlot opens the slot for cfg.Backend rooted at cfg.DataDir.
func OpenSlot(cfg types.Config) (persist.Slot, error) {
	switch cfg.Backend {
	case types.BackendFile:
		slot, err := persist.NewFileSlot(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return slot, nil
	case types.BackendSQLite:
		slot, err := persist.OpenSQLiteSlot(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return slot, nil
	case types.BackendMemory:
		return persist.NewMemorySlot(), nil
	default:
		return nil, types.ErrBackendUnknown
	}
}

// Open validates cfg, opens its slot, and hydrates the board's store.
// An empty cfg.Board opens the task board. A nil logger discards logs.
func Open(cfg types.Config, logger *zap.Logger) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Board == "" {
		cfg.Board = types.BoardTasks
	}
	board, err := types.LookupBoard(cfg.Board)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	slot, err := OpenSlot(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s slot: %w", cfg.Backend, err)
	}
	return OpenWithSlot(board, slot, logger), nil
}

// OpenWithSlot hydrates board from an already open slot. The host takes
// ownership of slot.
func OpenWithSlot(board types.Board, slot persist.Slot, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("board", board.Name))
	adapter := persist.NewAdapter(slot, board, persist.WithLogger(logger))
	return &Host{
		Store:  store.New(adapter, store.WithLogger(logger)),
		slot:   slot,
		logger: logger,
	}
}

// Attach subscribes a reconciler drawing onto surface. The surface is
// rendered immediately with the current collection.
func (h *Host) Attach(surface reconcile.Surface, opts ...reconcile.Option) *reconcile.Reconciler {
	r := reconcile.New(h.Store.Board(), surface, opts...)
	h.unsubs = append(h.unsubs, h.Store.Subscribe(r.Reconcile))
	return r
}

// Close unsubscribes every attached reconciler and closes the slot.
func (h *Host) Close() error {
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
	return h.slot.Close()
}
