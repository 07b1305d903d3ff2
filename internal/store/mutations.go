package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/boards/internal/palette"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// Create adds an item of kind at the end of its group with a fresh ID and a
// random color. Text fields start from the board's initial values; initial
// overrides them. Returns ErrInvalidKind for an undeclared kind and
// ErrInvalidField for an undeclared field in initial.
func (s *Store) Create(kind types.Kind, initial map[string]string) (types.Item, error) {
	var created types.Item
	err := s.mutate("create", func() (bool, error) {
		if !s.board.HasKind(kind) {
			return false, fmt.Errorf("create %q: %w", kind, types.ErrInvalidKind)
		}
		for f := range initial {
			if !s.board.HasField(f) {
				return false, fmt.Errorf("create field %q: %w", f, types.ErrInvalidField)
			}
		}

		id := s.newID()
		for s.items.Index(id) >= 0 {
			id = s.newID()
		}
		it := types.Item{ID: id, Kind: kind, Color: palette.Random(s.rand)}
		if len(s.board.Fields) > 0 {
			it.Fields = make(map[string]string, len(s.board.Fields))
			for _, f := range s.board.Fields {
				v, ok := initial[f]
				if !ok {
					v = s.board.Initial[f]
				}
				it.Fields[f] = s.fieldValue(f, v)
			}
		}
		s.insertAtGroupEnd(it)
		created = it.Clone()
		return true, nil
	})
	return created, err
}

// Remove deletes the item with the given ID. A missing ID is a no-op.
func (s *Store) Remove(id string) error {
	return s.mutate("remove", func() (bool, error) {
		i := s.items.Index(id)
		if i < 0 {
			return false, nil
		}
		s.items = slices.Delete(s.items, i, i+1)
		return true, nil
	})
}

// Recolor assigns a new random color to every item matching sel. The batch
// is persisted once and notified once. No match is a no-op.
func (s *Store) Recolor(sel Selector) error {
	return s.mutate("recolor", func() (bool, error) {
		changed := false
		for i := range s.items {
			if sel == nil || sel(s.items[i]) {
				s.items[i].Color = palette.Random(s.rand)
				changed = true
			}
		}
		return changed, nil
	})
}

// MoveToGroup moves an item to the end of kind's group, keeping its other
// attributes. Returns ErrInvalidKind for an undeclared kind. A missing ID or
// a move to the item's current kind is a no-op.
func (s *Store) MoveToGroup(id string, kind types.Kind) error {
	return s.mutate("move", func() (bool, error) {
		if !s.board.HasKind(kind) {
			return false, fmt.Errorf("move to %q: %w", kind, types.ErrInvalidKind)
		}
		return s.moveLocked(id, kind), nil
	})
}

// Shift moves an item delta columns along the board's kind order, landing
// at the end of the destination group. Moving past either edge is a no-op.
func (s *Store) Shift(id string, delta int) error {
	return s.mutate("shift", func() (bool, error) {
		it, ok := s.items.Get(id)
		if !ok {
			return false, nil
		}
		dest, ok := s.board.Neighbor(it.Kind, delta)
		if !ok {
			return false, nil
		}
		return s.moveLocked(id, dest), nil
	})
}

func (s *Store) moveLocked(id string, kind types.Kind) bool {
	i := s.items.Index(id)
	if i < 0 || s.items[i].Kind == kind {
		return false
	}
	it := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	it.Kind = kind
	s.insertAtGroupEnd(it)
	return true
}

// UpdateField sets a text field. A value that trims to empty is replaced by
// the board's placeholder for that field. Returns ErrInvalidField for an
// undeclared field. A missing ID or an unchanged value is a no-op.
func (s *Store) UpdateField(id, field, value string) error {
	return s.mutate("update", func() (bool, error) {
		if !s.board.HasField(field) {
			return false, fmt.Errorf("update field %q: %w", field, types.ErrInvalidField)
		}
		i := s.items.Index(id)
		if i < 0 {
			return false, nil
		}
		v := s.fieldValue(field, value)
		if s.items[i].Field(field) == v {
			return false, nil
		}
		if s.items[i].Fields == nil {
			s.items[i].Fields = make(map[string]string, len(s.board.Fields))
		}
		s.items[i].Fields[field] = v
		return true, nil
	})
}

// SortGroup stably reorders the items of one kind with cmp. A nil cmp
// compares the board's sort field case-insensitively. Returns
// ErrInvalidKind for an undeclared kind and ErrInvalidField when cmp is nil
// and the board has no sort field. An already sorted group is a no-op.
func (s *Store) SortGroup(kind types.Kind, cmp Comparator) error {
	return s.mutate("sort", func() (bool, error) {
		if !s.board.HasKind(kind) {
			return false, fmt.Errorf("sort %q: %w", kind, types.ErrInvalidKind)
		}
		if cmp == nil {
			if s.board.SortField == "" {
				return false, fmt.Errorf("sort %q: no sort field: %w", kind, types.ErrInvalidField)
			}
			cmp = ByField(s.board.SortField)
		}

		var positions []int
		var group []types.Item
		for i, it := range s.items {
			if it.Kind == kind {
				positions = append(positions, i)
				group = append(group, it)
			}
		}
		sorted := slices.Clone(group)
		slices.SortStableFunc(sorted, cmp)

		changed := false
		for j, pos := range positions {
			if sorted[j].ID != group[j].ID {
				changed = true
			}
			s.items[pos] = sorted[j]
		}
		return changed, nil
	})
}

// fieldValue substitutes the placeholder for empty text.
func (s *Store) fieldValue(field, value string) string {
	if strings.TrimSpace(value) == "" {
		return s.board.Placeholders[field]
	}
	return value
}
