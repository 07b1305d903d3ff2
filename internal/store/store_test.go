package store

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/boards/internal/persist"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// fixture bundles a store with the memory slot behind it.
type fixture struct {
	store   *Store
	slot    *persist.MemorySlot
	adapter *persist.Adapter
}

func newFixture(t *testing.T, board types.Board, opts ...Option) fixture {
	t.Helper()
	slot := persist.NewMemorySlot()
	adapter := persist.NewAdapter(slot, board)
	n := 0
	opts = append([]Option{
		WithRand(rand.New(rand.NewPCG(1, 1))),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	}, opts...)
	return fixture{store: New(adapter, opts...), slot: slot, adapter: adapter}
}

func titles(items []types.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Field(types.FieldTitle)
	}
	return out
}

func TestCreateAndCountByKind(t *testing.T) {
	f := newFixture(t, types.ShapesBoard())

	_, err := f.store.Create(types.KindSquare, nil)
	require.NoError(t, err)
	_, err = f.store.Create(types.KindCircle, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, f.store.CountByKind(types.KindSquare))
	assert.Equal(t, 1, f.store.CountByKind(types.KindCircle))
	assert.Equal(t, 0, f.store.CountByKind("triangle"))
	assert.Equal(t, 2, f.slot.Writes())
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name      string
		kind      types.Kind
		initial   map[string]string
		wantErr   error
		wantTitle string
		wantBody  string
	}{
		{
			name:      "defaults from board",
			kind:      types.KindTodo,
			wantTitle: "Task title",
			wantBody:  "Task description",
		},
		{
			name:      "initial overrides defaults",
			kind:      types.KindDone,
			initial:   map[string]string{types.FieldTitle: "T"},
			wantTitle: "T",
			wantBody:  "Task description",
		},
		{
			name:      "blank initial value gets placeholder",
			kind:      types.KindTodo,
			initial:   map[string]string{types.FieldTitle: "   "},
			wantTitle: "Untitled",
			wantBody:  "Task description",
		},
		{
			name:    "undeclared kind",
			kind:    "archive",
			wantErr: types.ErrInvalidKind,
		},
		{
			name:    "undeclared field",
			kind:    types.KindTodo,
			initial: map[string]string{"priority": "high"},
			wantErr: types.ErrInvalidField,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, types.TasksBoard())

			it, err := f.store.Create(tt.kind, tt.initial)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, it.ID)
				assert.Empty(t, f.store.Items())
				assert.Zero(t, f.slot.Writes())
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, it.ID)
			assert.Equal(t, tt.kind, it.Kind)
			assert.Regexp(t, `^hsl\(\d+, 70%, 80%\)$`, it.Color)
			assert.Equal(t, tt.wantTitle, it.Field(types.FieldTitle))
			assert.Equal(t, tt.wantBody, it.Field(types.FieldContent))
		})
	}
}

func TestCreateAppendsToEndOfGroup(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	s := f.store

	mustCreate := func(kind types.Kind, title string) {
		_, err := s.Create(kind, map[string]string{types.FieldTitle: title})
		require.NoError(t, err)
	}
	mustCreate(types.KindDone, "d1")
	mustCreate(types.KindTodo, "t1")
	mustCreate(types.KindInProgress, "p1")
	mustCreate(types.KindTodo, "t2")

	assert.Equal(t, []string{"t1", "t2", "p1", "d1"}, titles(s.Items()))
	assert.Equal(t, []string{"t1", "t2"}, titles(s.Items().Group(types.KindTodo)))
}

func TestCreateDefaultIDsAreUUIDs(t *testing.T) {
	adapter := persist.NewAdapter(persist.NewMemorySlot(), types.ShapesBoard())
	s := New(adapter)

	a, err := s.Create(types.KindSquare, nil)
	require.NoError(t, err)
	b, err := s.Create(types.KindSquare, nil)
	require.NoError(t, err)

	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-`, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateRegeneratesCollidingID(t *testing.T) {
	ids := []string{"same", "same", "other"}
	f := newFixture(t, types.ShapesBoard(), WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	_, err := f.store.Create(types.KindSquare, nil)
	require.NoError(t, err)
	it, err := f.store.Create(types.KindSquare, nil)
	require.NoError(t, err)
	assert.Equal(t, "other", it.ID)
}

func TestRemove(t *testing.T) {
	f := newFixture(t, types.ShapesBoard())
	a, _ := f.store.Create(types.KindSquare, nil)
	b, _ := f.store.Create(types.KindCircle, nil)

	require.NoError(t, f.store.Remove(a.ID))
	assert.Equal(t, []string{b.ID}, f.store.Items().IDs())
	assert.True(t, f.store.Items().Equal(f.adapter.Load()))
}

func TestRemoveMissingIDIsSilentNoOp(t *testing.T) {
	f := newFixture(t, types.ShapesBoard())
	_, _ = f.store.Create(types.KindSquare, nil)
	before := f.store.Items()
	writes := f.slot.Writes()

	calls := 0
	unsub := f.store.Subscribe(func(types.Collection) { calls++ })
	defer unsub()

	require.NoError(t, f.store.Remove("nonexistent"))
	assert.Equal(t, before, f.store.Items())
	assert.Equal(t, writes, f.slot.Writes(), "no state change, no write")
	assert.Equal(t, 1, calls, "only the immediate subscribe call")
	assert.True(t, before.Equal(f.adapter.Load()), "snapshot still matches memory")
}

func TestRecolorBatch(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	s := f.store
	t1, _ := s.Create(types.KindTodo, nil)
	t2, _ := s.Create(types.KindTodo, nil)
	d1, _ := s.Create(types.KindDone, nil)
	writes := f.slot.Writes()

	var calls int
	unsub := s.Subscribe(func(types.Collection) { calls++ })
	defer unsub()

	require.NoError(t, s.Recolor(ByKind(types.KindTodo)))
	assert.Equal(t, writes+1, f.slot.Writes(), "one write for the batch")
	assert.Equal(t, 2, calls, "immediate call plus one notification")

	got, _ := s.Get(d1.ID)
	assert.Equal(t, d1.Color, got.Color, "other groups untouched")
	for _, id := range []string{t1.ID, t2.ID} {
		got, _ := s.Get(id)
		assert.Regexp(t, `^hsl\(\d+, 70%, 80%\)$`, got.Color)
	}
}

func TestRecolorWithoutMatchIsNoOp(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	_, _ = f.store.Create(types.KindTodo, nil)
	writes := f.slot.Writes()

	require.NoError(t, f.store.Recolor(ByKind(types.KindDone)))
	require.NoError(t, f.store.Recolor(ByID("missing")))
	assert.Equal(t, writes, f.slot.Writes())
}

func TestMoveToGroup(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	s := f.store
	a, _ := s.Create(types.KindTodo, map[string]string{types.FieldTitle: "a", types.FieldContent: "body"})
	_, _ = s.Create(types.KindDone, map[string]string{types.FieldTitle: "d"})

	require.NoError(t, s.MoveToGroup(a.ID, types.KindDone))

	assert.Equal(t, []string{"d", "a"}, titles(s.Items().Group(types.KindDone)), "appended at the end")
	moved, ok := s.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, a.Color, moved.Color)
	assert.Equal(t, "body", moved.Field(types.FieldContent))
	assert.Zero(t, s.CountByKind(types.KindTodo))
	assert.True(t, s.Items().Equal(f.adapter.Load()))
}

func TestMoveToGroupInvalidKind(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	a, _ := f.store.Create(types.KindTodo, nil)
	writes := f.slot.Writes()

	err := f.store.MoveToGroup(a.ID, "backlog")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidKind))
	assert.Equal(t, writes, f.slot.Writes())

	got, _ := f.store.Get(a.ID)
	assert.Equal(t, types.KindTodo, got.Kind)
}

func TestMoveToGroupNoOps(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	a, _ := f.store.Create(types.KindTodo, nil)
	writes := f.slot.Writes()

	require.NoError(t, f.store.MoveToGroup("missing", types.KindDone))
	require.NoError(t, f.store.MoveToGroup(a.ID, types.KindTodo))
	assert.Equal(t, writes, f.slot.Writes())
}

func TestShift(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	s := f.store
	a, _ := s.Create(types.KindTodo, nil)

	require.NoError(t, s.Shift(a.ID, -1), "left of the first column")
	got, _ := s.Get(a.ID)
	assert.Equal(t, types.KindTodo, got.Kind)

	require.NoError(t, s.Shift(a.ID, 1))
	got, _ = s.Get(a.ID)
	assert.Equal(t, types.KindInProgress, got.Kind)

	require.NoError(t, s.Shift(a.ID, 1))
	require.NoError(t, s.Shift(a.ID, 1), "right of the last column")
	got, _ = s.Get(a.ID)
	assert.Equal(t, types.KindDone, got.Kind)

	require.NoError(t, s.Shift("missing", 1))
}

func TestUpdateField(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	s := f.store
	it, err := s.Create(types.KindTodo, map[string]string{types.FieldTitle: "T"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateField(it.ID, types.FieldTitle, ""))
	got, _ := s.Get(it.ID)
	assert.Equal(t, "Untitled", got.Field(types.FieldTitle))

	require.NoError(t, s.UpdateField(it.ID, types.FieldContent, " \t\n"))
	got, _ = s.Get(it.ID)
	assert.Equal(t, "No description", got.Field(types.FieldContent))

	require.NoError(t, s.UpdateField(it.ID, types.FieldTitle, "Write docs"))
	got, _ = s.Get(it.ID)
	assert.Equal(t, "Write docs", got.Field(types.FieldTitle))
	assert.True(t, s.Items().Equal(f.adapter.Load()))
}

func TestUpdateFieldErrorsAndNoOps(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	it, _ := f.store.Create(types.KindTodo, map[string]string{types.FieldTitle: "T"})
	writes := f.slot.Writes()

	err := f.store.UpdateField(it.ID, "color", "red")
	assert.ErrorIs(t, err, types.ErrInvalidField)

	require.NoError(t, f.store.UpdateField("missing", types.FieldTitle, "x"))
	require.NoError(t, f.store.UpdateField(it.ID, types.FieldTitle, "T"), "unchanged value")
	assert.Equal(t, writes, f.slot.Writes())
}

func TestSortGroup(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	s := f.store
	for _, title := range []string{"banana", "Apple"} {
		_, err := s.Create(types.KindTodo, map[string]string{types.FieldTitle: title})
		require.NoError(t, err)
	}
	_, _ = s.Create(types.KindDone, map[string]string{types.FieldTitle: "Zed"})
	_, _ = s.Create(types.KindDone, map[string]string{types.FieldTitle: "alpha"})

	require.NoError(t, s.SortGroup(types.KindTodo, nil))

	assert.Equal(t, []string{"Apple", "banana"}, titles(s.Items().Group(types.KindTodo)))
	assert.Equal(t, []string{"Zed", "alpha"}, titles(s.Items().Group(types.KindDone)), "other groups untouched")
	assert.True(t, s.Items().Equal(f.adapter.Load()))
}

func TestSortGroupIsStable(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	s := f.store
	first, _ := s.Create(types.KindTodo, map[string]string{types.FieldTitle: "same"})
	_, _ = s.Create(types.KindTodo, map[string]string{types.FieldTitle: "Aardvark"})
	second, _ := s.Create(types.KindTodo, map[string]string{types.FieldTitle: "SAME"})

	require.NoError(t, s.SortGroup(types.KindTodo, nil))

	ids := s.Items().IDs()
	assert.Equal(t, []string{first.ID, second.ID}, ids[1:])
}

func TestSortGroupCustomComparatorAndNoOp(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	s := f.store
	_, _ = s.Create(types.KindTodo, map[string]string{types.FieldTitle: "a", types.FieldContent: "2"})
	_, _ = s.Create(types.KindTodo, map[string]string{types.FieldTitle: "b", types.FieldContent: "1"})

	writes := f.slot.Writes()
	require.NoError(t, s.SortGroup(types.KindTodo, nil), "already sorted by title")
	assert.Equal(t, writes, f.slot.Writes())

	require.NoError(t, s.SortGroup(types.KindTodo, ByField(types.FieldContent)))
	assert.Equal(t, []string{"b", "a"}, titles(s.Items()))
	assert.Equal(t, writes+1, f.slot.Writes())
}

func TestSortGroupErrors(t *testing.T) {
	tasks := newFixture(t, types.TasksBoard())
	assert.ErrorIs(t, tasks.store.SortGroup("archive", nil), types.ErrInvalidKind)

	shapes := newFixture(t, types.ShapesBoard())
	assert.ErrorIs(t, shapes.store.SortGroup(types.KindSquare, nil), types.ErrInvalidField)
}

func TestHydrateFromSnapshot(t *testing.T) {
	slot := persist.NewMemorySlot()
	board := types.TasksBoard()
	first := New(persist.NewAdapter(slot, board))
	a, _ := first.Create(types.KindDone, map[string]string{types.FieldTitle: "done"})
	b, _ := first.Create(types.KindTodo, map[string]string{types.FieldTitle: "todo"})

	second := New(persist.NewAdapter(slot, board))
	assert.Equal(t, []string{b.ID, a.ID}, second.Items().IDs())
	assert.True(t, first.Items().Equal(second.Items()))
}

func TestItemsReturnsCopy(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	it, _ := f.store.Create(types.KindTodo, map[string]string{types.FieldTitle: "T"})

	items := f.store.Items()
	items[0].Fields[types.FieldTitle] = "hacked"
	items[0].Color = "black"

	got, _ := f.store.Get(it.ID)
	assert.Equal(t, "T", got.Field(types.FieldTitle))
	assert.Equal(t, it.Color, got.Color)
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := newFixture(t, types.ShapesBoard(), WithLogger(zap.New(core)))
	f.slot.FailWrites = errors.New("storage full")

	var seen types.Collection
	unsub := f.store.Subscribe(func(c types.Collection) { seen = c })
	defer unsub()

	it, err := f.store.Create(types.KindCircle, nil)
	require.ErrorIs(t, err, types.ErrPersistenceUnavailable)
	assert.NotEmpty(t, it.ID, "item is returned even though the write failed")
	assert.Equal(t, 1, f.store.CountByKind(types.KindCircle))
	assert.Equal(t, []string{it.ID}, seen.IDs(), "subscribers still notified")
	assert.ErrorIs(t, f.store.LastPersistErr(), types.ErrPersistenceUnavailable)
	assert.Equal(t, 1, logs.FilterMessage("persist failed, keeping in-memory state").Len())

	f.slot.FailWrites = nil
	require.NoError(t, f.store.Recolor(All()))
	assert.NoError(t, f.store.LastPersistErr())
	assert.True(t, f.store.Items().Equal(f.adapter.Load()))
}

// TestInvariantsUnderRandomOperations drives create/remove/move sequences
// and checks ID uniqueness, counts, and write-through after every step.
func TestInvariantsUnderRandomOperations(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	f := newFixture(t, types.TasksBoard())
	s := f.store
	board := s.Board()

	for step := range 300 {
		items := s.Items()
		switch op := r.IntN(4); {
		case op == 0 || len(items) == 0:
			_, err := s.Create(board.Kinds[r.IntN(len(board.Kinds))], nil)
			require.NoError(t, err)
		case op == 1:
			require.NoError(t, s.Remove(items[r.IntN(len(items))].ID))
		case op == 2:
			id := items[r.IntN(len(items))].ID
			require.NoError(t, s.MoveToGroup(id, board.Kinds[r.IntN(len(board.Kinds))]))
		default:
			require.NoError(t, s.Remove(fmt.Sprintf("ghost-%d", step)))
		}

		items = s.Items()
		seen := map[string]bool{}
		for _, it := range items {
			require.False(t, seen[it.ID], "duplicate id %s at step %d", it.ID, step)
			seen[it.ID] = true
		}
		for _, k := range board.Kinds {
			require.Equal(t, len(items.Group(k)), s.CountByKind(k))
		}
		require.True(t, items.Equal(f.adapter.Load()), "snapshot diverged at step %d", step)
	}
}
