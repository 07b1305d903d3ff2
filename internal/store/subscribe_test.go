package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func TestSubscribeContract(t *testing.T) {
	f := newFixture(t, types.ShapesBoard())
	s := f.store
	_, _ = s.Create(types.KindSquare, nil)

	var order []string
	var firstSeen []types.Collection
	unsubA := s.Subscribe(func(c types.Collection) {
		order = append(order, "a")
		firstSeen = append(firstSeen, c)
	})
	unsubB := s.Subscribe(func(types.Collection) { order = append(order, "b") })

	require.Len(t, firstSeen, 1, "called immediately")
	assert.Equal(t, 1, len(firstSeen[0]), "with the current collection")
	assert.Equal(t, []string{"a", "b"}, order)

	_, _ = s.Create(types.KindCircle, nil)
	assert.Equal(t, []string{"a", "b", "a", "b"}, order, "once per mutation, in subscription order")
	assert.Len(t, firstSeen[1], 2)

	unsubA()
	unsubA()
	_, _ = s.Create(types.KindCircle, nil)
	assert.Equal(t, []string{"a", "b", "a", "b", "b"}, order, "no calls after unsubscribe")

	unsubB()
	_, _ = s.Create(types.KindCircle, nil)
	assert.Len(t, order, 5)
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	f := newFixture(t, types.ShapesBoard())
	s := f.store

	var unsubB func()
	calls := map[string]int{}
	unsubA := s.Subscribe(func(c types.Collection) {
		calls["a"]++
		if len(c) > 0 && unsubB != nil {
			unsubB()
		}
	})
	defer unsubA()
	unsubB = s.Subscribe(func(types.Collection) { calls["b"]++ })

	_, err := s.Create(types.KindSquare, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, calls["a"])
	assert.Equal(t, 1, calls["b"], "b was removed by a before its turn")
}

func TestSubscribeDuringNotification(t *testing.T) {
	f := newFixture(t, types.ShapesBoard())
	s := f.store

	lateCalls := 0
	subscribed := false
	unsub := s.Subscribe(func(c types.Collection) {
		if len(c) == 1 && !subscribed {
			subscribed = true
			s.Subscribe(func(types.Collection) { lateCalls++ })
		}
	})
	defer unsub()

	_, _ = s.Create(types.KindSquare, nil)
	assert.Equal(t, 1, lateCalls, "late subscriber gets only its immediate call")

	_, _ = s.Create(types.KindSquare, nil)
	assert.Equal(t, 2, lateCalls)
}

func TestSubscribersSeePersistedState(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	s := f.store

	checks := 0
	unsub := s.Subscribe(func(c types.Collection) {
		checks++
		assert.True(t, c.Equal(f.adapter.Load()), "snapshot written before notification")
	})
	defer unsub()

	it, _ := s.Create(types.KindTodo, nil)
	_ = s.UpdateField(it.ID, types.FieldTitle, "new")
	_ = s.Shift(it.ID, 1)
	_ = s.Remove(it.ID)
	assert.Equal(t, 5, checks)
}

func TestSubscribersCannotMutateStore(t *testing.T) {
	f := newFixture(t, types.TasksBoard())
	s := f.store

	unsubA := s.Subscribe(func(c types.Collection) {
		for i := range c {
			c[i].Fields[types.FieldTitle] = "mutated"
			c[i].Kind = types.KindDone
		}
	})
	defer unsubA()

	var seenByB string
	unsubB := s.Subscribe(func(c types.Collection) {
		if len(c) > 0 {
			seenByB = c[0].Field(types.FieldTitle)
		}
	})
	defer unsubB()

	it, _ := s.Create(types.KindTodo, map[string]string{types.FieldTitle: "T"})
	got, _ := s.Get(it.ID)
	assert.Equal(t, "T", got.Field(types.FieldTitle))
	assert.Equal(t, types.KindTodo, got.Kind)
	assert.Equal(t, "T", seenByB, "each subscriber gets its own copy")
}
