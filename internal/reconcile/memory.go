package reconcile

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Call records one Surface method invocation on a MemorySurface.
type Call struct {
	Op    string // "create", "remove", "attr", "move", "counter"
	ID    string
	Name  string
	Value string
	Kind  types.Kind
	Index int
}

func (c Call) String() string {
	switch c.Op {
	case "attr":
		return fmt.Sprintf("attr %s %s=%s", c.ID, c.Name, c.Value)
	case "move":
		return fmt.Sprintf("move %s %s[%d]", c.ID, c.Kind, c.Index)
	case "counter":
		return fmt.Sprintf("counter %s=%d", c.Kind, c.Index)
	default:
		return fmt.Sprintf("%s %s", c.Op, c.ID)
	}
}

// MemElement is the element type created by MemorySurface.
type MemElement struct {
	ID    string
	Kind  types.Kind
	Attrs map[string]string
}

// MemorySurface is a headless Surface that keeps per-kind containers in
// memory and records every call.
type MemorySurface struct {
	containers map[types.Kind][]*MemElement
	counters   map[types.Kind]int
	calls      []Call
}

// NewMemorySurface returns an empty MemorySurface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{
		containers: make(map[types.Kind][]*MemElement),
		counters:   make(map[types.Kind]int),
	}
}

func (m *MemorySurface) CreateElement(it types.Item) Handle {
	el := &MemElement{ID: it.ID, Kind: it.Kind, Attrs: map[string]string{
		AttrColor: it.Color,
		AttrKind:  string(it.Kind),
	}}
	for k, v := range it.Fields {
		el.Attrs[k] = v
	}
	m.containers[it.Kind] = append(m.containers[it.Kind], el)
	m.calls = append(m.calls, Call{Op: "create", ID: it.ID, Kind: it.Kind})
	return el
}

func (m *MemorySurface) RemoveElement(h Handle) {
	el := h.(*MemElement)
	m.detach(el)
	m.calls = append(m.calls, Call{Op: "remove", ID: el.ID, Kind: el.Kind})
}

func (m *MemorySurface) SetAttr(h Handle, name, value string) {
	el := h.(*MemElement)
	el.Attrs[name] = value
	m.calls = append(m.calls, Call{Op: "attr", ID: el.ID, Name: name, Value: value})
}

func (m *MemorySurface) MoveElement(h Handle, kind types.Kind, index int) {
	el := h.(*MemElement)
	m.detach(el)
	el.Kind = kind
	c := m.containers[kind]
	m.containers[kind] = slices.Insert(c, min(index, len(c)), el)
	m.calls = append(m.calls, Call{Op: "move", ID: el.ID, Kind: kind, Index: index})
}

func (m *MemorySurface) SetCounter(kind types.Kind, count int) {
	m.counters[kind] = count
	m.calls = append(m.calls, Call{Op: "counter", Kind: kind, Index: count})
}

func (m *MemorySurface) detach(el *MemElement) {
	c := m.containers[el.Kind]
	if i := slices.Index(c, el); i >= 0 {
		m.containers[el.Kind] = slices.Delete(c, i, i+1)
	}
}

// Calls returns the recorded calls since the last Reset.
func (m *MemorySurface) Calls() []Call {
	return slices.Clone(m.calls)
}

// Reset clears the call log; rendered state is kept.
func (m *MemorySurface) Reset() {
	m.calls = nil
}

// IDs returns the element IDs in kind's container, in order.
func (m *MemorySurface) IDs(kind types.Kind) []string {
	var ids []string
	for _, el := range m.containers[kind] {
		ids = append(ids, el.ID)
	}
	return ids
}

// Element returns the rendered element for id.
func (m *MemorySurface) Element(id string) (*MemElement, bool) {
	for _, c := range m.containers {
		for _, el := range c {
			if el.ID == id {
				return el, true
			}
		}
	}
	return nil, false
}

// Len returns the number of rendered elements.
func (m *MemorySurface) Len() int {
	n := 0
	for _, c := range m.containers {
		n += len(c)
	}
	return n
}

// Counter returns the last count written for kind.
func (m *MemorySurface) Counter(kind types.Kind) int {
	return m.counters[kind]
}
