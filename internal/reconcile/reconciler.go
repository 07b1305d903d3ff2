package reconcile

import (
	"slices"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// element is the reconciler's record of what a rendered element shows.
type element struct {
	handle Handle
	kind   types.Kind
	attrs  map[string]string
}

type moveOp struct {
	handle Handle
	kind   types.Kind
	index  int
}

// Reconciler renders successive collections onto a Surface. It is not safe
// for concurrent use; subscribe it to a single store.
type Reconciler struct {
	board    types.Board
	surface  Surface
	fx       Transitions
	elements map[string]*element
	groups   map[types.Kind][]string // rendered IDs per kind, in surface order
	counters map[types.Kind]int
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithTransitions installs presentation effects.
func WithTransitions(t Transitions) Option {
	return func(r *Reconciler) { r.fx = t }
}

// New returns a Reconciler for board drawing onto surface. Nothing is
// rendered until the first Reconcile.
func New(board types.Board, surface Surface, opts ...Option) *Reconciler {
	r := &Reconciler{
		board:    board,
		surface:  surface,
		elements: make(map[string]*element),
		groups:   make(map[types.Kind][]string),
		counters: make(map[types.Kind]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile brings the surface in line with c. An unchanged c makes no
// surface calls.
func (r *Reconciler) Reconcile(c types.Collection) {
	want := make(map[string]bool, len(c))
	for _, it := range c {
		want[it.ID] = true
	}

	r.removeStale(want)

	for _, it := range c {
		if el, ok := r.elements[it.ID]; ok {
			r.update(el, it)
			continue
		}
		r.insert(it)
	}

	if r.board.Ordered() {
		r.reorder(c)
	}
	r.writeCounters(c)
}

// Rendered returns the rendered IDs of kind in surface order.
func (r *Reconciler) Rendered(kind types.Kind) []string {
	return slices.Clone(r.groups[kind])
}

func (r *Reconciler) removeStale(want map[string]bool) {
	for _, k := range r.renderedKinds() {
		for _, id := range slices.Clone(r.groups[k]) {
			if want[id] {
				continue
			}
			el := r.elements[id]
			delete(r.elements, id)
			r.detach(k, id)
			h := el.handle
			r.fx.remove(h, func() { r.surface.RemoveElement(h) })
		}
	}
}

func (r *Reconciler) insert(it types.Item) {
	h := r.surface.CreateElement(it)
	r.elements[it.ID] = &element{handle: h, kind: it.Kind, attrs: r.attrsOf(it)}
	r.groups[it.Kind] = append(r.groups[it.Kind], it.ID)
	r.fx.insert(h)
}

// update writes only the attributes that differ. On grouped boards a kind
// change is a placement, handled by reorder.
func (r *Reconciler) update(el *element, it types.Item) {
	next := r.attrsOf(it)
	for _, name := range r.attrNames() {
		if v := next[name]; el.attrs[name] != v {
			r.surface.SetAttr(el.handle, name, v)
			el.attrs[name] = v
		}
	}
	if !r.board.Ordered() && el.kind != it.Kind {
		r.detach(el.kind, it.ID)
		el.kind = it.Kind
		r.groups[it.Kind] = append(r.groups[it.Kind], it.ID)
	}
}

// reorder moves elements so each group's surface order matches c.
// Elements that changed kind are first appended to their new group, which
// is where the store puts them; groups are then aligned index by index.
func (r *Reconciler) reorder(c types.Collection) {
	var ops []moveOp
	place := func(el *element, id string, kind types.Kind, index int) {
		r.detach(el.kind, id)
		el.kind = kind
		r.groups[kind] = slices.Insert(r.groups[kind], min(index, len(r.groups[kind])), id)
		ops = append(ops, moveOp{handle: el.handle, kind: kind, index: index})
	}

	for _, it := range c {
		el := r.elements[it.ID]
		if el.kind != it.Kind && r.board.HasKind(it.Kind) {
			place(el, it.ID, it.Kind, len(r.groups[it.Kind]))
		}
	}
	for _, k := range r.board.Kinds {
		for i, id := range idsOfKind(c, k) {
			if cur := r.groups[k]; i < len(cur) && cur[i] == id {
				continue
			}
			place(r.elements[id], id, k, i)
		}
	}
	if len(ops) == 0 {
		return
	}

	moved := make([]Handle, len(ops))
	for i, op := range ops {
		moved[i] = op.handle
	}
	r.fx.move(moved, func() {
		for _, op := range ops {
			r.surface.MoveElement(op.handle, op.kind, op.index)
		}
	})
}

func (r *Reconciler) writeCounters(c types.Collection) {
	for _, k := range r.board.Kinds {
		n := c.Count(k)
		if prev, ok := r.counters[k]; ok && prev == n {
			continue
		}
		r.counters[k] = n
		r.surface.SetCounter(k, n)
	}
}

func (r *Reconciler) detach(kind types.Kind, id string) {
	g := r.groups[kind]
	if i := slices.Index(g, id); i >= 0 {
		r.groups[kind] = slices.Delete(g, i, i+1)
	}
}

// renderedKinds lists declared kinds first, then any others present.
func (r *Reconciler) renderedKinds() []types.Kind {
	var extra []types.Kind
	for k := range r.groups {
		if !r.board.HasKind(k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return append(slices.Clone(r.board.Kinds), extra...)
}

func (r *Reconciler) attrNames() []string {
	names := append([]string{AttrColor}, r.board.Fields...)
	if !r.board.Ordered() {
		names = append(names, AttrKind)
	}
	return names
}

func (r *Reconciler) attrsOf(it types.Item) map[string]string {
	attrs := map[string]string{AttrColor: it.Color}
	for _, f := range r.board.Fields {
		attrs[f] = it.Field(f)
	}
	if !r.board.Ordered() {
		attrs[AttrKind] = string(it.Kind)
	}
	return attrs
}

func idsOfKind(c types.Collection, kind types.Kind) []string {
	var ids []string
	for _, it := range c {
		if it.Kind == kind {
			ids = append(ids, it.ID)
		}
	}
	return ids
}
