package types

// Collection is the ordered sequence of Items owned by a store. It is
// partitioned by Kind; within a group, position follows slice order.
type Collection []Item

// Clone returns a deep copy. Subscribers receive clones so they cannot
// reach the store's own state.
func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	out := make(Collection, len(c))
	for i, it := range c {
		out[i] = it.Clone()
	}
	return out
}

// Index returns the position of the item with the given ID, or -1.
func (c Collection) Index(id string) int {
	for i, it := range c {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the item with the given ID and whether it was found.
func (c Collection) Get(id string) (Item, bool) {
	i := c.Index(id)
	if i < 0 {
		return Item{}, false
	}
	return c[i], true
}

// Group returns the items of one kind in collection order.
func (c Collection) Group(kind Kind) []Item {
	var out []Item
	for _, it := range c {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// Count returns the number of items of the given kind.
func (c Collection) Count(kind Kind) int {
	n := 0
	for _, it := range c {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

// IDs returns the item IDs in collection order.
func (c Collection) IDs() []string {
	ids := make([]string, len(c))
	for i, it := range c {
		ids[i] = it.ID
	}
	return ids
}

// Equal reports whether two collections hold equal items in the same order.
func (c Collection) Equal(other Collection) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if !c[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
