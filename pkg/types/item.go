package types

import "maps"

// Kind names the group an Item belongs to: a board column for cards or a
// geometric type for shapes.
type Kind string

// Item is one unit of board data tracked by the store.
type Item struct {
	ID     string            // UUID v7, generated on creation, never reused.
	Kind   Kind              // Group membership (one of the board's kinds).
	Color  string            // CSS color, e.g. "hsl(212, 70%, 80%)".
	Fields map[string]string // Kind-specific text fields keyed by field name.
}

// Field returns the value of a text field, or "" if the item has none.
func (it Item) Field(name string) string {
	if it.Fields == nil {
		return ""
	}
	return it.Fields[name]
}

// Clone returns a deep copy of the item. The Fields map of the copy is never
// shared with the original.
func (it Item) Clone() Item {
	out := it
	if it.Fields != nil {
		out.Fields = maps.Clone(it.Fields)
	}
	return out
}

// Equal reports whether two items carry the same identity and attributes.
// A nil Fields map equals an empty one.
func (it Item) Equal(other Item) bool {
	if it.ID != other.ID || it.Kind != other.Kind || it.Color != other.Color {
		return false
	}
	if len(it.Fields) != len(other.Fields) {
		return false
	}
	for k, v := range it.Fields {
		ov, ok := other.Fields[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
