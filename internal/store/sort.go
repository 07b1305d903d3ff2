package store

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Comparator orders two items like cmp.Compare.
type Comparator func(a, b types.Item) int

// ByField compares a text field case-insensitively using root-locale
// collation, so "Apple" sorts before "banana".
func ByField(field string) Comparator {
	c := collate.New(language.Und, collate.IgnoreCase)
	return func(a, b types.Item) int {
		return c.CompareString(a.Field(field), b.Field(field))
	}
}

// Selector picks the items a batch operation applies to.
type Selector func(types.Item) bool

// All selects every item.
func All() Selector {
	return func(types.Item) bool { return true }
}

// ByKind selects the items of one kind.
func ByKind(kind types.Kind) Selector {
	return func(it types.Item) bool { return it.Kind == kind }
}

// ByID selects a single item.
func ByID(id string) Selector {
	return func(it types.Item) bool { return it.ID == id }
}
