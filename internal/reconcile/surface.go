// Package reconcile keeps a rendering surface in step with a board
// collection by applying only the differences between renders.
package reconcile

import "github.com/mesh-intelligence/boards/pkg/types"

// Handle identifies a visual element owned by a Surface.
type Handle any

// Attribute names written through Surface.SetAttr. Text fields use their
// field name.
const (
	AttrColor = "color"
	AttrKind  = "kind"
)

// Surface is the rendering boundary. Implementations own the visual
// elements; the reconciler only calls these methods.
type Surface interface {
	// CreateElement creates and inserts an element for it at the end of
	// its kind's container, reflecting its attributes at insertion time.
	CreateElement(it types.Item) Handle

	// RemoveElement disposes of an element.
	RemoveElement(h Handle)

	// SetAttr updates one attribute of an element in place.
	SetAttr(h Handle, name, value string)

	// MoveElement places an element at index within kind's container.
	MoveElement(h Handle, kind types.Kind, index int)

	// SetCounter writes the derived item count for kind.
	SetCounter(kind types.Kind, count int)
}
