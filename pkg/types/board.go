package types

import "slices"

// Layout selects how a board's collection is ordered and serialized.
const (
	// LayoutGrouped keeps items contiguous per kind in declared kind order.
	// Position within a group is significant.
	LayoutGrouped = "grouped"
	// LayoutFlat keeps items in insertion order; position is irrelevant.
	LayoutFlat = "flat"
)

// Board names. These are the values accepted by Config.Board.
const (
	BoardTasks  = "tasks"
	BoardShapes = "shapes"
)

// Task board kinds and fields.
const (
	KindTodo       Kind = "todo"
	KindInProgress Kind = "in-progress"
	KindDone       Kind = "done"

	FieldTitle   = "title"
	FieldContent = "content"
)

// Shape board kinds.
const (
	KindSquare Kind = "square"
	KindCircle Kind = "circle"
)

// Board describes one board instance: which kinds exist, which text fields
// items carry, and how the collection is laid out and persisted.
type Board struct {
	Name   string
	Key    string // persistence slot key
	Kinds  []Kind // declared kinds; order is the column order
	Layout string
	Fields []string

	// Initial holds field values assigned by Create.
	Initial map[string]string
	// Placeholders replace a field value that trims to empty.
	Placeholders map[string]string
	// SortField is the text field the default group sort compares.
	SortField string
}

// HasKind reports whether kind is declared by the board.
func (b Board) HasKind(kind Kind) bool {
	return slices.Contains(b.Kinds, kind)
}

// HasField reports whether field is declared by the board.
func (b Board) HasField(field string) bool {
	return slices.Contains(b.Fields, field)
}

// KindIndex returns the column position of kind, or -1.
func (b Board) KindIndex(kind Kind) int {
	return slices.Index(b.Kinds, kind)
}

// Neighbor returns the kind delta columns away from kind and true, or false
// when that column does not exist.
func (b Board) Neighbor(kind Kind, delta int) (Kind, bool) {
	i := b.KindIndex(kind)
	if i < 0 {
		return "", false
	}
	j := i + delta
	if j < 0 || j >= len(b.Kinds) {
		return "", false
	}
	return b.Kinds[j], true
}

// Ordered reports whether position within a group is significant.
func (b Board) Ordered() bool {
	return b.Layout == LayoutGrouped
}

// TasksBoard returns the task board: three ordered columns of cards with a
// title and a content field.
func TasksBoard() Board {
	return Board{
		Name:   BoardTasks,
		Key:    "kanbanState",
		Kinds:  []Kind{KindTodo, KindInProgress, KindDone},
		Layout: LayoutGrouped,
		Fields: []string{FieldTitle, FieldContent},
		Initial: map[string]string{
			FieldTitle:   "Task title",
			FieldContent: "Task description",
		},
		Placeholders: map[string]string{
			FieldTitle:   "Untitled",
			FieldContent: "No description",
		},
		SortField: FieldTitle,
	}
}

// ShapesBoard returns the shape board: a flat set of squares and circles.
func ShapesBoard() Board {
	return Board{
		Name:   BoardShapes,
		Key:    "shapes",
		Kinds:  []Kind{KindSquare, KindCircle},
		Layout: LayoutFlat,
	}
}

// LookupBoard returns the built-in board with the given name.
// Returns ErrBoardUnknown if no such board exists.
func LookupBoard(name string) (Board, error) {
	switch name {
	case BoardTasks:
		return TasksBoard(), nil
	case BoardShapes:
		return ShapesBoard(), nil
	default:
		return Board{}, ErrBoardUnknown
	}
}
