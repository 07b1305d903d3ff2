// Package render draws a board in the terminal. TermSurface implements
// reconcile.Surface so the same reconciler that drives a headless surface
// drives the terminal view.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/boards/internal/palette"
	"github.com/mesh-intelligence/boards/internal/reconcile"
	"github.com/mesh-intelligence/boards/pkg/types"
)

const (
	cardWidth     = 38
	fallbackColor = "#dddddd"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Foreground(lipgloss.Color("#1a1a1a")).
			Padding(0, 1).
			Width(cardWidth)
	idStyle    = lipgloss.NewStyle().Faint(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
	columnGap  = lipgloss.NewStyle().PaddingRight(2)
)

// TermSurface keeps rendered elements in memory and draws them on demand.
type TermSurface struct {
	*reconcile.MemorySurface
	board types.Board
}

// NewTermSurface returns an empty surface for board.
func NewTermSurface(board types.Board) *TermSurface {
	return &TermSurface{MemorySurface: reconcile.NewMemorySurface(), board: board}
}

// Render writes the current view to w.
func (t *TermSurface) Render(w io.Writer) error {
	var out string
	if t.board.Ordered() {
		out = t.renderColumns()
	} else {
		out = t.renderShapes()
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func (t *TermSurface) renderColumns() string {
	cols := make([]string, 0, len(t.board.Kinds))
	for _, k := range t.board.Kinds {
		parts := []string{headerStyle.Render(fmt.Sprintf("%s (%d)", k, t.Counter(k)))}
		for _, id := range t.IDs(k) {
			el, _ := t.Element(id)
			parts = append(parts, t.renderCard(el))
		}
		cols = append(cols, columnGap.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (t *TermSurface) renderCard(el *reconcile.MemElement) string {
	lines := []string{idStyle.Render(el.ID)}
	for i, f := range t.board.Fields {
		v := el.Attrs[f]
		if i == 0 {
			v = titleStyle.Render(v)
		}
		lines = append(lines, v)
	}
	bg := palette.Hex(el.Attrs[reconcile.AttrColor], fallbackColor)
	return cardStyle.Background(lipgloss.Color(bg)).Render(strings.Join(lines, "\n"))
}

// shapeGlyphs maps shape kinds to the glyph drawn for them.
var shapeGlyphs = map[types.Kind]string{
	types.KindSquare: "■",
	types.KindCircle: "●",
}

func (t *TermSurface) renderShapes() string {
	var counts []string
	var rows []string
	for _, k := range t.board.Kinds {
		counts = append(counts, fmt.Sprintf("%s: %d", k, t.Counter(k)))
		for _, id := range t.IDs(k) {
			el, _ := t.Element(id)
			glyph, ok := shapeGlyphs[types.Kind(el.Attrs[reconcile.AttrKind])]
			if !ok {
				glyph = "?"
			}
			fg := palette.Hex(el.Attrs[reconcile.AttrColor], fallbackColor)
			rows = append(rows, lipgloss.NewStyle().Foreground(lipgloss.Color(fg)).Render(glyph)+" "+idStyle.Render(el.ID))
		}
	}
	header := headerStyle.Render(strings.Join(counts, "  "))
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, rows...)...)
}
