// internal/tui/canvas.go
package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/layout"
)

// cellKind classifies what a terminal cell shows.
type cellKind int

const (
	kindEmpty cellKind = iota
	kindList
	kindItem
	kindDisabled
	kindPlaceholder
	kindDragging
)

var fill = map[cellKind]rune{
	kindEmpty:       ' ',
	kindList:        '.',
	kindItem:        '=',
	kindDisabled:    '#',
	kindPlaceholder: '~',
	kindDragging:    '@',
}

type cell struct {
	kind cellKind
	r    rune
}

// Canvas is a layout tree rasterized onto a grid of terminal cells. Each cell
// covers cellWidth x cellHeight pixels and shows whatever is painted at its
// center.
type Canvas struct {
	cols, rows int
	cells      [][]cell
}

// Rasterize paints the boxes of tree back to front. Drop lists, items,
// placeholders and the dragged item are drawn; other boxes are transparent.
// Items carry their text on their first visible row.
func Rasterize(tree *layout.Tree, cols, rows int, cellWidth, cellHeight float64) *Canvas {
	c := &Canvas{cols: cols, rows: rows, cells: make([][]cell, rows)}
	for r := range c.cells {
		c.cells[r] = make([]cell, cols)
		for i := range c.cells[r] {
			c.cells[r][i] = cell{kind: kindEmpty, r: fill[kindEmpty]}
		}
	}
	if tree == nil || cellWidth <= 0 || cellHeight <= 0 {
		return c
	}

	for _, b := range tree.PaintOrder() {
		kind := classify(b.Node)
		if kind == kindEmpty {
			continue
		}
		visible := b.Rect.Intersect(b.Clip)
		if visible.Empty() {
			continue
		}
		c0, c1 := span(visible.X, visible.Right(), cellWidth, cols)
		r0, r1 := span(visible.Y, visible.Bottom(), cellHeight, rows)
		for r := r0; r < r1; r++ {
			for col := c0; col < c1; col++ {
				c.cells[r][col] = cell{kind: kind, r: fill[kind]}
			}
		}
		if kind != kindList && r0 < r1 {
			label := []rune(dom.Text(b.Node))
			for i := 0; i < len(label) && c0+i < c1; i++ {
				c.cells[r0][c0+i].r = label[i]
			}
		}
	}
	return c
}

// span converts a pixel range into the half-open range of cells whose centers
// fall inside it, clamped to [0, limit).
func span(from, to, size float64, limit int) (int, int) {
	lo := int(math.Ceil(from/size - 0.5))
	hi := int(math.Ceil(to/size - 0.5))
	if lo < 0 {
		lo = 0
	}
	if hi > limit {
		hi = limit
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func classify(n *html.Node) cellKind {
	switch {
	case !dom.IsElement(n):
		return kindEmpty
	case dom.HasAttr(n, dragdrop.AttrDragging):
		return kindDragging
	case dragdrop.IsDisabled(n):
		return kindDisabled
	case dom.HasAttr(n, dragdrop.AttrItem):
		return kindItem
	case dragdrop.IsDropList(n):
		return kindList
	case dragdrop.IsDropList(n.Parent):
		// Any other element directly inside a list is a placeholder.
		return kindPlaceholder
	}
	return kindEmpty
}

// Lines returns the canvas as plain text, one string per row.
func (c *Canvas) Lines() []string {
	out := make([]string, c.rows)
	for r, row := range c.cells {
		var sb strings.Builder
		for _, cl := range row {
			sb.WriteRune(cl.r)
		}
		out[r] = sb.String()
	}
	return out
}

// Render returns the canvas with runs of equal kind styled by st.
func (c *Canvas) Render(st Styles) string {
	lines := make([]string, c.rows)
	for r, row := range c.cells {
		var sb strings.Builder
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && row[i].kind == row[start].kind {
				continue
			}
			var run strings.Builder
			for _, cl := range row[start:i] {
				run.WriteRune(cl.r)
			}
			sb.WriteString(st.style(row[start].kind).Render(run.String()))
			start = i
		}
		lines[r] = sb.String()
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
