// internal/dragdrop/interfaces.go
package dragdrop

import (
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
)

// Geometry answers layout questions about rendered elements.
type Geometry interface {
	// BoundingRect returns the border box in viewport coordinates. Elements
	// without a box report the zero Rect.
	BoundingRect(n *html.Node) dom.Rect
	ScrollMetrics(n *html.Node) dom.ScrollMetrics
	// SetScrollTop clamps v to the element's scrollable range.
	SetScrollTop(n *html.Node, v float64)
}

// Mutator changes the document structure.
type Mutator interface {
	InsertAdjacent(ref *html.Node, pos dom.Position, n *html.Node) error
	Remove(n *html.Node)
}

// HitTester lists the elements under a viewport point, topmost first.
type HitTester interface {
	ElementsFromPoint(x, y float64) []*html.Node
}

// Selection controls user text selection.
type Selection interface {
	ClearSelection()
	// SetSelectable toggles text selection for n and all of its descendants.
	SetSelectable(n *html.Node, selectable bool)
}

// Document exposes the two roots the scroll-parent walk stops at.
type Document interface {
	DocumentElement() *html.Node
	Body() *html.Node
}

// Host is every capability the controller consumes from its environment.
type Host interface {
	Geometry
	Mutator
	HitTester
	Selection
	Document
}
