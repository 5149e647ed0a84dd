// internal/dragdrop/session.go
package dragdrop

import (
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
)

// Marker attributes shared with the markup.
const (
	AttrItem     = "data-drag-item"
	AttrDisabled = "data-drag-disabled"
	AttrList     = "data-drag-list"
	AttrDragging = "data-dragging-item"
)

// Point is a viewport offset.
type Point struct {
	X, Y float64
}

// scrollContext is the nearest scrollable ancestor of the item's list and its
// rectangle, captured when the context was computed.
type scrollContext struct {
	element *html.Node
	rect    dom.Rect
}

// session is the state of one drag gesture. It only exists while a drag is active.
type session struct {
	id          string
	item        *html.Node
	sourceList  *html.Node
	placeholder *html.Node
	offset      Point
	scroll      scrollContext

	savedStyle string
	hadStyle   bool
	addedClass bool
}

// IsDraggable reports whether n can start a drag.
func IsDraggable(n *html.Node) bool {
	return dom.IsElement(n) && dom.HasAttr(n, AttrItem) && !dom.HasAttr(n, AttrDisabled)
}

// IsDisabled reports whether n is a drag item that may not move or be split from a disabled neighbor.
func IsDisabled(n *html.Node) bool {
	return dom.IsElement(n) && dom.HasAttr(n, AttrDisabled)
}

// IsDropList reports whether n is a declared drop container.
func IsDropList(n *html.Node) bool {
	return dom.IsElement(n) && dom.HasAttr(n, AttrList)
}

// ClosestList returns the nearest ancestor of n that is a drop list.
func ClosestList(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if IsDropList(p) {
			return p
		}
	}
	return nil
}

func isNeighborCandidate(n *html.Node) bool {
	return dom.IsElement(n) && dom.HasAttr(n, AttrItem) && !dom.HasAttr(n, AttrDragging)
}

func firstMatching(nodes []*html.Node, pred func(*html.Node) bool) *html.Node {
	for _, n := range nodes {
		if pred(n) {
			return n
		}
	}
	return nil
}
