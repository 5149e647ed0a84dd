// internal/dragdrop/proxy.go
package dragdrop

import (
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
)

// newPlaceholder builds the element that holds the item's slot in the list.
func (c *Controller) newPlaceholder(itemRect dom.Rect) *html.Node {
	p := dom.NewElement("div")
	if c.opts.CloneClass != "" {
		dom.AddClass(p, c.opts.CloneClass)
	}
	dom.SetStyle(p, "min-height", dom.PX(itemRect.Height))
	dom.SetStyle(p, "width", "100%")
	return p
}

// pin lifts the item out of the flow and places it under the pointer at its
// pre-drag size.
func (c *Controller) pin(s *session, ev PointerEvent, itemRect dom.Rect) {
	item := s.item
	dom.SetStyle(item, "position", "fixed")
	c.follow(s, ev)
	dom.SetStyle(item, "min-width", dom.PX(itemRect.Width))
	dom.SetStyle(item, "min-height", dom.PX(itemRect.Height))
	if c.opts.DraggingClass != "" && !dom.HasClass(item, c.opts.DraggingClass) {
		dom.AddClass(item, c.opts.DraggingClass)
		s.addedClass = true
	}
	dom.SetAttr(item, AttrDragging, "")
}

// follow keeps the item at the same offset from the pointer.
func (c *Controller) follow(s *session, ev PointerEvent) {
	dom.SetStyle(s.item, "left", dom.PX(ev.X-s.offset.X))
	dom.SetStyle(s.item, "top", dom.PX(ev.Y-s.offset.Y))
}

// saveStyle records the inline style so unpin can put it back verbatim.
func saveStyle(s *session) {
	s.savedStyle = dom.Attr(s.item, "style")
	s.hadStyle = dom.HasAttr(s.item, "style")
}

// unpin clears every drag marker from the item and removes the placeholder.
func (c *Controller) unpin(s *session) {
	item := s.item
	c.host.SetSelectable(item, true)
	if s.hadStyle {
		dom.SetAttr(item, "style", s.savedStyle)
	} else {
		dom.RemoveAttr(item, "style")
	}
	if s.addedClass {
		dom.RemoveClass(item, c.opts.DraggingClass)
	}
	dom.RemoveAttr(item, AttrDragging)

	if s.placeholder != nil {
		c.host.Remove(s.placeholder)
	}
}
