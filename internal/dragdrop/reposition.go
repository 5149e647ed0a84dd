// internal/dragdrop/reposition.go
package dragdrop

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
)

// reposition moves the item and placeholder to the slot under (x, y).
// Container transfer runs first, then sibling placement. The item's own
// subtree sits under the pointer and never counts as a target.
func (c *Controller) reposition(s *session, x, y float64) error {
	hits := outside(s.item, c.host.ElementsFromPoint(x, y))

	if list := firstMatching(hits, IsDropList); list != nil && list != s.sourceList {
		if err := c.transfer(s, list); err != nil {
			return err
		}
	}

	neighbor := firstMatching(hits, isNeighborCandidate)
	if neighbor == nil || neighbor == s.item {
		return nil
	}

	mid := c.host.BoundingRect(neighbor).MidY()
	if y >= mid {
		if IsDisabled(neighbor) && IsDisabled(c.adjacent(s, neighbor, true)) {
			return nil
		}
		return c.place(s, neighbor, dom.AfterEnd)
	}
	if IsDisabled(neighbor) && IsDisabled(c.adjacent(s, neighbor, false)) {
		return nil
	}
	return c.place(s, neighbor, dom.BeforeBegin)
}

// transfer moves the item to the top of another drop list.
func (c *Controller) transfer(s *session, list *html.Node) error {
	if dom.ElementChildCount(list) == 0 {
		if err := c.host.InsertAdjacent(list, dom.AfterBegin, s.placeholder); err != nil {
			return fmt.Errorf("failed to move placeholder into list %s: %w", dom.Describe(list), err)
		}
	}
	if err := c.host.InsertAdjacent(list, dom.AfterBegin, s.item); err != nil {
		return fmt.Errorf("failed to move item into list %s: %w", dom.Describe(list), err)
	}

	c.logger.Debug("Item transferred to list.",
		zap.String("session_id", s.id),
		zap.String("from", dom.Describe(s.sourceList)),
		zap.String("to", dom.Describe(list)),
	)
	s.scroll = c.scrollContextFor(s.item.Parent)
	s.sourceList = list
	return nil
}

// place inserts the placeholder and then the item next to neighbor. After
// the neighbor this yields [neighbor, item, placeholder]; before it,
// [placeholder, item, neighbor].
func (c *Controller) place(s *session, neighbor *html.Node, pos dom.Position) error {
	if err := c.host.InsertAdjacent(neighbor, pos, s.placeholder); err != nil {
		return fmt.Errorf("failed to place placeholder %s %s: %w", pos, dom.Describe(neighbor), err)
	}
	if err := c.host.InsertAdjacent(neighbor, pos, s.item); err != nil {
		return fmt.Errorf("failed to place item %s %s: %w", pos, dom.Describe(neighbor), err)
	}
	if list := ClosestList(s.item); list != nil {
		s.sourceList = list
	} else {
		s.sourceList = s.item.Parent
	}
	return nil
}

// outside drops every hit inside item, item included.
func outside(item *html.Node, hits []*html.Node) []*html.Node {
	out := hits[:0:0]
	for _, n := range hits {
		if !dom.Contains(item, n) {
			out = append(out, n)
		}
	}
	return out
}

// adjacent returns the element sibling of n in the given direction, skipping
// the session's own item and placeholder.
func (c *Controller) adjacent(s *session, n *html.Node, next bool) *html.Node {
	step := dom.PrevElementSibling
	if next {
		step = dom.NextElementSibling
	}
	for sib := step(n); sib != nil; sib = step(sib) {
		if sib == s.item || sib == s.placeholder {
			continue
		}
		return sib
	}
	return nil
}
