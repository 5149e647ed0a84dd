// File: internal/dom/mutate.go
package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// Position names the four insertAdjacentElement slots relative to a reference element.
type Position int

const (
	// BeforeBegin inserts as the previous sibling of the reference.
	BeforeBegin Position = iota
	// AfterBegin inserts as the first child of the reference.
	AfterBegin
	// BeforeEnd inserts as the last child of the reference.
	BeforeEnd
	// AfterEnd inserts as the next sibling of the reference.
	AfterEnd
)

func (p Position) String() string {
	switch p {
	case BeforeBegin:
		return "beforebegin"
	case AfterBegin:
		return "afterbegin"
	case BeforeEnd:
		return "beforeend"
	case AfterEnd:
		return "afterend"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// InsertAdjacent moves n to pos relative to ref, detaching it from its current
// parent first. Sibling positions require ref to be attached.
func InsertAdjacent(ref *html.Node, pos Position, n *html.Node) error {
	if ref == nil || n == nil {
		return fmt.Errorf("insert adjacent: nil node")
	}
	if ref == n {
		return fmt.Errorf("insert adjacent: node cannot be its own reference")
	}
	if Contains(n, ref) {
		return fmt.Errorf("insert adjacent: reference is inside the inserted node")
	}
	if (pos == BeforeBegin || pos == AfterEnd) && ref.Parent == nil {
		return fmt.Errorf("insert adjacent %s: reference has no parent", pos)
	}

	Remove(n)

	switch pos {
	case BeforeBegin:
		ref.Parent.InsertBefore(n, ref)
	case AfterBegin:
		ref.InsertBefore(n, ref.FirstChild)
	case BeforeEnd:
		ref.AppendChild(n)
	case AfterEnd:
		ref.Parent.InsertBefore(n, ref.NextSibling)
	default:
		return fmt.Errorf("insert adjacent: unknown position %d", int(pos))
	}
	return nil
}

// Remove detaches n from its parent. Detached nodes are left untouched.
func Remove(n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}
