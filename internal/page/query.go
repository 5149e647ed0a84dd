// internal/page/query.go
package page

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
)

// Query returns the first element matching an XPath expression.
func (p *Page) Query(expr string) (*html.Node, error) {
	return dom.Query(p.doc, expr)
}

// QueryAll returns every element matching an XPath expression.
func (p *Page) QueryAll(expr string) ([]*html.Node, error) {
	return dom.QueryAll(p.doc, expr)
}

// ByID returns the element with the given id attribute.
func (p *Page) ByID(id string) (*html.Node, error) {
	return p.Query("//*[@id=" + dom.XPathLiteral(id) + "]")
}

// Lists returns every declared drop list in document order.
func (p *Page) Lists() []*html.Node {
	var lists []*html.Node
	dom.Walk(p.doc, func(n *html.Node) {
		if dragdrop.IsDropList(n) {
			lists = append(lists, n)
		}
	})
	return lists
}

// Order returns the identities of the drag items directly inside list, in
// order. Items are identified by id, falling back to their text.
func (p *Page) Order(list *html.Node) []string {
	var out []string
	for _, c := range dom.ElementChildren(list) {
		if dom.HasAttr(c, dragdrop.AttrItem) {
			out = append(out, ItemKey(c))
		}
	}
	return out
}

// Snapshot maps each drop list, keyed by dom.Describe, to its item order.
func (p *Page) Snapshot() map[string][]string {
	snap := make(map[string][]string)
	for _, l := range p.Lists() {
		snap[dom.Describe(l)] = p.Order(l)
	}
	return snap
}

// ItemKey is the identity used for an item in order listings.
func ItemKey(n *html.Node) string {
	if id := dom.Attr(n, "id"); id != "" {
		return id
	}
	return dom.Text(n)
}

// Render writes the document as HTML.
func (p *Page) Render(w io.Writer) error {
	if err := html.Render(w, p.doc); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	return nil
}

// String renders the document, for logs and test failures.
func (p *Page) String() string {
	var sb strings.Builder
	if err := p.Render(&sb); err != nil {
		return err.Error()
	}
	return sb.String()
}
