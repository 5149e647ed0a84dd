// internal/page/page.go
package page

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/layout"
)

var _ dragdrop.Host = (*Page)(nil)

// userSelect remembers an element's inline user-select before it was disabled.
type userSelect struct {
	value string
	set   bool
}

// Page is an in-memory document with layout, scrolling, hit-testing and a
// text selection. It implements dragdrop.Host. Layout is recomputed for
// every geometry query, so inline style edits made directly on nodes are
// always reflected. A Page is not safe for concurrent use.
type Page struct {
	logger *zap.Logger
	doc    *html.Node
	root   *html.Node
	body   *html.Node
	engine *layout.Engine
	scroll layout.ScrollOffsets

	selection []*html.Node
	saved     map[*html.Node]userSelect
}

// Load parses an HTML document and lays it out against a width x height viewport.
func Load(r io.Reader, width, height float64, logger *zap.Logger) (*Page, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}
	return New(doc, width, height, logger)
}

// LoadFile reads and parses the HTML file at path.
func LoadFile(path string, width, height float64, logger *zap.Logger) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture '%s': %w", path, err)
	}
	defer f.Close()
	return Load(f, width, height, logger)
}

// LoadString is Load for inline markup.
func LoadString(markup string, width, height float64, logger *zap.Logger) (*Page, error) {
	return Load(strings.NewReader(markup), width, height, logger)
}

// New wraps an already parsed document.
func New(doc *html.Node, width, height float64, logger *zap.Logger) (*Page, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("viewport must have a positive size, got %vx%v", width, height)
	}
	root := htmlquery.FindOne(doc, "/html")
	if root == nil {
		return nil, fmt.Errorf("document has no <html> element")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Page{
		logger: logger.Named("page"),
		doc:    doc,
		root:   root,
		body:   htmlquery.FindOne(doc, "/html/body"),
		engine: layout.NewEngine(width, height),
		scroll: make(layout.ScrollOffsets),
		saved:  make(map[*html.Node]userSelect),
	}, nil
}

// Document is the parsed document node.
func (p *Page) Document() *html.Node { return p.doc }

func (p *Page) DocumentElement() *html.Node { return p.root }

func (p *Page) Body() *html.Node {
	if p.body == nil {
		return p.root
	}
	return p.body
}

// Viewport is the visible area in CSS pixels.
func (p *Page) Viewport() dom.Rect { return p.engine.Viewport() }

// Resize changes the viewport. Scroll offsets are clamped on the next layout.
func (p *Page) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	p.engine = layout.NewEngine(width, height)
}

// Layout computes the current layout tree.
func (p *Page) Layout() *layout.Tree {
	return p.engine.Layout(p.root, p.scroll)
}

// -- Geometry --

func (p *Page) BoundingRect(n *html.Node) dom.Rect {
	if b := p.Layout().Find(n); b != nil {
		return b.Rect
	}
	return dom.Rect{}
}

func (p *Page) ScrollMetrics(n *html.Node) dom.ScrollMetrics {
	if b := p.Layout().Find(n); b != nil {
		return b.Scroll
	}
	return dom.ScrollMetrics{}
}

func (p *Page) SetScrollTop(n *html.Node, v float64) {
	b := p.Layout().Find(n)
	if b == nil {
		return
	}
	maxTop := b.Scroll.MaxTop()
	switch {
	case v < 0:
		v = 0
	case v > maxTop:
		v = maxTop
	}
	if v == 0 {
		delete(p.scroll, n)
		return
	}
	p.scroll[n] = v
}

// ScrollTop is the stored scroll offset of n.
func (p *Page) ScrollTop(n *html.Node) float64 { return p.scroll[n] }

// -- Mutation --

func (p *Page) InsertAdjacent(ref *html.Node, pos dom.Position, n *html.Node) error {
	return dom.InsertAdjacent(ref, pos, n)
}

func (p *Page) Remove(n *html.Node) {
	dom.Remove(n)
	delete(p.scroll, n)
}

// -- Hit-testing --

func (p *Page) ElementsFromPoint(x, y float64) []*html.Node {
	return p.Layout().ElementsFromPoint(x, y)
}

// -- Selection --

// Select replaces the selection with the given nodes.
func (p *Page) Select(nodes ...*html.Node) {
	p.selection = append(p.selection[:0], nodes...)
}

// SelectedText is the text content of the selected nodes, space separated.
func (p *Page) SelectedText() string {
	parts := make([]string, 0, len(p.selection))
	for _, n := range p.selection {
		if t := dom.Text(n); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func (p *Page) ClearSelection() {
	if len(p.selection) > 0 {
		p.logger.Debug("Selection cleared.", zap.Int("ranges", len(p.selection)))
	}
	p.selection = nil
}

// SetSelectable toggles user-select on n and its descendants. Re-enabling
// restores each element's previous inline value.
func (p *Page) SetSelectable(n *html.Node, selectable bool) {
	dom.Walk(n, func(el *html.Node) {
		if !selectable {
			if _, ok := p.saved[el]; !ok {
				st := dom.StyleOf(el)
				v := st.Get("user-select")
				p.saved[el] = userSelect{value: v, set: v != ""}
			}
			dom.SetStyle(el, "user-select", "none")
			return
		}
		prev, ok := p.saved[el]
		if !ok {
			return
		}
		delete(p.saved, el)
		if prev.set {
			dom.SetStyle(el, "user-select", prev.value)
		} else {
			dom.RemoveStyle(el, "user-select")
		}
	})
}

// Selectable reports whether text in n can be selected.
func (p *Page) Selectable(n *html.Node) bool {
	return dom.GetStyle(n, "user-select") != "none"
}
