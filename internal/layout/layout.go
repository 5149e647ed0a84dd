// internal/layout/layout.go
package layout

import (
	"math"
	"strings"

	"github.com/xkilldash9x/dragsort/internal/dom"
	"golang.org/x/net/html"
)

// -- Constants and Configuration --

const (
	BaseFontSize      = 16.0 // Default root font size.
	DefaultLineHeight = 1.2  // Default multiplier for 'line-height: normal'.
)

// LineHeight is the height given to a leaf element that only holds text.
func LineHeight() float64 {
	return BaseFontSize * DefaultLineHeight
}

// ScrollState supplies the current scroll offset of scroll containers.
type ScrollState interface {
	ScrollTop(n *html.Node) float64
}

// ScrollOffsets is the simplest ScrollState, keyed by element.
type ScrollOffsets map[*html.Node]float64

func (s ScrollOffsets) ScrollTop(n *html.Node) float64 { return s[n] }

// -- Layout Tree --

// Box is a node in the layout tree. Geometry is in viewport coordinates with
// the scroll offsets of every scrolling ancestor already applied.
type Box struct {
	Node     *html.Node
	Rect     dom.Rect
	Clip     dom.Rect
	Fixed    bool
	Scroller bool
	Scroll   dom.ScrollMetrics
	Parent   *Box
	Children []*Box
}

// Visible reports whether any part of the box survives clipping.
func (b *Box) Visible() bool {
	return !b.Rect.Intersect(b.Clip).Empty()
}

// Tree is the result of one layout pass.
type Tree struct {
	Root     *Box
	Viewport dom.Rect
	index    map[*html.Node]*Box
}

// Find returns the box generated for n, or nil when n is detached or not rendered.
func (t *Tree) Find(n *html.Node) *Box {
	if t == nil {
		return nil
	}
	return t.index[n]
}

// ElementsFromPoint returns every element whose visible box contains (x, y),
// topmost first. Fixed boxes paint above the normal flow; within a layer later
// and deeper boxes paint above earlier ones.
func (t *Tree) ElementsFromPoint(x, y float64) []*html.Node {
	if t == nil || t.Root == nil {
		return nil
	}
	var flow, fixed []*html.Node
	var visit func(b *Box, inFixed bool)
	visit = func(b *Box, inFixed bool) {
		inFixed = inFixed || b.Fixed
		if b.Rect.Contains(x, y) && b.Clip.Contains(x, y) {
			if inFixed {
				fixed = append(fixed, b.Node)
			} else {
				flow = append(flow, b.Node)
			}
		}
		for _, c := range b.Children {
			visit(c, inFixed)
		}
	}
	visit(t.Root, false)

	out := make([]*html.Node, 0, len(flow)+len(fixed))
	for i := len(fixed) - 1; i >= 0; i-- {
		out = append(out, fixed[i])
	}
	for i := len(flow) - 1; i >= 0; i-- {
		out = append(out, flow[i])
	}
	return out
}

// PaintOrder lists boxes back to front: the normal flow in document order, then fixed subtrees.
func (t *Tree) PaintOrder() []*Box {
	if t == nil || t.Root == nil {
		return nil
	}
	var flow, fixed []*Box
	var visit func(b *Box, inFixed bool)
	visit = func(b *Box, inFixed bool) {
		inFixed = inFixed || b.Fixed
		if inFixed {
			fixed = append(fixed, b)
		} else {
			flow = append(flow, b)
		}
		for _, c := range b.Children {
			visit(c, inFixed)
		}
	}
	visit(t.Root, false)
	return append(flow, fixed...)
}

// -- Engine Core --

// Engine lays out an element tree against a fixed viewport. It supports the
// subset of CSS carried by inline style attributes: display (block, flex, none),
// width, height, min-width, min-height, padding, overflow and position: fixed
// with left/top.
type Engine struct {
	viewportWidth  float64
	viewportHeight float64
}

func NewEngine(viewportWidth, viewportHeight float64) *Engine {
	return &Engine{
		viewportWidth:  viewportWidth,
		viewportHeight: viewportHeight,
	}
}

// Viewport is the initial containing block.
func (e *Engine) Viewport() dom.Rect {
	return dom.Rect{Width: e.viewportWidth, Height: e.viewportHeight}
}

// Layout builds the layout tree rooted at the document element. The root box
// always has the viewport's size and scrolls its content.
func (e *Engine) Layout(root *html.Node, scroll ScrollState) *Tree {
	t := &Tree{Viewport: e.Viewport(), index: make(map[*html.Node]*Box)}
	if !dom.IsElement(root) {
		return t
	}
	if scroll == nil {
		scroll = ScrollOffsets(nil)
	}

	p := &pass{engine: e, scroll: scroll, tree: t}
	t.Root = p.layoutBox(root, nil, 0, 0, e.viewportWidth, -1, true)
	if t.Root != nil {
		assignClip(t.Root, t.Viewport, t.Viewport)
	}
	return t
}

type pass struct {
	engine *Engine
	scroll ScrollState
	tree   *Tree
}

// layoutBox lays out n at (x, y). containing resolves percentages; width >= 0
// forces the border-box width (flex items).
func (p *pass) layoutBox(n *html.Node, parent *Box, x, y, containing, width float64, root bool) *Box {
	if nonRendered[strings.ToLower(n.Data)] {
		return nil
	}
	st := dom.StyleOf(n)
	display := strings.ToLower(st.Get("display"))
	if display == "none" {
		return nil
	}

	b := &Box{Node: n, Parent: parent}
	p.tree.index[n] = b

	pad, _ := dom.ParseLength(st.Get("padding"), containing)
	pad = math.Max(0, pad)

	if width < 0 {
		width = containing
		if w, ok := dom.ParseLength(st.Get("width"), containing); ok {
			width = w
		}
	}
	if mw, ok := dom.ParseLength(st.Get("min-width"), containing); ok && mw > width {
		width = mw
	}
	if root {
		width = p.engine.viewportWidth
	}
	b.Rect = dom.Rect{X: x, Y: y, Width: width}

	contentX, contentY := x+pad, y+pad
	contentW := math.Max(0, width-2*pad)
	var contentH, contentWidth float64

	var flow []*html.Node
	for _, c := range dom.ElementChildren(n) {
		if isFixed(c) {
			if fb := p.layoutFixed(c, b, contentW); fb != nil {
				b.Children = append(b.Children, fb)
			}
			continue
		}
		flow = append(flow, c)
	}

	if display == "flex" {
		contentH, contentWidth = p.layoutRow(b, flow, contentX, contentY, contentW)
	} else {
		cy := contentY
		for _, c := range flow {
			cb := p.layoutBox(c, b, contentX, cy, contentW, -1, false)
			if cb == nil {
				continue
			}
			b.Children = append(b.Children, cb)
			cy += cb.Rect.Height
			contentWidth = math.Max(contentWidth, cb.Rect.Width)
		}
		contentH = cy - contentY
	}
	if len(flow) == 0 && dom.HasText(n) {
		contentH = LineHeight()
	}

	height := contentH + 2*pad
	if h, ok := dom.ParseLength(st.Get("height"), p.engine.viewportHeight); ok {
		height = h
	}
	if mh, ok := dom.ParseLength(st.Get("min-height"), p.engine.viewportHeight); ok && mh > height {
		height = mh
	}
	if root {
		height = p.engine.viewportHeight
	}
	b.Rect.Height = height

	b.Scroll = dom.ScrollMetrics{
		ClientHeight: height,
		ClientWidth:  width,
		Height:       math.Max(height, contentH+2*pad),
		Width:        math.Max(width, contentWidth+2*pad),
	}

	switch strings.ToLower(st.Get("overflow")) {
	case "auto", "scroll", "hidden":
		b.Scroller = true
	}
	if root {
		b.Scroller = true
	}
	if b.Scroller {
		top := math.Min(math.Max(0, p.scroll.ScrollTop(n)), b.Scroll.MaxTop())
		b.Scroll.Top = top
		if top != 0 {
			for _, c := range b.Children {
				translate(c, -top)
			}
		}
	}
	return b
}

// layoutRow places flex items left to right. Items without a width share the
// remaining space equally.
func (p *pass) layoutRow(b *Box, flow []*html.Node, x, y, available float64) (height, width float64) {
	explicit := make([]float64, len(flow))
	var used float64
	auto := 0
	for i, c := range flow {
		if w, ok := dom.ParseLength(dom.GetStyle(c, "width"), available); ok {
			explicit[i] = w
			used += w
		} else {
			explicit[i] = -1
			auto++
		}
	}
	share := 0.0
	if auto > 0 {
		share = math.Max(0, available-used) / float64(auto)
	}

	cx := x
	for i, c := range flow {
		w := explicit[i]
		if w < 0 {
			w = share
		}
		cb := p.layoutBox(c, b, cx, y, available, w, false)
		if cb == nil {
			continue
		}
		b.Children = append(b.Children, cb)
		cx += cb.Rect.Width
		height = math.Max(height, cb.Rect.Height)
	}
	return height, cx - x
}

// layoutFixed positions a fixed box against the viewport using its left/top offsets.
func (p *pass) layoutFixed(n *html.Node, parent *Box, containing float64) *Box {
	st := dom.StyleOf(n)
	left, _ := dom.ParseLength(st.Get("left"), p.engine.viewportWidth)
	top, _ := dom.ParseLength(st.Get("top"), p.engine.viewportHeight)

	width := -1.0
	if _, ok := dom.ParseLength(st.Get("width"), containing); !ok {
		if mw, ok := dom.ParseLength(st.Get("min-width"), containing); ok {
			width = mw
		}
	}
	b := p.layoutBox(n, parent, left, top, containing, width, false)
	if b != nil {
		b.Fixed = true
	}
	return b
}

// nonRendered elements never generate a box.
var nonRendered = map[string]bool{
	"head": true, "script": true, "style": true, "title": true,
	"meta": true, "link": true, "template": true,
}

func isFixed(n *html.Node) bool {
	return strings.EqualFold(dom.GetStyle(n, "position"), "fixed")
}

// translate shifts a flow subtree vertically. Fixed descendants stay put.
func translate(b *Box, dy float64) {
	if b.Fixed {
		return
	}
	b.Rect = b.Rect.Translate(0, dy)
	for _, c := range b.Children {
		translate(c, dy)
	}
}

// assignClip propagates the visible region. Scroll containers clip their
// descendants to their own box; fixed boxes reset to the viewport.
func assignClip(b *Box, clip, viewport dom.Rect) {
	if b.Fixed {
		clip = viewport
	}
	b.Clip = clip
	inner := clip
	if b.Scroller {
		inner = clip.Intersect(b.Rect)
	}
	for _, c := range b.Children {
		assignClip(c, inner, viewport)
	}
}
