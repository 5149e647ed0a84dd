package dragdrop_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/frame"
	"github.com/xkilldash9x/dragsort/internal/page"
)

const (
	itemHeight = 40.0
	viewportW  = 400.0
	viewportH  = 600.0
)

// harness bundles a page, a manual frame queue and a controller over them.
type harness struct {
	t      *testing.T
	page   *page.Page
	frames *frame.Queue
	ctrl   *dragdrop.Controller
}

func newHarness(t *testing.T, markup string, opts dragdrop.Options) *harness {
	t.Helper()
	return newHarnessWithLogger(t, markup, opts, zaptest.NewLogger(t))
}

func newHarnessWithLogger(t *testing.T, markup string, opts dragdrop.Options, logger *zap.Logger) *harness {
	t.Helper()
	p, err := page.LoadString(markup, viewportW, viewportH, logger)
	require.NoError(t, err)
	q := frame.NewQueue()
	c, err := dragdrop.NewController(p, q, opts, logger)
	require.NoError(t, err)
	return &harness{t: t, page: p, frames: q, ctrl: c}
}

// listHTML renders one drop list of fixed-height items. Entries ending in
// "!" are disabled.
func listHTML(listStyle string, items ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	fmt.Fprintf(&sb, `<ul id="list" data-drag-list style="%s">`, listStyle)
	for _, it := range items {
		disabled := ""
		if strings.HasSuffix(it, "!") {
			it = strings.TrimSuffix(it, "!")
			disabled = " data-drag-disabled"
		}
		fmt.Fprintf(&sb, `<li id="%s" data-drag-item%s style="height: %gpx">%s</li>`, it, disabled, itemHeight, it)
	}
	sb.WriteString("</ul></body></html>")
	return sb.String()
}

func (h *harness) node(id string) *html.Node {
	h.t.Helper()
	n, err := h.page.ByID(id)
	require.NoError(h.t, err)
	return n
}

func (h *harness) order(listID string) []string {
	h.t.Helper()
	return h.page.Order(h.node(listID))
}

// children lists every element child of a list, with "placeholder" standing
// in for the session's placeholder.
func (h *harness) children(listID string, placeholder *html.Node) []string {
	h.t.Helper()
	var out []string
	for _, c := range dom.ElementChildren(h.node(listID)) {
		if c == placeholder {
			out = append(out, "placeholder")
			continue
		}
		out = append(out, dom.Attr(c, "id"))
	}
	return out
}

func (h *harness) center(id string) (float64, float64) {
	h.t.Helper()
	r := h.page.BoundingRect(h.node(id))
	return r.X + r.Width/2, r.MidY()
}

func down(x, y float64) dragdrop.PointerEvent {
	return dragdrop.PointerEvent{Type: dragdrop.EventDown, Source: dragdrop.SourceMouse, X: x, Y: y}
}

func move(x, y float64) dragdrop.PointerEvent {
	return dragdrop.PointerEvent{Type: dragdrop.EventMove, Source: dragdrop.SourceMouse, X: x, Y: y}
}

func up(x, y float64) dragdrop.PointerEvent {
	return dragdrop.PointerEvent{Type: dragdrop.EventUp, Source: dragdrop.SourceMouse, X: x, Y: y}
}

// grab starts a drag on the center of the item with the given id.
func (h *harness) grab(id string) {
	h.t.Helper()
	x, y := h.center(id)
	require.NoError(h.t, h.ctrl.PointerDown(down(x, y)))
	require.True(h.t, h.ctrl.Active(), "drag on #%s did not start", id)
}

// countDragMarkers counts elements still carrying drag presentation state.
func countDragMarkers(root *html.Node, draggingClass string) int {
	count := 0
	dom.Walk(root, func(n *html.Node) {
		if dom.HasAttr(n, dragdrop.AttrDragging) {
			count++
		}
		if draggingClass != "" && dom.HasClass(n, draggingClass) {
			count++
		}
		if dom.GetStyle(n, "position") == "fixed" || dom.GetStyle(n, "user-select") == "none" {
			count++
		}
	})
	return count
}

// hookRecorder captures every hook invocation.
type hookRecorder struct {
	calls []string
	items []*html.Node
}

func (r *hookRecorder) hook(name string) dragdrop.HookFunc {
	return func(ev dragdrop.HookEvent) error {
		r.calls = append(r.calls, name)
		r.items = append(r.items, ev.Item)
		return nil
	}
}

func (r *hookRecorder) hooks() dragdrop.Hooks {
	return dragdrop.Hooks{
		BeforeStart: r.hook("beforeStart"),
		Start:       r.hook("start"),
		Move:        r.hook("move"),
		BeforeEnd:   r.hook("beforeEnd"),
		End:         r.hook("end"),
	}
}
