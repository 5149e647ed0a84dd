package hooks_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xkilldash9x/dragsort/internal/dom"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/frame"
	"github.com/xkilldash9x/dragsort/internal/hooks"
	"github.com/xkilldash9x/dragsort/internal/page"
)

const fixture = `<html><body><ul id="list" data-drag-list>
<li id="a" data-drag-item style="height: 40px">Alpha</li>
<li id="b" data-drag-item style="height: 40px">Beta</li>
<li id="locked" data-drag-item style="height: 40px">Locked</li>
</ul></body></html>`

func setupController(t *testing.T, rt *hooks.Runtime) (*page.Page, *dragdrop.Controller) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	p, err := page.LoadString(fixture, 400, 600, logger)
	require.NoError(t, err)
	opts := dragdrop.DefaultOptions()
	opts.Hooks = rt.Hooks()
	c, err := dragdrop.NewController(p, frame.NewQueue(), opts, logger)
	require.NoError(t, err)
	return p, c
}

// grab builds a pointer-down on the center of the element with the given id.
func grab(t *testing.T, p *page.Page, id string) dragdrop.PointerEvent {
	t.Helper()
	n, err := p.ByID(id)
	require.NoError(t, err)
	r := p.BoundingRect(n)
	return dragdrop.PointerEvent{Type: dragdrop.EventDown, Source: dragdrop.SourceMouse, X: r.X + 10, Y: r.MidY(), Target: n}
}

func midY(t *testing.T, p *page.Page, id string) float64 {
	t.Helper()
	n, err := p.ByID(id)
	require.NoError(t, err)
	return p.BoundingRect(n).MidY()
}

func jsNumber(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func TestLoad_CollectsDefinedHooks(t *testing.T) {
	src := `
		function onDragStart(e) {}
		var onDragEnd = function(e) {};
		var notAHook = 1;
	`
	rt, err := hooks.Load("hooks.js", src, 0, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []dragdrop.HookName{dragdrop.HookStart, dragdrop.HookEnd}, rt.Defined())

	h := rt.Hooks()
	assert.NotNil(t, h.Start)
	assert.NotNil(t, h.End)
	assert.Nil(t, h.Move)
	assert.Nil(t, h.BeforeStart)
}

func TestLoad_Errors(t *testing.T) {
	_, err := hooks.Load("broken.js", "function (", 0, nil)
	assert.Error(t, err)

	_, err = hooks.Load("bad.js", "var onDragMove = 5;", 0, nil)
	assert.ErrorContains(t, err, "onDragMove is not a function")

	_, err = hooks.Load("throws.js", "throw new Error('at load')", 0, nil)
	assert.ErrorContains(t, err, "at load")

	_, err = hooks.LoadFile(filepath.Join(t.TempDir(), "missing.js"), 0, nil)
	assert.Error(t, err)
}

func TestHooks_DriveTheDocument(t *testing.T) {
	src := `
		var started = null;
		function onDragBeforeStart(e) {
			// Locked items never drag.
			return !(e.event.target && e.event.target.id === "locked");
		}
		function onDragStart(e) {
			started = e.item;
			e.item.setAttribute("data-started-at", String(e.event.clientY));
			e.item.classList.add("lifted");
		}
		function onDragMove(e) {
			e.item.setAttribute("data-last-y", String(e.event.clientY));
		}
		function onDragEnd(e) {
			if (e.item !== null) { throw new Error("end hook received an item"); }
			started.classList.remove("lifted");
			started.setAttribute("data-prev", started.previousElementSibling ? started.previousElementSibling.id : "");
		}
	`
	rt, err := hooks.Load("board.js", src, 0, zaptest.NewLogger(t))
	require.NoError(t, err)
	p, c := setupController(t, rt)

	// Locked is vetoed through the before-start hook.
	require.NoError(t, c.PointerDown(grab(t, p, "locked")))
	assert.False(t, c.Active())

	down := grab(t, p, "a")
	require.NoError(t, c.PointerDown(down))
	require.True(t, c.Active())
	item := c.Item()
	assert.Equal(t, jsNumber(down.Y), dom.Attr(item, "data-started-at"))
	assert.True(t, dom.HasClass(item, "lifted"))

	// Just below Beta's midpoint places Alpha after Beta.
	y := midY(t, p, "b") + 5
	require.NoError(t, c.PointerMove(dragdrop.PointerEvent{Type: dragdrop.EventMove, X: down.X, Y: y}))
	assert.Equal(t, jsNumber(y), dom.Attr(item, "data-last-y"))

	require.NoError(t, c.PointerUp(dragdrop.PointerEvent{Type: dragdrop.EventUp, X: down.X, Y: y}))
	assert.False(t, dom.HasClass(item, "lifted"))
	assert.Equal(t, "b", dom.Attr(item, "data-prev"), "Alpha moved below Beta")
}

func TestHooks_ExceptionsBecomeHookErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)

	src := `function onDragStart(e) { throw new Error("refusing " + e.item.textContent); }`
	rt, err := hooks.Load("throw.js", src, 0, logger)
	require.NoError(t, err)

	p, err := page.LoadString(fixture, 400, 600, logger)
	require.NoError(t, err)
	opts := dragdrop.DefaultOptions()
	opts.Hooks = rt.Hooks()
	c, err := dragdrop.NewController(p, frame.NewQueue(), opts, logger)
	require.NoError(t, err)

	err = c.PointerDown(grab(t, p, "b"))
	var hookErr *dragdrop.HookError
	require.ErrorAs(t, err, &hookErr)
	assert.Equal(t, dragdrop.HookStart, hookErr.Hook)
	assert.Contains(t, err.Error(), "refusing Beta")
	assert.True(t, c.Active(), "a throwing start hook does not cancel the drag")
	assert.Equal(t, 1, logs.FilterMessage("Drag hook failed.").Len())

	require.NoError(t, c.PointerUp(dragdrop.PointerEvent{Type: dragdrop.EventUp}))
	assert.False(t, c.Active())
}

func TestHooks_RunawayScriptIsInterrupted(t *testing.T) {
	rt, err := hooks.Load("spin.js", `function onDragMove(e) { for (;;) {} }`, 20*time.Millisecond, nil)
	require.NoError(t, err)

	start := time.Now()
	err = rt.Hooks().Move(dragdrop.HookEvent{Event: dragdrop.PointerEvent{Type: dragdrop.EventMove}})
	assert.ErrorIs(t, err, hooks.ErrHookTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)

	// The runtime stays usable after an interrupt.
	rt2, err := hooks.Load("ok.js", `function onDragMove(e) { return 1; }`, 20*time.Millisecond, nil)
	require.NoError(t, err)
	assert.NoError(t, rt2.Hooks().Move(dragdrop.HookEvent{}))
	assert.ErrorIs(t, rt.Hooks().Move(dragdrop.HookEvent{}), hooks.ErrHookTimeout)
}

func TestConsoleGoesToLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rt, err := hooks.Load("console.js", `
		console.log("loaded", 1);
		function onDragEnd(e) { console.warn("ended at", e.event.clientX); }
	`, 0, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("loaded 1").Len())
	require.NoError(t, rt.Hooks().End(dragdrop.HookEvent{Event: dragdrop.PointerEvent{X: 42}}))
	warn := logs.FilterMessage("ended at 42").All()
	require.Len(t, warn, 1)
	assert.Equal(t, zapcore.WarnLevel, warn[0].Level)
}

func TestMerge_ChainsAfterExistingHooks(t *testing.T) {
	rt, err := hooks.Load("merge.js", `
		function onDragStart(e) { e.item.setAttribute("data-order", e.item.getAttribute("data-order") + ",script"); }
		function onDragMove(e) {}
	`, 0, nil)
	require.NoError(t, err)

	item := dom.NewElement("li")
	stop := errors.New("stop")
	base := dragdrop.Hooks{
		Start: func(ev dragdrop.HookEvent) error {
			dom.SetAttr(ev.Item, "data-order", "go")
			return nil
		},
		Move: func(dragdrop.HookEvent) error { return stop },
		End:  func(dragdrop.HookEvent) error { return nil },
	}
	merged := rt.Merge(base)

	require.NoError(t, merged.Start(dragdrop.HookEvent{Item: item}))
	assert.Equal(t, "go,script", dom.Attr(item, "data-order"))
	assert.ErrorIs(t, merged.Move(dragdrop.HookEvent{Item: item}), stop)
	assert.NotNil(t, merged.End)
	assert.Nil(t, merged.BeforeEnd)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hooks.js")
	require.NoError(t, os.WriteFile(path, []byte(`function onDragBeforeEnd(e) {}`), 0o600))
	rt, err := hooks.LoadFile(path, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, []dragdrop.HookName{dragdrop.HookBeforeEnd}, rt.Defined())
}
