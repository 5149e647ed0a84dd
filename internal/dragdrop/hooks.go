// internal/dragdrop/hooks.go
package dragdrop

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
)

// HookName identifies a lifecycle hook.
type HookName string

const (
	HookBeforeStart HookName = "onDragBeforeStart"
	HookStart       HookName = "onDragStart"
	HookMove        HookName = "onDragMove"
	HookBeforeEnd   HookName = "onDragBeforeEnd"
	HookEnd         HookName = "onDragEnd"
)

// HookNames lists every hook in lifecycle order.
var HookNames = []HookName{HookBeforeStart, HookStart, HookMove, HookBeforeEnd, HookEnd}

// HookEvent is passed to every hook. Item is nil for the before-start and end hooks.
type HookEvent struct {
	Item  *html.Node
	Event PointerEvent
}

// HookFunc observes a lifecycle transition. Hooks run synchronously on the
// event path and must not block.
type HookFunc func(HookEvent) error

// Hooks holds the optional lifecycle callbacks.
type Hooks struct {
	BeforeStart HookFunc
	Start       HookFunc
	Move        HookFunc
	BeforeEnd   HookFunc
	End         HookFunc
}

// Get returns the hook registered under name.
func (h Hooks) Get(name HookName) HookFunc {
	switch name {
	case HookBeforeStart:
		return h.BeforeStart
	case HookStart:
		return h.Start
	case HookMove:
		return h.Move
	case HookBeforeEnd:
		return h.BeforeEnd
	case HookEnd:
		return h.End
	}
	return nil
}

// Set registers fn under name. Unknown names are ignored.
func (h *Hooks) Set(name HookName, fn HookFunc) {
	switch name {
	case HookBeforeStart:
		h.BeforeStart = fn
	case HookStart:
		h.Start = fn
	case HookMove:
		h.Move = fn
	case HookBeforeEnd:
		h.BeforeEnd = fn
	case HookEnd:
		h.End = fn
	}
}

// callHook runs a hook, converting both returned errors and panics into a
// *HookError. Controller state is never touched here.
func (c *Controller) callHook(name HookName, ev HookEvent) (err error) {
	fn := c.opts.Hooks.Get(name)
	if fn == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &HookError{Hook: name, Err: fmt.Errorf("panic: %v", r)}
		}
		if err == nil {
			return
		}
		if errors.Is(err, ErrSkipDrag) {
			c.logger.Debug("Drag skipped by hook.", zap.String("hook", string(name)))
			return
		}
		c.logger.Warn("Drag hook failed.",
			zap.String("hook", string(name)),
			zap.String("item", dom.Describe(ev.Item)),
			zap.Error(err),
		)
	}()

	if hookErr := fn(ev); hookErr != nil {
		return &HookError{Hook: name, Err: hookErr}
	}
	return nil
}
