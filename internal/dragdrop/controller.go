// internal/dragdrop/controller.go
package dragdrop

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
	"github.com/xkilldash9x/dragsort/internal/frame"
)

// Controller runs drag sessions over a Host. It holds at most one session at
// a time and, like the host it drives, must only be used from a single
// execution context (the one its frame scheduler runs callbacks on).
type Controller struct {
	host     Host
	opts     Options
	logger   *zap.Logger
	scroller *AutoScroller

	session *session
}

// NewController validates opts and binds a controller to host and frames.
func NewController(host Host, frames frame.Scheduler, opts Options, logger *zap.Logger) (*Controller, error) {
	if host == nil {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidOptions)
	}
	if frames == nil {
		return nil, fmt.Errorf("%w: frame scheduler is required", ErrInvalidOptions)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("dragdrop")

	return &Controller{
		host:     host,
		opts:     opts,
		logger:   logger,
		scroller: NewAutoScroller(host, frames, opts.ScrollSpeed, logger),
	}, nil
}

// Active reports whether a drag is in progress.
func (c *Controller) Active() bool { return c.session != nil }

// Item is the element being dragged, nil when idle.
func (c *Controller) Item() *html.Node {
	if c.session == nil {
		return nil
	}
	return c.session.item
}

// SourceList is the drop list currently holding the item, nil when idle.
func (c *Controller) SourceList() *html.Node {
	if c.session == nil {
		return nil
	}
	return c.session.sourceList
}

// Placeholder is the element holding the item's slot, nil when idle.
func (c *Controller) Placeholder() *html.Node {
	if c.session == nil {
		return nil
	}
	return c.session.placeholder
}

// SessionID identifies the active session in logs. Empty when idle.
func (c *Controller) SessionID() string {
	if c.session == nil {
		return ""
	}
	return c.session.id
}

// AutoScroll exposes the auto-scroll driver for inspection.
func (c *Controller) AutoScroll() *AutoScroller { return c.scroller }

// PointerDown starts a drag when the event targets a draggable item.
func (c *Controller) PointerDown(ev PointerEvent) error {
	if c.session != nil {
		return ErrSessionActive
	}

	if err := c.callHook(HookBeforeStart, HookEvent{Event: ev}); err != nil {
		if errors.Is(err, ErrSkipDrag) {
			return nil
		}
		return fmt.Errorf("drag start vetoed: %w", err)
	}

	target := ev.Target
	if target == nil {
		if hits := c.host.ElementsFromPoint(ev.X, ev.Y); len(hits) > 0 {
			target = hits[0]
		}
	}
	if !IsDraggable(target) || !dom.IsElement(target.Parent) {
		return nil
	}
	ev.Target = target

	s := &session{
		id:         uuid.NewString(),
		item:       target,
		sourceList: target.Parent,
	}
	itemRect := c.host.BoundingRect(target)
	s.offset = Point{X: ev.X - itemRect.X, Y: ev.Y - itemRect.Y}
	s.scroll = c.scrollContextFor(target.Parent)

	saveStyle(s)
	c.host.SetSelectable(target, false)
	c.host.ClearSelection()

	c.pin(s, ev, itemRect)
	s.placeholder = c.newPlaceholder(itemRect)
	if err := c.host.InsertAdjacent(target, dom.BeforeBegin, s.placeholder); err != nil {
		s.placeholder = nil
		c.unpin(s)
		return fmt.Errorf("failed to insert placeholder: %w", err)
	}

	c.session = s
	c.logger.Debug("Drag started.",
		zap.String("session_id", s.id),
		zap.String("item", dom.Describe(target)),
		zap.String("list", dom.Describe(s.sourceList)),
		zap.String("scroll_parent", dom.Describe(s.scroll.element)),
	)

	return c.callHook(HookStart, HookEvent{Item: target, Event: ev})
}

// PointerMove drags the item. While auto-scroll is engaged no repositioning
// happens and the move hook is not called. Otherwise the move hook runs after
// every reposition attempt, including ticks where the disabled-sibling guard
// or a missing neighbor left the order unchanged.
func (c *Controller) PointerMove(ev PointerEvent) error {
	s := c.session
	if s == nil {
		return nil
	}

	c.follow(s, ev)
	if c.checkAutoScroll(s, ev.Y) {
		return nil
	}

	var errs error
	if err := c.reposition(s, ev.X, ev.Y); err != nil {
		c.logger.Warn("Reposition failed.", zap.String("session_id", s.id), zap.Error(err))
		errs = multierr.Append(errs, err)
	}
	return multierr.Append(errs, c.callHook(HookMove, HookEvent{Item: s.item, Event: ev}))
}

// PointerUp ends the drag. Pending scroll frames are always canceled; with
// no active session nothing else happens.
func (c *Controller) PointerUp(ev PointerEvent) error {
	c.scroller.Cancel()

	s := c.session
	if s == nil {
		return nil
	}

	errs := c.callHook(HookBeforeEnd, HookEvent{Item: s.item, Event: ev})

	c.unpin(s)
	c.session = nil
	c.logger.Debug("Drag ended.",
		zap.String("session_id", s.id),
		zap.String("item", dom.Describe(s.item)),
		zap.String("list", dom.Describe(s.sourceList)),
	)

	return multierr.Append(errs, c.callHook(HookEnd, HookEvent{Event: ev}))
}

// TouchStart starts a drag from the first touch point.
func (c *Controller) TouchStart(ev PointerEvent) error {
	p, ok := firstTouch(ev)
	if !ok {
		return nil
	}
	p.Type = EventDown
	return c.PointerDown(p)
}

// TouchMove moves the drag to the first touch point.
func (c *Controller) TouchMove(ev PointerEvent) error {
	p, ok := firstTouch(ev)
	if !ok {
		return nil
	}
	p.Type = EventMove
	return c.PointerMove(p)
}

// TouchEnd ends the drag. Lifted contacts are no longer listed in Touches, so
// the event is forwarded as is.
func (c *Controller) TouchEnd(ev PointerEvent) error {
	ev.Type = EventUp
	ev.Source = SourceTouch
	return c.PointerUp(ev)
}

// Dispatch routes ev to the handler for its type and source.
func (c *Controller) Dispatch(ev PointerEvent) error {
	touch := ev.Source == SourceTouch
	switch ev.Type {
	case EventDown:
		if touch {
			return c.TouchStart(ev)
		}
		return c.PointerDown(ev)
	case EventMove:
		if touch {
			return c.TouchMove(ev)
		}
		return c.PointerMove(ev)
	case EventUp:
		if touch {
			return c.TouchEnd(ev)
		}
		return c.PointerUp(ev)
	default:
		return fmt.Errorf("unknown pointer event type %q", ev.Type)
	}
}
