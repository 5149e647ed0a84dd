// internal/dragdrop/autoscroll.go
package dragdrop

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
	"github.com/xkilldash9x/dragsort/internal/frame"
)

// Direction is the way the auto-scroller moves its target.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "none"
	}
}

// AutoScroller scrolls one element by a fixed step every frame until canceled.
type AutoScroller struct {
	geometry Geometry
	frames   frame.Scheduler
	speed    float64
	logger   *zap.Logger

	target *html.Node
	dir    Direction
	handle frame.Handle
	steps  int
}

func NewAutoScroller(geometry Geometry, frames frame.Scheduler, speed float64, logger *zap.Logger) *AutoScroller {
	return &AutoScroller{
		geometry: geometry,
		frames:   frames,
		speed:    speed,
		logger:   logger.Named("autoscroll"),
	}
}

// Active reports whether a scroll frame is scheduled.
func (a *AutoScroller) Active() bool { return a.handle != 0 }

// Direction is DirectionNone when inactive.
func (a *AutoScroller) Direction() Direction { return a.dir }

// Target is the element being scrolled, nil when inactive.
func (a *AutoScroller) Target() *html.Node { return a.target }

// Start begins scrolling target in dir. Re-engaging the same target and
// direction keeps the running task; anything else replaces it.
func (a *AutoScroller) Start(target *html.Node, dir Direction) {
	if dir == DirectionNone || target == nil {
		a.Cancel()
		return
	}
	if a.Active() && a.dir == dir && a.target == target {
		return
	}
	a.Cancel()

	a.target = target
	a.dir = dir
	a.steps = 0
	a.handle = a.frames.RequestFrame(a.step)
	a.logger.Debug("Auto-scroll engaged.",
		zap.String("direction", dir.String()),
		zap.String("target", dom.Describe(target)),
	)
}

// Cancel stops any scheduled scrolling. Safe to call at any time.
func (a *AutoScroller) Cancel() {
	if a.handle == 0 {
		return
	}
	a.frames.CancelFrame(a.handle)
	a.logger.Debug("Auto-scroll canceled.",
		zap.String("direction", a.dir.String()),
		zap.Int("steps", a.steps),
	)
	a.handle = 0
	a.dir = DirectionNone
	a.target = nil
}

func (a *AutoScroller) step(time.Time) {
	if a.handle == 0 || a.target == nil {
		return
	}
	delta := a.speed
	if a.dir == DirectionUp {
		delta = -delta
	}
	top := a.geometry.ScrollMetrics(a.target).Top
	a.geometry.SetScrollTop(a.target, top+delta)
	a.steps++
	a.handle = a.frames.RequestFrame(a.step)
}

// checkAutoScroll engages, keeps or cancels scrolling for a pointer at y and
// reports whether scrolling is engaged after the check.
func (c *Controller) checkAutoScroll(s *session, y float64) bool {
	el := s.scroll.element
	if el == nil || c.opts.ScrollZone <= 0 {
		c.scroller.Cancel()
		return false
	}
	m := c.host.ScrollMetrics(el)
	zone := c.opts.ScrollZone

	switch {
	case y < s.scroll.rect.Top()+zone && m.Top > 0:
		c.scroller.Start(el, DirectionUp)
	case y > s.scroll.rect.Bottom()-zone && m.Top < m.MaxTop():
		c.scroller.Start(el, DirectionDown)
	default:
		c.scroller.Cancel()
	}
	return c.scroller.Active()
}
