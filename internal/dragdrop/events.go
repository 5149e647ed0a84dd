// internal/dragdrop/events.go
package dragdrop

import "golang.org/x/net/html"

// EventType is the phase of a pointer gesture.
type EventType string

const (
	EventDown EventType = "pointerdown"
	EventMove EventType = "pointermove"
	EventUp   EventType = "pointerup"
)

// Source is the kind of device that produced an event.
type Source string

const (
	SourceMouse Source = "mouse"
	SourceTouch Source = "touch"
)

// Touch is one active contact point of a touch event.
type Touch struct {
	X, Y   float64
	Target *html.Node
}

// PointerEvent is a single input event in viewport coordinates. A nil Target
// is resolved by hit-testing (X, Y).
type PointerEvent struct {
	Type    EventType
	Source  Source
	X, Y    float64
	Target  *html.Node
	Touches []Touch
}

// firstTouch converts a touch event into the pointer event of its first contact.
func firstTouch(ev PointerEvent) (PointerEvent, bool) {
	if len(ev.Touches) == 0 {
		return ev, false
	}
	t := ev.Touches[0]
	ev.X, ev.Y = t.X, t.Y
	ev.Target = t.Target
	ev.Source = SourceTouch
	return ev, true
}
