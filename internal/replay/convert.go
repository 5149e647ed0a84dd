// internal/replay/convert.go
package replay

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/api/schemas"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/page"
)

var eventTypes = map[schemas.StepType]dragdrop.EventType{
	schemas.StepMouseDown:  dragdrop.EventDown,
	schemas.StepMouseMove:  dragdrop.EventMove,
	schemas.StepMouseUp:    dragdrop.EventUp,
	schemas.StepTouchStart: dragdrop.EventDown,
	schemas.StepTouchMove:  dragdrop.EventMove,
	schemas.StepTouchEnd:   dragdrop.EventUp,
}

// toPointerEvent converts a recorded step into a controller event, resolving
// XPath targets against p.
func toPointerEvent(p *page.Page, ev schemas.Event) (dragdrop.PointerEvent, error) {
	typ, ok := eventTypes[ev.Type]
	if !ok {
		return dragdrop.PointerEvent{}, fmt.Errorf("step type %q is not an input event", ev.Type)
	}

	out := dragdrop.PointerEvent{Type: typ, Source: dragdrop.SourceMouse, X: ev.X, Y: ev.Y}
	target, err := lookup(p, ev.Target)
	if err != nil {
		return out, err
	}
	out.Target = target

	if ev.Type.IsTouch() {
		out.Source = dragdrop.SourceTouch
		for _, tp := range ev.Touches {
			t, err := lookup(p, tp.Target)
			if err != nil {
				return out, err
			}
			out.Touches = append(out.Touches, dragdrop.Touch{X: tp.X, Y: tp.Y, Target: t})
		}
	}
	return out, nil
}

func lookup(p *page.Page, expr string) (*html.Node, error) {
	if expr == "" {
		return nil, nil
	}
	n, err := p.Query(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}
	return n, nil
}
