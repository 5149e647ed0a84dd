// internal/dragdrop/options.go
package dragdrop

import "fmt"

const (
	DefaultScrollZone  = 100.0
	DefaultScrollSpeed = 5.0
)

// Options configures a Controller.
type Options struct {
	// ScrollZone is the distance in pixels from the scroll container's top or
	// bottom edge inside which auto-scroll engages. Zero disables auto-scroll.
	ScrollZone float64
	// ScrollSpeed is the number of pixels scrolled per frame. It must be
	// positive whenever ScrollZone is.
	ScrollSpeed float64
	// DraggingClass is added to the dragged item for the duration of the drag.
	DraggingClass string
	// CloneClass is added to the placeholder.
	CloneClass string
	Hooks      Hooks
}

// DefaultOptions returns the stock scroll zone and speed with no classes or hooks.
func DefaultOptions() Options {
	return Options{
		ScrollZone:  DefaultScrollZone,
		ScrollSpeed: DefaultScrollSpeed,
	}
}

// Validate reports option values the controller cannot work with.
func (o Options) Validate() error {
	if o.ScrollZone < 0 {
		return fmt.Errorf("%w: scroll zone must be non-negative, got %v", ErrInvalidOptions, o.ScrollZone)
	}
	if o.ScrollSpeed < 0 {
		return fmt.Errorf("%w: scroll speed must be non-negative, got %v", ErrInvalidOptions, o.ScrollSpeed)
	}
	if o.ScrollZone > 0 && o.ScrollSpeed == 0 {
		return fmt.Errorf("%w: scroll speed must be positive when the scroll zone is %v", ErrInvalidOptions, o.ScrollZone)
	}
	return nil
}
