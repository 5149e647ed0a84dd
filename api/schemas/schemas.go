package schemas

// StepType names a scenario step. Recorded event feeds use the same names.
type StepType string

const (
	StepMouseDown  StepType = "mousedown"
	StepMouseMove  StepType = "mousemove"
	StepMouseUp    StepType = "mouseup"
	StepTouchStart StepType = "touchstart"
	StepTouchMove  StepType = "touchmove"
	StepTouchEnd   StepType = "touchend"
	// StepFrame advances the animation clock by Frames frames.
	StepFrame StepType = "frame"
)

func (s StepType) String() string { return string(s) }

// IsTouch reports whether the step carries touch points.
func (s StepType) IsTouch() bool {
	switch s {
	case StepTouchStart, StepTouchMove, StepTouchEnd:
		return true
	}
	return false
}

// Valid reports whether s is a known step type.
func (s StepType) Valid() bool {
	switch s {
	case StepMouseDown, StepMouseMove, StepMouseUp, StepTouchStart, StepTouchMove, StepTouchEnd, StepFrame:
		return true
	}
	return false
}

// TouchPoint is one contact of a touch step.
type TouchPoint struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Target string  `json:"target,omitempty"`
}

// Event is a single input step in viewport pixels. Target is an optional
// XPath; without it the element under (X, Y) is used.
type Event struct {
	Type    StepType     `json:"type"`
	X       float64      `json:"x,omitempty"`
	Y       float64      `json:"y,omitempty"`
	Target  string       `json:"target,omitempty"`
	Touches []TouchPoint `json:"touches,omitempty"`
	// Frames is the number of frames a frame step advances. Zero means one.
	Frames int `json:"frames,omitempty"`
}
