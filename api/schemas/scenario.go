package schemas

// -- Scenario Schemas --

// Viewport is the size of the simulated window in pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DragOptions overrides controller options for one scenario. Nil fields keep
// the configured values.
type DragOptions struct {
	ScrollZone    *float64 `json:"scroll_zone,omitempty"`
	ScrollSpeed   *float64 `json:"scroll_speed,omitempty"`
	DraggingClass *string  `json:"dragging_class,omitempty"`
	CloneClass    *string  `json:"clone_class,omitempty"`
}

// Scenario is a scripted drag session against an HTML fixture.
//
// Exactly one of Fixture (a path, relative to the scenario file) or HTML
// (inline markup) is set. Expect maps a drop list, written as "#id" or as
// its XPath, to the item keys it must hold once all steps have run.
type Scenario struct {
	Name     string              `json:"name"`
	Fixture  string              `json:"fixture,omitempty"`
	HTML     string              `json:"html,omitempty"`
	Viewport *Viewport           `json:"viewport,omitempty"`
	Options  *DragOptions        `json:"options,omitempty"`
	Hooks    string              `json:"hooks,omitempty"`
	Steps    []Event             `json:"steps"`
	Expect   map[string][]string `json:"expect,omitempty"`
}
