package schemas

import "time"

// -- Result Schemas --

// StepError records a step whose dispatch returned an error. Hook failures
// land here too; they never stop a run.
type StepError struct {
	Step  int      `json:"step"`
	Type  StepType `json:"type"`
	Error string   `json:"error"`
}

// Mismatch is an expected list order that the final document does not match.
type Mismatch struct {
	List string   `json:"list"`
	Want []string `json:"want"`
	Got  []string `json:"got"`
	Diff string   `json:"diff,omitempty"`
}

// RunResult summarizes one scenario run.
type RunResult struct {
	RunID      string              `json:"run_id"`
	Scenario   string              `json:"scenario"`
	StartedAt  time.Time           `json:"started_at"`
	Duration   time.Duration       `json:"duration_ns"`
	Steps      int                 `json:"steps"`
	Frames     int                 `json:"frames"`
	Scrolled   map[string]float64  `json:"scrolled,omitempty"`
	Final      map[string][]string `json:"final"`
	Errors     []StepError         `json:"errors,omitempty"`
	Mismatches []Mismatch          `json:"mismatches,omitempty"`
	// DragActive is set when the steps left a drag unfinished.
	DragActive bool `json:"drag_active"`
	Passed     bool `json:"passed"`
}
