// internal/replay/scenario.go
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/dragsort/api/schemas"
)

// ErrInvalidScenario marks scenario files that cannot be run.
var ErrInvalidScenario = errors.New("invalid scenario")

// ParseScenario decodes and validates a scenario document.
func ParseScenario(r io.Reader) (*schemas.Scenario, error) {
	var sc schemas.Scenario
	if err := json.NewDecoder(r).Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := ValidateScenario(&sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadScenario reads a scenario file. Relative fixture and hook paths are
// resolved against the file's directory.
func LoadScenario(path string) (*schemas.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario '%s': %w", path, err)
	}
	defer f.Close()

	sc, err := ParseScenario(f)
	if err != nil {
		return nil, fmt.Errorf("scenario '%s': %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}
	dir := filepath.Dir(path)
	sc.Fixture = resolve(dir, sc.Fixture)
	sc.Hooks = resolve(dir, sc.Hooks)
	return sc, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// ValidateScenario checks the document source, viewport and steps.
func ValidateScenario(sc *schemas.Scenario) error {
	switch {
	case sc.Fixture == "" && sc.HTML == "":
		return fmt.Errorf("%w: one of fixture or html is required", ErrInvalidScenario)
	case sc.Fixture != "" && sc.HTML != "":
		return fmt.Errorf("%w: fixture and html are mutually exclusive", ErrInvalidScenario)
	}
	if vp := sc.Viewport; vp != nil && (vp.Width <= 0 || vp.Height <= 0) {
		return fmt.Errorf("%w: viewport must be positive, got %vx%v", ErrInvalidScenario, vp.Width, vp.Height)
	}
	for i, step := range sc.Steps {
		if err := validateEvent(step); err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrInvalidScenario, i, err)
		}
	}
	return nil
}

func validateEvent(ev schemas.Event) error {
	if !ev.Type.Valid() {
		return fmt.Errorf("unknown step type %q", ev.Type)
	}
	if ev.Frames < 0 {
		return fmt.Errorf("frame count must be non-negative, got %d", ev.Frames)
	}
	return nil
}
