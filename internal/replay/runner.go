// internal/replay/runner.go
package replay

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/api/schemas"
	"github.com/xkilldash9x/dragsort/internal/dom"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/frame"
	"github.com/xkilldash9x/dragsort/internal/hooks"
	"github.com/xkilldash9x/dragsort/internal/page"
)

// Settings are the run defaults a scenario may override.
type Settings struct {
	Options  dragdrop.Options
	Viewport schemas.Viewport
	// FPS sets the simulated frame interval and the live frame rate.
	FPS         int
	HookTimeout time.Duration
	// HooksPath names a hook script applied to every scenario, after the
	// scenario's own hooks.
	HooksPath string
}

// DefaultSettings returns the stock controller options, an 800x600 viewport
// and 60 frames per second.
func DefaultSettings() Settings {
	return Settings{
		Options:     dragdrop.DefaultOptions(),
		Viewport:    schemas.Viewport{Width: 800, Height: 600},
		FPS:         60,
		HookTimeout: hooks.DefaultTimeout,
	}
}

// Runner replays scenarios against simulated pages.
type Runner struct {
	logger   *zap.Logger
	settings Settings
}

// NewRunner creates a runner with the given defaults.
func NewRunner(logger *zap.Logger, settings Settings) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.FPS <= 0 {
		settings.FPS = 60
	}
	return &Runner{logger: logger.Named("replay"), settings: settings}
}

func (r *Runner) frameInterval() time.Duration {
	return time.Second / time.Duration(r.settings.FPS)
}

// Run plays every step of sc on a manually clocked frame queue. Frame steps
// advance the clock; input steps go through the controller. Step errors are
// recorded in the result and do not stop the run. The returned page holds
// the final document.
func (r *Runner) Run(ctx context.Context, sc *schemas.Scenario) (*schemas.RunResult, *page.Page, error) {
	start := time.Now()
	result := &schemas.RunResult{
		RunID:     uuid.NewString(),
		Scenario:  sc.Name,
		StartedAt: start.UTC(),
	}
	logger := r.logger.With(zap.String("run_id", result.RunID), zap.String("scenario", sc.Name))

	queue := frame.NewQueue()
	p, ctrl, err := r.setup(sc, queue, logger)
	if err != nil {
		return nil, nil, err
	}

	clock := start
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("replay canceled at step %d: %w", i, err)
		}
		if step.Type == schemas.StepFrame {
			n := frameCount(step)
			clock = queue.Advance(clock, r.frameInterval(), n)
			result.Frames += n
			result.Steps++
			continue
		}
		apply(i, step, p, ctrl, result, logger)
	}

	r.finish(sc, p, ctrl, result, time.Since(start))
	logger.Info("Scenario replayed.",
		zap.Int("steps", result.Steps),
		zap.Int("frames", result.Frames),
		zap.Int("errors", len(result.Errors)),
		zap.Int("mismatches", len(result.Mismatches)),
		zap.Bool("passed", result.Passed),
	)
	return result, p, nil
}

func frameCount(ev schemas.Event) int {
	if ev.Frames <= 0 {
		return 1
	}
	return ev.Frames
}

// apply dispatches one input step and records any error against it.
func apply(i int, step schemas.Event, p *page.Page, ctrl *dragdrop.Controller, result *schemas.RunResult, logger *zap.Logger) {
	result.Steps++
	ev, err := toPointerEvent(p, step)
	if err == nil {
		err = ctrl.Dispatch(ev)
	}
	if err != nil {
		logger.Debug("Step returned an error.", zap.Int("step", i), zap.Stringer("type", step.Type), zap.Error(err))
		result.Errors = append(result.Errors, schemas.StepError{Step: i, Type: step.Type, Error: err.Error()})
	}
}

// setup loads the scenario document and binds a controller to it.
func (r *Runner) setup(sc *schemas.Scenario, frames frame.Scheduler, logger *zap.Logger) (*page.Page, *dragdrop.Controller, error) {
	vp := r.settings.Viewport
	if sc.Viewport != nil {
		vp = *sc.Viewport
	}

	var (
		p   *page.Page
		err error
	)
	if sc.Fixture != "" {
		p, err = page.LoadFile(sc.Fixture, vp.Width, vp.Height, logger)
	} else {
		p, err = page.LoadString(sc.HTML, vp.Width, vp.Height, logger)
	}
	if err != nil {
		return nil, nil, err
	}

	opts, err := r.options(sc, logger)
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := dragdrop.NewController(p, frames, opts, logger)
	if err != nil {
		return nil, nil, err
	}
	return p, ctrl, nil
}

// options overlays the scenario's overrides and hook scripts on the defaults.
func (r *Runner) options(sc *schemas.Scenario, logger *zap.Logger) (dragdrop.Options, error) {
	opts := r.settings.Options
	if o := sc.Options; o != nil {
		if o.ScrollZone != nil {
			opts.ScrollZone = *o.ScrollZone
		}
		if o.ScrollSpeed != nil {
			opts.ScrollSpeed = *o.ScrollSpeed
		}
		if o.DraggingClass != nil {
			opts.DraggingClass = *o.DraggingClass
		}
		if o.CloneClass != nil {
			opts.CloneClass = *o.CloneClass
		}
	}

	for _, path := range []string{sc.Hooks, r.settings.HooksPath} {
		if path == "" {
			continue
		}
		rt, err := hooks.LoadFile(path, r.settings.HookTimeout, logger)
		if err != nil {
			return opts, err
		}
		opts.Hooks = rt.Merge(opts.Hooks)
	}
	return opts, opts.Validate()
}

// finish fills in the final snapshot and checks the expectations.
func (r *Runner) finish(sc *schemas.Scenario, p *page.Page, ctrl *dragdrop.Controller, result *schemas.RunResult, elapsed time.Duration) {
	result.Duration = elapsed
	result.DragActive = ctrl.Active()
	result.Final = p.Snapshot()

	dom.Walk(p.Document(), func(n *html.Node) {
		if top := p.ScrollTop(n); top != 0 {
			if result.Scrolled == nil {
				result.Scrolled = make(map[string]float64)
			}
			result.Scrolled[dom.Describe(n)] = top
		}
	})

	keys := make([]string, 0, len(sc.Expect))
	for k := range sc.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		want := sc.Expect[key]
		got, found := lookupOrder(p, result.Final, key)
		if !found {
			result.Mismatches = append(result.Mismatches, schemas.Mismatch{List: key, Want: want, Diff: "list not found"})
			continue
		}
		if !cmp.Equal(want, got, cmpopts.EquateEmpty()) {
			result.Mismatches = append(result.Mismatches, schemas.Mismatch{
				List: key,
				Want: want,
				Got:  got,
				Diff: cmp.Diff(want, got, cmpopts.EquateEmpty()),
			})
		}
	}
	result.Passed = len(result.Errors) == 0 && len(result.Mismatches) == 0
}

// lookupOrder finds a list by its snapshot key, or by XPath when the key is
// not a snapshot key.
func lookupOrder(p *page.Page, snap map[string][]string, key string) ([]string, bool) {
	if got, ok := snap[key]; ok {
		return got, true
	}
	if !strings.HasPrefix(key, "/") {
		return nil, false
	}
	n, err := p.Query(key)
	if err != nil {
		return nil, false
	}
	return p.Order(n), true
}
