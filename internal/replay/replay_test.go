package replay_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/dragsort/api/schemas"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/replay"
)

// Three 40px items stacked from the top of a 400x600 viewport.
const threeItems = `<html><body><ul id="list" data-drag-list>
<li id="i1" data-drag-item style="height: 40px">one</li>
<li id="i2" data-drag-item style="height: 40px">two</li>
<li id="i3" data-drag-item style="height: 40px">three</li>
</ul></body></html>`

// A 100px scroll container holding 200px of items.
const scrollingList = `<html><body><ul id="list" data-drag-list style="height: 100px; overflow: auto">
<li id="i1" data-drag-item style="height: 40px">one</li>
<li id="i2" data-drag-item style="height: 40px">two</li>
<li id="i3" data-drag-item style="height: 40px">three</li>
<li id="i4" data-drag-item style="height: 40px">four</li>
<li id="i5" data-drag-item style="height: 40px">five</li>
</ul></body></html>`

func newRunner(t *testing.T) *replay.Runner {
	t.Helper()
	settings := replay.DefaultSettings()
	settings.Viewport = schemas.Viewport{Width: 400, Height: 600}
	return replay.NewRunner(zaptest.NewLogger(t), settings)
}

func moveToTop() []schemas.Event {
	return []schemas.Event{
		{Type: schemas.StepMouseDown, X: 10, Y: 100},
		{Type: schemas.StepMouseMove, X: 10, Y: 10},
		{Type: schemas.StepMouseUp, X: 10, Y: 10},
	}
}

func TestRun_ExpectedOrderPasses(t *testing.T) {
	sc := &schemas.Scenario{
		Name:   "last to top",
		HTML:   threeItems,
		Steps:  moveToTop(),
		Expect: map[string][]string{"#list": {"i3", "i1", "i2"}},
	}

	result, p, err := newRunner(t).Run(context.Background(), sc)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "last to top", result.Scenario)
	assert.Equal(t, 3, result.Steps)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Mismatches)
	assert.False(t, result.DragActive)
	assert.True(t, result.Passed)
	assert.Equal(t, []string{"i3", "i1", "i2"}, result.Final["#list"])
	assert.NotContains(t, p.String(), dragdrop.AttrDragging)
}

func TestRun_ReportsMismatchesWithDiff(t *testing.T) {
	sc := &schemas.Scenario{
		HTML:  threeItems,
		Steps: moveToTop(),
		Expect: map[string][]string{
			"#list":               {"i1", "i2", "i3"},
			"//ul[@id='list']":    {"i3", "i1", "i2"},
			"#missing":            {"x"},
		},
	}

	result, _, err := newRunner(t).Run(context.Background(), sc)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	require.Len(t, result.Mismatches, 2, "the XPath key resolves and matches")

	assert.Equal(t, "#list", result.Mismatches[0].List)
	assert.Equal(t, []string{"i3", "i1", "i2"}, result.Mismatches[0].Got)
	assert.NotEmpty(t, result.Mismatches[0].Diff)
	assert.Equal(t, "#missing", result.Mismatches[1].List)
	assert.Equal(t, "list not found", result.Mismatches[1].Diff)
}

func TestRun_StepErrorsDoNotStopTheRun(t *testing.T) {
	sc := &schemas.Scenario{
		HTML: threeItems,
		Steps: []schemas.Event{
			{Type: schemas.StepMouseDown, Target: "//li[@id='nope']"},
			{Type: schemas.StepMouseDown, X: 10, Y: 20},
			{Type: schemas.StepMouseDown, X: 10, Y: 60},
			{Type: schemas.StepMouseMove, X: 10, Y: 70},
		},
	}

	result, _, err := newRunner(t).Run(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 0, result.Errors[0].Step)
	assert.Contains(t, result.Errors[0].Error, "failed to resolve target")
	assert.Equal(t, 2, result.Errors[1].Step)
	assert.Contains(t, result.Errors[1].Error, dragdrop.ErrSessionActive.Error())
	assert.True(t, result.DragActive)
	assert.False(t, result.Passed)
	assert.Equal(t, []string{"i2", "i1", "i3"}, result.Final["#list"])
}

func TestRun_FramesDriveAutoScroll(t *testing.T) {
	zone, speed := 20.0, 5.0
	sc := &schemas.Scenario{
		HTML:    scrollingList,
		Options: &schemas.DragOptions{ScrollZone: &zone, ScrollSpeed: &speed},
		Steps: []schemas.Event{
			{Type: schemas.StepMouseDown, X: 10, Y: 20},
			{Type: schemas.StepMouseMove, X: 10, Y: 95},
			{Type: schemas.StepFrame, Frames: 4},
			{Type: schemas.StepMouseUp, X: 10, Y: 95},
			{Type: schemas.StepFrame},
		},
		Expect: map[string][]string{"#list": {"i1", "i2", "i3", "i4", "i5"}},
	}

	result, _, err := newRunner(t).Run(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, result.Passed, "%+v", result)
	assert.Equal(t, 5, result.Frames)
	assert.Equal(t, map[string]float64{"#list": 20}, result.Scrolled, "four frames at 5px, none after release")
}

func TestRun_TouchSteps(t *testing.T) {
	sc := &schemas.Scenario{
		HTML: threeItems,
		Steps: []schemas.Event{
			{Type: schemas.StepTouchStart, Touches: []schemas.TouchPoint{{X: 10, Y: 100, Target: "//li[@id='i3']"}}},
			{Type: schemas.StepTouchMove, Touches: []schemas.TouchPoint{{X: 10, Y: 10}}},
			{Type: schemas.StepTouchEnd},
		},
		Expect: map[string][]string{"#list": {"i3", "i1", "i2"}},
	}
	result, _, err := newRunner(t).Run(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, result.Passed, "%+v", result)
}

func TestRun_HookScripts(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hooks.js")
	require.NoError(t, os.WriteFile(script, []byte(`
		function onDragBeforeStart(e) { return e.event.clientY > 50; }
		function onDragEnd(e) { throw new Error("end hook failed"); }
	`), 0o600))

	sc := &schemas.Scenario{
		HTML:  threeItems,
		Hooks: script,
		Steps: append([]schemas.Event{{Type: schemas.StepMouseDown, X: 10, Y: 20}}, moveToTop()...),
	}
	result, _, err := newRunner(t).Run(context.Background(), sc)
	require.NoError(t, err)

	assert.Equal(t, []string{"i3", "i1", "i2"}, result.Final["#list"], "the first press was vetoed")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Step)
	assert.Contains(t, result.Errors[0].Error, "end hook failed")
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := newRunner(t).Run(ctx, &schemas.Scenario{HTML: threeItems, Steps: moveToTop()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadScenario_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fixtures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixtures", "board.html"), []byte(threeItems), 0o600))

	raw, err := json.Marshal(schemas.Scenario{
		Fixture: "fixtures/board.html",
		Steps:   moveToTop(),
		Expect:  map[string][]string{"#list": {"i3", "i1", "i2"}},
	})
	require.NoError(t, err)
	path := filepath.Join(dir, "swap.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	sc, err := replay.LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "swap.json", sc.Name)
	assert.Equal(t, filepath.Join(dir, "fixtures", "board.html"), sc.Fixture)

	result, _, err := newRunner(t).Run(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, result.Passed)
}

func TestParseScenario_Validation(t *testing.T) {
	cases := map[string]string{
		"no document":   `{"steps": []}`,
		"two documents": `{"html": "<p></p>", "fixture": "a.html"}`,
		"bad viewport":  `{"html": "<p></p>", "viewport": {"width": 0, "height": 10}}`,
		"unknown step":  `{"html": "<p></p>", "steps": [{"type": "click"}]}`,
		"negative":      `{"html": "<p></p>", "steps": [{"type": "frame", "frames": -1}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := replay.ParseScenario(strings.NewReader(raw))
			assert.ErrorIs(t, err, replay.ErrInvalidScenario)
		})
	}

	_, err := replay.ParseScenario(strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestFollow_AppliesTailedEvents(t *testing.T) {
	events := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(events, nil, 0o600))

	sc := &schemas.Scenario{
		Name:   "live",
		HTML:   threeItems,
		Expect: map[string][]string{"#list": {"i3", "i1", "i2"}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var seen []schemas.StepType
	type outcome struct {
		result *schemas.RunResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, _, err := newRunner(t).Follow(ctx, sc, events, replay.FollowOptions{
			FromStart: true,
			Limit:     4,
			Poll:      true,
			OnEvent: func(_ int, ev schemas.Event, _ *dragdrop.Controller) {
				seen = append(seen, ev.Type)
			},
		})
		done <- outcome{result, err}
	}()

	f, err := os.OpenFile(events, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	lines := []string{
		`{"type":"mousedown","x":10,"y":100}`,
		`not json`,
		`{"type":"mousemove","x":10,"y":10}`,
		`{"type":"frame","frames":2}`,
		`{"type":"mouseup","x":10,"y":10}`,
	}
	for _, line := range lines {
		_, err := f.WriteString(line + "\n")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		t.Fatal("follow did not finish")
	}
	require.NoError(t, out.err)
	assert.Equal(t, 4, out.result.Steps)
	assert.Equal(t, 2, out.result.Frames)
	assert.True(t, out.result.Passed, "%+v", out.result)
	assert.Equal(t, []schemas.StepType{
		schemas.StepMouseDown, schemas.StepMouseMove, schemas.StepFrame, schemas.StepMouseUp,
	}, seen)
}

func TestFollow_MissingFeed(t *testing.T) {
	_, _, err := newRunner(t).Follow(context.Background(), &schemas.Scenario{HTML: threeItems},
		filepath.Join(t.TempDir(), "absent.jsonl"), replay.FollowOptions{Poll: true})
	assert.Error(t, err)
}
