// internal/replay/follow.go
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hpcloud/tail"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/dragsort/api/schemas"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/frame"
	"github.com/xkilldash9x/dragsort/internal/page"
)

// FollowOptions controls live replay of a JSONL event feed.
type FollowOptions struct {
	// FromStart replays the lines already in the file before following.
	FromStart bool
	// Limit stops following after this many events. Zero follows until the
	// context ends.
	Limit int
	// Poll watches the file by polling instead of filesystem notifications.
	Poll bool
	// OnEvent runs on the frame loop after each event is applied.
	OnEvent func(step int, ev schemas.Event, ctrl *dragdrop.Controller)
}

// Follow tails eventsPath, one schemas.Event per line, and applies each event
// to the scenario's document as it arrives. Input and frames run on a paced
// frame.Loop, so auto-scroll advances in real time; frame lines in the feed
// are counted and otherwise ignored. The scenario's own steps are not played.
func (r *Runner) Follow(ctx context.Context, sc *schemas.Scenario, eventsPath string, opts FollowOptions) (*schemas.RunResult, *page.Page, error) {
	start := time.Now()
	result := &schemas.RunResult{
		RunID:     uuid.NewString(),
		Scenario:  sc.Name,
		StartedAt: start.UTC(),
	}
	logger := r.logger.With(zap.String("run_id", result.RunID), zap.String("scenario", sc.Name))

	loop := frame.NewLoop(logger, r.settings.FPS)
	p, ctrl, err := r.setup(sc, loop, logger)
	if err != nil {
		return nil, nil, err
	}

	location := &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	if opts.FromStart {
		location.Whence = io.SeekStart
	}
	t, err := tail.TailFile(eventsPath, tail.Config{
		Follow:    true,
		MustExist: true,
		Poll:      opts.Poll,
		Location:  location,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to tail event feed: %w", err)
	}
	defer func() {
		_ = t.Stop()
		t.Cleanup()
	}()

	logger.Info("Following event feed.", zap.String("events", eventsPath), zap.Bool("from_start", opts.FromStart))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error {
		// Stopping the feed stops the loop.
		defer cancel()
		return r.feed(gctx, t, loop, p, ctrl, opts, result, logger)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// The loop has exited; the page is ours again.
	r.finish(sc, p, ctrl, result, time.Since(start))
	logger.Info("Event feed closed.",
		zap.Int("steps", result.Steps),
		zap.Int("errors", len(result.Errors)),
		zap.Bool("passed", result.Passed),
	)
	return result, p, nil
}

// feed decodes tailed lines and posts each event to the loop. Malformed lines
// are logged and skipped.
func (r *Runner) feed(ctx context.Context, t *tail.Tail, loop *frame.Loop, p *page.Page, ctrl *dragdrop.Controller, opts FollowOptions, result *schemas.RunResult, logger *zap.Logger) error {
	step := 0
	for {
		select {
		case <-ctx.Done():
			return nil

		case line, ok := <-t.Lines:
			if !ok {
				logger.Debug("Event feed tailer channel closed.")
				return drain(ctx, loop)
			}
			if line.Err != nil {
				logger.Warn("Error reading event feed", zap.Error(line.Err))
				continue
			}
			text := strings.TrimSpace(line.Text)
			if text == "" {
				continue
			}

			var ev schemas.Event
			if err := json.UnmarshalFromString(text, &ev); err != nil {
				logger.Warn("Skipping malformed event line.", zap.String("line", text), zap.Error(err))
				continue
			}
			if err := validateEvent(ev); err != nil {
				logger.Warn("Skipping invalid event line.", zap.String("line", text), zap.Error(err))
				continue
			}

			i := step
			step++
			err := loop.Post(ctx, func() {
				if ev.Type == schemas.StepFrame {
					result.Steps++
					result.Frames += frameCount(ev)
				} else {
					apply(i, ev, p, ctrl, result, logger)
				}
				if opts.OnEvent != nil {
					opts.OnEvent(i, ev, ctrl)
				}
			})
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, frame.ErrLoopStopped) {
					return nil
				}
				return err
			}

			if opts.Limit > 0 && step >= opts.Limit {
				return drain(ctx, loop)
			}
		}
	}
}

// drain waits until every task posted so far has run.
func drain(ctx context.Context, loop *frame.Loop) error {
	done := make(chan struct{})
	if err := loop.Post(ctx, func() { close(done) }); err != nil {
		if ctx.Err() != nil || errors.Is(err, frame.ErrLoopStopped) {
			return nil
		}
		return err
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
	return nil
}
