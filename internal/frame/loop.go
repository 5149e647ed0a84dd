// internal/frame/loop.go
package frame

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrLoopStopped is returned by Post once the loop has exited.
var ErrLoopStopped = errors.New("frame loop stopped")

const defaultTaskBuffer = 64

// Loop owns a single execution context for live sessions. Posted tasks and
// frame callbacks all run on the loop's worker goroutine, one at a time, so
// code driven by the loop needs no locking. Frames are paced by a token
// bucket at the configured rate.
//
// RequestFrame and CancelFrame must only be called from inside a task or a
// frame callback.
type Loop struct {
	logger  *zap.Logger
	queue   *Queue
	tasks   chan func()
	limiter *rate.Limiter
	running atomic.Bool
	done    chan struct{}
}

var _ Scheduler = (*Loop)(nil)

// NewLoop creates a loop producing at most fps frames per second.
func NewLoop(logger *zap.Logger, fps int) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{
		logger:  logger.Named("frame_loop"),
		queue:   NewQueue(),
		tasks:   make(chan func(), defaultTaskBuffer),
		limiter: rate.NewLimiter(rate.Limit(fps), 1),
		done:    make(chan struct{}),
	}
}

func (l *Loop) RequestFrame(cb Callback) Handle { return l.queue.RequestFrame(cb) }
func (l *Loop) CancelFrame(h Handle)            { l.queue.CancelFrame(h) }

// Post queues fn to run on the loop. It blocks while the task buffer is full.
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Run drives the loop until ctx ends. It may only be called once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return fmt.Errorf("frame loop already running")
	}
	defer close(l.done)

	g, gctx := errgroup.WithContext(ctx)
	ticks := make(chan time.Time)

	// Pacer: emits one tick per limiter token.
	g.Go(func() error {
		for {
			if err := l.limiter.Wait(gctx); err != nil {
				return nil
			}
			select {
			case ticks <- time.Now():
			case <-gctx.Done():
				return nil
			}
		}
	})

	// Worker: the single context tasks and frames run on.
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case fn := <-l.tasks:
				l.safeRun("task", func() { fn() })
			case now := <-ticks:
				if l.queue.Pending() == 0 {
					continue
				}
				l.safeRun("frame", func() { l.queue.Flush(now) })
			}
		}
	})

	err := g.Wait()
	l.logger.Debug("Frame loop stopped.", zap.Int("pending_frames", l.queue.Pending()))
	return err
}

// safeRun keeps a panicking task from taking the whole loop down.
func (l *Loop) safeRun(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Recovered from panic in frame loop.",
				zap.String("kind", kind),
				zap.Any("panic_value", r),
				zap.Stack("stack"),
			)
		}
	}()
	fn()
}
