// internal/hooks/runtime.go
package hooks

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/xkilldash9x/dragsort/internal/dragdrop"
)

// DefaultTimeout bounds a single hook invocation.
const DefaultTimeout = 50 * time.Millisecond

// ErrHookTimeout is returned when a hook script runs past its budget.
var ErrHookTimeout = errors.New("hook script timed out")

// Runtime holds a JavaScript program defining drag lifecycle hooks as global
// functions named after dragdrop.HookNames (onDragStart, onDragMove, ...).
// A before-start hook returning false skips the drag. Thrown exceptions become
// hook errors.
//
// A Runtime is not safe for concurrent use; it runs on the controller's
// execution context.
type Runtime struct {
	vm      *goja.Runtime
	logger  *zap.Logger
	bridge  *bridge
	timeout time.Duration
	funcs   map[dragdrop.HookName]goja.Callable
}

// Load compiles and runs src, then collects the hook functions it defines.
func Load(name, src string, timeout time.Duration, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	vm := goja.New()
	r := &Runtime{
		vm:      vm,
		logger:  logger.Named("hooks"),
		timeout: timeout,
		funcs:   make(map[dragdrop.HookName]goja.Callable),
	}
	r.bridge = newBridge(vm, r.logger)
	if err := r.bridge.installConsole(); err != nil {
		return nil, err
	}

	if _, err := r.run(func() (goja.Value, error) { return vm.RunScript(name, src) }); err != nil {
		return nil, fmt.Errorf("failed to evaluate hook script '%s': %w", name, err)
	}

	for _, hook := range dragdrop.HookNames {
		v := vm.Get(string(hook))
		if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
			continue
		}
		fn, ok := goja.AssertFunction(v)
		if !ok {
			return nil, fmt.Errorf("hook script '%s': %s is not a function", name, hook)
		}
		r.funcs[hook] = fn
	}
	r.logger.Debug("Hook script loaded.", zap.String("script", name), zap.Int("hooks", len(r.funcs)))
	return r, nil
}

// LoadFile reads a hook script from disk.
func LoadFile(path string, timeout time.Duration, logger *zap.Logger) (*Runtime, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hook script '%s': %w", path, err)
	}
	return Load(path, string(src), timeout, logger)
}

// Defined lists the hooks the script provides, in lifecycle order.
func (r *Runtime) Defined() []dragdrop.HookName {
	var out []dragdrop.HookName
	for _, hook := range dragdrop.HookNames {
		if _, ok := r.funcs[hook]; ok {
			out = append(out, hook)
		}
	}
	return out
}

// Hooks adapts the script functions into controller hooks. Hooks the script
// does not define stay nil.
func (r *Runtime) Hooks() dragdrop.Hooks {
	var h dragdrop.Hooks
	for hook, fn := range r.funcs {
		h.Set(hook, r.adapt(hook, fn))
	}
	return h
}

// Merge returns base with every script-defined hook chained after the
// existing one. The first error stops the chain.
func (r *Runtime) Merge(base dragdrop.Hooks) dragdrop.Hooks {
	script := r.Hooks()
	for _, name := range dragdrop.HookNames {
		first, second := base.Get(name), script.Get(name)
		switch {
		case second == nil:
		case first == nil:
			base.Set(name, second)
		default:
			base.Set(name, func(ev dragdrop.HookEvent) error {
				if err := first(ev); err != nil {
					return err
				}
				return second(ev)
			})
		}
	}
	return base
}

func (r *Runtime) adapt(hook dragdrop.HookName, fn goja.Callable) dragdrop.HookFunc {
	return func(ev dragdrop.HookEvent) error {
		arg := r.bridge.payload(ev)
		res, err := r.run(func() (goja.Value, error) { return fn(goja.Undefined(), arg) })
		if err != nil {
			return err
		}
		if hook == dragdrop.HookBeforeStart && res != nil && !goja.IsUndefined(res) && !goja.IsNull(res) && !res.ToBoolean() {
			return dragdrop.ErrSkipDrag
		}
		return nil
	}
}

// run executes fn under the runtime's time budget.
func (r *Runtime) run(fn func() (goja.Value, error)) (goja.Value, error) {
	timer := time.AfterFunc(r.timeout, func() {
		r.vm.Interrupt(ErrHookTimeout)
	})
	defer func() {
		timer.Stop()
		r.vm.ClearInterrupt()
	}()

	v, err := fn()
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("%w after %s", ErrHookTimeout, r.timeout)
		}
		return nil, err
	}
	return v, nil
}
