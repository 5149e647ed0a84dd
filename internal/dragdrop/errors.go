// internal/dragdrop/errors.go
package dragdrop

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionActive is returned when a drag starts while another is in progress.
	ErrSessionActive = errors.New("drag session already active")
	// ErrSkipDrag may be returned by the before-start hook to cancel a drag quietly.
	ErrSkipDrag = errors.New("drag skipped")
	// ErrInvalidOptions wraps every Options validation failure.
	ErrInvalidOptions = errors.New("invalid drag options")
)

// HookError records a failed or panicking lifecycle hook.
type HookError struct {
	Hook HookName
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hook %s failed: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }
