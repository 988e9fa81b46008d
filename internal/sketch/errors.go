package sketch

import (
	"errors"
	"fmt"
)

// Sketch errors.
var (
	// ErrReentrantTick is the panic value of a Tick that starts while another
	// is in progress. It means the surface broke its contract.
	ErrReentrantTick = errors.New("tick started while another tick is in progress")

	// ErrNotRealized is the panic value of a Tick on a sketch whose
	// rendering context has not been realized by Start.
	ErrNotRealized = errors.New("tick before the rendering context was realized")

	// ErrExited indicates an operation on a sketch that has exited.
	ErrExited = errors.New("sketch has exited")

	// ErrConfiguring indicates Start was called from inside Settings.
	ErrConfiguring = errors.New("sketch is still being configured")

	// ErrInvalidSetting indicates a configuration value out of range.
	ErrInvalidSetting = errors.New("invalid setting")
)

// ConfigError reports a configuration call made outside Settings.
type ConfigError struct {
	Call   string // The rejected call, e.g. "Size"
	Remedy string // Where the call belongs
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s() cannot be used here; %s", e.Call, e.Remedy)
}

// Fatal marks configuration errors as propagating when returned from a hook.
func (e *ConfigError) Fatal() bool { return true }

// RecoveredPanicError is a panic recovered from setup, draw or a hook by
// the surface and handed to HandleUncaught.
type RecoveredPanicError struct {
	Value any
	Stack []byte
}

func (e *RecoveredPanicError) Error() string {
	return fmt.Sprintf("uncaught panic: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *RecoveredPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
