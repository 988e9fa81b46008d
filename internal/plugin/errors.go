package plugin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/sketchrun/internal/hook"
)

// Plugin errors.
var (
	// ErrPluginClosed is returned when calling into a closed plugin.
	ErrPluginClosed = errors.New("plugin is closed")

	// ErrNoManifest is returned when a directory has no plugin.yaml.
	ErrNoManifest = errors.New("plugin manifest not found")

	// ErrInvalidManifest is returned when manifest validation fails.
	ErrInvalidManifest = errors.New("invalid plugin manifest")
)

// fatalPrefix marks a Lua error as fatal.
const fatalPrefix = "fatal:"

// ScriptError is an error raised by Lua code.
type ScriptError struct {
	Plugin   string
	Function string
	Message  string
	Err      error
}

func (e *ScriptError) Error() string {
	if e.Function == "" {
		return fmt.Sprintf("plugin %s: %s", e.Plugin, e.Message)
	}
	return fmt.Sprintf("plugin %s: %s: %s", e.Plugin, e.Function, e.Message)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the script asked to stop the sketch.
func (e *ScriptError) Fatal() bool {
	return isFatalMessage(e.Message)
}

// isFatalMessage matches "fatal:" at the start of the message or after the
// "chunk:line:" position gopher-lua prepends.
func isFatalMessage(msg string) bool {
	first, _, _ := strings.Cut(msg, "\n")
	if strings.HasPrefix(strings.TrimSpace(first), fatalPrefix) {
		return true
	}
	return strings.Contains(first, ": "+fatalPrefix)
}

var _ hook.Fataler = (*ScriptError)(nil)
