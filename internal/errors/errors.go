// Package apperrors defines structured application error types, keeping the
// error classes of the renderer distinct: configuration problems abort before
// any frame is touched, per-frame failures carry their frame index so the run
// can report exactly which frames are missing, and context errors map to
// their own exit codes.
//
// All wrapping types implement Unwrap() so errors.Is and errors.As work
// through them.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes signal the outcome of the run to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the run timed out.
	ExitErrorRender   = 3   // Indicates one or more frames failed to render or write.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the run was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid
// dimensions or an inverted zoom range. It always aborts before rendering.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// RenderError wraps a failure while computing one frame's pixel grid,
// preserving the frame index and the underlying cause.
type RenderError struct {
	// Frame is the index of the affected frame.
	Frame int
	// Cause is the underlying error.
	Cause error
}

func (e RenderError) Error() string {
	return fmt.Sprintf("render frame %d: %v", e.Frame, e.Cause)
}

// Unwrap returns the underlying cause, supporting errors.Is/As inspection.
func (e RenderError) Unwrap() error { return e.Cause }

// FrameWriteError wraps an I/O failure while serializing a frame. A write
// failure is fatal for that frame only; the orchestrator collects the indices
// so that no gap in the sequence goes unnoticed.
type FrameWriteError struct {
	// Frame is the index of the affected frame.
	Frame int
	// Path is the destination the frame could not be written to.
	Path string
	// Cause is the underlying I/O error.
	Cause error
}

func (e FrameWriteError) Error() string {
	return fmt.Sprintf("write frame %d to %s: %v", e.Frame, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e FrameWriteError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using %w semantics.
// It returns nil when err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError reports whether err is a cancellation or deadline error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
