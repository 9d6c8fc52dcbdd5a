package apperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

func TestRenderErrorUnwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("orbit overflow")
	err := RenderError{Frame: 17, Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is failed to see through RenderError")
	}
	if !strings.Contains(err.Error(), "17") {
		t.Errorf("RenderError message %q does not name the frame", err.Error())
	}
}

func TestFrameWriteErrorUnwrap(t *testing.T) {
	t.Parallel()
	cause := io.ErrShortWrite
	err := FrameWriteError{Frame: 3, Path: "/out/frame_000003.png", Cause: cause}

	if !errors.Is(err, io.ErrShortWrite) {
		t.Error("errors.Is failed to see through FrameWriteError")
	}
	for _, want := range []string{"3", "/out/frame_000003.png"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("FrameWriteError message %q missing %q", err.Error(), want)
		}
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should be nil")
	}
	base := errors.New("base")
	wrapped := WrapError(base, "frame %d", 9)
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error lost its cause")
	}
	if !strings.Contains(wrapped.Error(), "frame 9") {
		t.Errorf("wrapped message %q missing context", wrapped.Error())
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	if !IsContextError(context.Canceled) || !IsContextError(context.DeadlineExceeded) {
		t.Error("context errors not recognized")
	}
	if IsContextError(errors.New("other")) || IsContextError(nil) {
		t.Error("non-context error recognized as context error")
	}
	wrapped := fmt.Errorf("frame 4: %w", context.Canceled)
	if !IsContextError(wrapped) {
		t.Error("wrapped cancellation not recognized")
	}
}

func TestHandleRunError(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantText string
	}{
		{"nil", nil, ExitSuccess, ""},
		{"timeout", context.DeadlineExceeded, ExitErrorTimeout, "Timeout"},
		{"canceled", context.Canceled, ExitErrorCanceled, "Canceled"},
		{"generic", errors.New("boom"), ExitErrorGeneric, "boom"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleRunError(tc.err, 2*time.Second, &buf, nil)
			if code != tc.wantCode {
				t.Errorf("exit code = %d, want %d", code, tc.wantCode)
			}
			if tc.wantText != "" && !strings.Contains(buf.String(), tc.wantText) {
				t.Errorf("output %q missing %q", buf.String(), tc.wantText)
			}
		})
	}
}
