// Package output serializes rendered frames to disk. The only contract with
// the downstream video encoder is the zero-padded naming scheme and the
// guarantee that a file carrying a final frame name is complete: frames are
// written to a temporary sibling and renamed into place, so a crash mid-write
// can never leave a truncated file that looks finished.
package output

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	apperrors "github.com/maya0513/mandelbrot-animation/internal/errors"
)

// FrameFilename returns the canonical name for a frame index, e.g.
// "frame_000042.png". Fixed-width zero padding keeps lexical and numeric
// ordering identical, which is what the encoder's glob relies on.
func FrameFilename(index int) string {
	return fmt.Sprintf("frame_%06d.png", index)
}

// EnsureDir creates the output directory (and parents) if needed and verifies
// it is writable, so configuration problems surface before any rendering
// starts.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewConfigError("output directory %q: %v", dir, err)
	}
	probe, err := os.CreateTemp(dir, ".mandelzoom-probe-*")
	if err != nil {
		return apperrors.NewConfigError("output directory %q is not writable: %v", dir, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

// WriteFrame encodes img as PNG under dir with the canonical frame name and
// returns the final path. On any failure the temporary file is removed and no
// file exists under the final name.
func WriteFrame(dir string, index int, img image.Image) (string, error) {
	final := filepath.Join(dir, FrameFilename(index))

	tmp, err := os.CreateTemp(dir, FrameFilename(index)+".tmp-*")
	if err != nil {
		return "", apperrors.FrameWriteError{Frame: index, Path: final, Cause: err}
	}
	tmpName := tmp.Name()

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", apperrors.FrameWriteError{Frame: index, Path: final, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", apperrors.FrameWriteError{Frame: index, Path: final, Cause: err}
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return "", apperrors.FrameWriteError{Frame: index, Path: final, Cause: err}
	}
	return final, nil
}

// FFmpegHint returns the encoder invocation that assembles the numbered
// frames in dir into a video at the given frame rate.
func FFmpegHint(fps int, dir string) string {
	return fmt.Sprintf(
		"ffmpeg -framerate %d -i %s -c:v libx264 -pix_fmt yuv420p out/mandelbrot.mp4",
		fps, filepath.Join(dir, "frame_%06d.png"),
	)
}
