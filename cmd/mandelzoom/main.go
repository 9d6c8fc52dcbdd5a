// Command mandelzoom renders a deterministic Mandelbrot deep-zoom frame
// sequence as numbered PNG files, ready for ffmpeg encoding.
package main

import (
	"context"
	"os"

	"github.com/maya0513/mandelbrot-animation/internal/app"
	apperrors "github.com/maya0513/mandelbrot-animation/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
