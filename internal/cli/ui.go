// Package cli renders the terminal progress display for a running zoom: a
// spinner with an aggregated progress bar and ETA, fed asynchronously by the
// frame workers through a ProgressUpdate channel.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/maya0513/mandelbrot-animation/internal/mandel"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// FormatExecutionDuration formats a time.Duration for display: microseconds
// below a millisecond, milliseconds below a second, default formatting above.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// Spinner abstracts the terminal spinner so DisplayProgress is not coupled to
// a specific implementation and tests can substitute a recording fake.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts the spinner library to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

// newSpinner is a package variable so tests can inject a fake.
var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressState aggregates the per-frame progress of concurrently rendering
// frames into one average, and derives an ETA from the observed rate.
type ProgressState struct {
	progresses []float64
	started    time.Time
	now        func() time.Time
}

// NewProgressState tracks numFrames frames starting from now.
func NewProgressState(numFrames int) *ProgressState {
	return &ProgressState{
		progresses: make([]float64, numFrames),
		started:    time.Now(),
		now:        time.Now,
	}
}

// Update records a new progress value for one frame. Out-of-range indices
// are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage returns the mean progress across all frames, 0.0 to 1.0.
func (ps *ProgressState) CalculateAverage() float64 {
	if len(ps.progresses) == 0 {
		return 0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(len(ps.progresses))
}

// ETA extrapolates the remaining duration from the elapsed time and the
// average progress. It returns zero until there is enough progress for the
// extrapolation to mean anything.
func (ps *ProgressState) ETA() time.Duration {
	avg := ps.CalculateAverage()
	if avg < 1e-4 {
		return 0
	}
	elapsed := ps.now().Sub(ps.started)
	return time.Duration(float64(elapsed) * (1 - avg) / avg)
}

// FormatETA renders an ETA duration for the progress line.
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "--"
	}
	if eta < time.Second {
		return "< 1s"
	}
	return eta.Round(time.Second).String()
}

// progressBar renders a fixed-width textual progress bar.
func progressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayProgress runs in a dedicated goroutine and owns the progress line:
// it consumes updates from progressChan, refreshes the spinner suffix on a
// ticker, and prints a persistent 100% line when the channel closes.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan mandel.ProgressUpdate, numFrames int, out io.Writer) {
	defer wg.Done()
	if numFrames <= 0 {
		for range progressChan { // Drain the channel
		}
		return
	}

	state := NewProgressState(numFrames)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	spinnerStopped := false
	defer func() {
		if !spinnerStopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				if !spinnerStopped {
					s.Stop()
					spinnerStopped = true
				}
				bar := progressBar(1.0, ProgressBarWidth)
				fmt.Fprintf(out, "Frames: %6.2f%% [%s] ETA: %s\n", 100.0, bar, "< 1s")
				return
			}
			state.Update(update.FrameIndex, update.Value)
		case <-ticker.C:
			avg := state.CalculateAverage()
			bar := progressBar(avg, ProgressBarWidth)
			s.UpdateSuffix(fmt.Sprintf(" Frames: %6.2f%% [%s] ETA: %s",
				avg*100, bar, FormatETA(state.ETA())))
		}
	}
}
