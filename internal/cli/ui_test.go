package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/maya0513/mandelbrot-animation/internal/mandel"
)

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	cases := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{42 * time.Millisecond, "42ms"},
		{3 * time.Second, "3s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tc := range cases {
		if got := FormatExecutionDuration(tc.d); got != tc.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	if got := progressBar(0.5, 10); strings.Count(got, "█") != 5 {
		t.Errorf("half bar = %q", got)
	}
	if got := progressBar(-1, 10); strings.Count(got, "█") != 0 {
		t.Errorf("negative progress bar = %q", got)
	}
	if got := progressBar(7, 10); strings.Count(got, "█") != 10 {
		t.Errorf("overflowing progress bar = %q", got)
	}
}

func TestProgressStateAverage(t *testing.T) {
	t.Parallel()
	ps := NewProgressState(4)
	ps.Update(0, 1.0)
	ps.Update(1, 0.5)
	ps.Update(7, 1.0) // out of range, ignored
	if got := ps.CalculateAverage(); got != 0.375 {
		t.Errorf("average = %v, want 0.375", got)
	}
}

func TestProgressStateETA(t *testing.T) {
	t.Parallel()
	ps := NewProgressState(1)
	base := time.Now()
	ps.started = base
	ps.now = func() time.Time { return base.Add(10 * time.Second) }

	if got := ps.ETA(); got != 0 {
		t.Errorf("ETA with no progress = %v, want 0", got)
	}
	ps.Update(0, 0.25)
	if got := ps.ETA(); got != 30*time.Second {
		t.Errorf("ETA at 25%% after 10s = %v, want 30s", got)
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	if got := FormatETA(0); got != "--" {
		t.Errorf("FormatETA(0) = %q", got)
	}
	if got := FormatETA(200 * time.Millisecond); got != "< 1s" {
		t.Errorf("FormatETA(<1s) = %q", got)
	}
	if got := FormatETA(61 * time.Second); got != "1m1s" {
		t.Errorf("FormatETA(61s) = %q", got)
	}
}

// fakeSpinner records spinner lifecycle calls for DisplayProgress tests.
type fakeSpinner struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	suffixes []string
}

func (f *fakeSpinner) Start() { f.mu.Lock(); f.started = true; f.mu.Unlock() }
func (f *fakeSpinner) Stop()  { f.mu.Lock(); f.stopped = true; f.mu.Unlock() }
func (f *fakeSpinner) UpdateSuffix(s string) {
	f.mu.Lock()
	f.suffixes = append(f.suffixes, s)
	f.mu.Unlock()
}

func TestDisplayProgressCompletes(t *testing.T) {
	fake := &fakeSpinner{}
	orig := newSpinner
	newSpinner = func(options ...spinner.Option) Spinner { return fake }
	defer func() { newSpinner = orig }()

	var buf bytes.Buffer
	ch := make(chan mandel.ProgressUpdate, 8)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, ch, 2, &buf)

	ch <- mandel.ProgressUpdate{FrameIndex: 0, Value: 1.0}
	ch <- mandel.ProgressUpdate{FrameIndex: 1, Value: 1.0}
	close(ch)
	wg.Wait()

	if !fake.started || !fake.stopped {
		t.Error("spinner lifecycle not driven: started/stopped flags missing")
	}
	if !strings.Contains(buf.String(), "100.00%") {
		t.Errorf("final output %q missing persistent 100%% line", buf.String())
	}
}

func TestDisplayProgressZeroFramesDrains(t *testing.T) {
	ch := make(chan mandel.ProgressUpdate, 2)
	ch <- mandel.ProgressUpdate{}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	done := make(chan struct{})
	go func() {
		DisplayProgress(&wg, ch, 0, &bytes.Buffer{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("DisplayProgress with zero frames did not drain and return")
	}
}
