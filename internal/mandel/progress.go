package mandel

// ProgressUpdate carries the progress state of one frame's rendering from the
// worker goroutines to the display routine.
type ProgressUpdate struct {
	// FrameIndex identifies which frame the update belongs to, so the display
	// can aggregate progress across concurrently rendering frames.
	FrameIndex int
	// Value is the normalized progress of that frame, 0.0 to 1.0.
	Value float64
}

// ProgressReporter is the callback the renderer hands to its row workers so
// they can report completed work without knowing about channels or UI.
type ProgressReporter func(progress float64)
