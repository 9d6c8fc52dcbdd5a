// Package parallel provides utilities for concurrent operations.
package parallel

import "sync"

// ErrorCollector records the first error observed by a group of goroutines.
// The renderer's row workers use it instead of an errgroup because a row
// failure must not cancel sibling rows: the pixel grid has to be fully
// populated (or the whole frame abandoned) before the frame can be judged,
// and the first error is all the caller needs to report.
//
// It is safe for concurrent use.
type ErrorCollector struct {
	once sync.Once
	err  error
}

// Record stores err if no error has been stored yet. Nil errors are ignored.
func (c *ErrorCollector) Record(err error) {
	if err != nil {
		c.once.Do(func() {
			c.err = err
		})
	}
}

// Err returns the first recorded error, or nil. Call it after the goroutines
// using the collector have finished.
func (c *ErrorCollector) Err() error {
	return c.err
}
