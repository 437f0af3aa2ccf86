// Package stopwatch measures wall-clock elapsed time on the monotonic clock.
package stopwatch

import "time"

// Stopwatch holds a single reference instant.
type Stopwatch struct {
	t0 time.Time
}

// New returns a Stopwatch already started at the current instant.
func New() *Stopwatch {
	return &Stopwatch{t0: time.Now()}
}

// Start resets the reference instant.
func (s *Stopwatch) Start() {
	s.t0 = time.Now()
}

// Elapsed returns the time since the reference instant.
// time.Since uses the monotonic reading, so the result never goes backwards.
func (s *Stopwatch) Elapsed() time.Duration {
	d := time.Since(s.t0)
	if d < 0 {
		return 0
	}
	return d
}

func (s *Stopwatch) ElapsedSeconds() float64 {
	return s.Elapsed().Seconds()
}
