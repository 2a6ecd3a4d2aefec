// Package clock reads and steps the system clock at one-second
// resolution.
package clock

import "time"

// Clock is the local clock as the syncer sees it. Implementations
// report and accept whole Unix seconds.
type Clock interface {
	// Now returns the current local time in Unix seconds.
	Now() int64
	// Step sets the clock to sec, discarding the sub-second part.
	Step(sec int64) error
}

// System is the real system clock.
type System struct{}

var _ Clock = System{}

func (System) Now() int64 {
	return time.Now().Unix()
}

func (System) Step(sec int64) error {
	return settimeofday(sec)
}
