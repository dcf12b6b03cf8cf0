package stats

import (
	"fmt"
	"time"
)

// Timing holds the phase boundaries of one loop iteration, each measured
// from the iteration start.
type Timing struct {
	Frame  int64
	Decode time.Duration
	Render time.Duration
	Sleep  time.Duration
	All    time.Duration
}

// RenderPhase returns the time spent rasterizing.
func (t Timing) RenderPhase() time.Duration {
	return t.Render - t.Decode
}

// SleepPhase returns the time spent waiting on the frame clock.
func (t Timing) SleepPhase() time.Duration {
	return t.Sleep - t.Render
}

// Line formats the per-frame stats line. The trailing spaces overwrite
// leftovers from a longer previous line.
func (t Timing) Line() string {
	return fmt.Sprintf(" frame: %d | all: %d decode: %d render: %d sleep: %d   ",
		t.Frame,
		t.All.Microseconds(),
		t.Decode.Microseconds(),
		t.RenderPhase().Microseconds(),
		t.SleepPhase().Microseconds(),
	)
}
