package stats

import (
	"time"

	"github.com/verte-zerg/asciiplay/internal/model"
)

// Recorder accumulates per-frame timings for a session.
type Recorder struct {
	frames     int64
	late       int64
	decode     time.Duration
	render     time.Duration
	sleep      time.Duration
	total      time.Duration
	maxFrame   time.Duration
	frameTimes []float64
}

// Add records one presented frame.
func (r *Recorder) Add(t Timing, late bool) {
	r.frames++
	if late {
		r.late++
	}
	r.decode += t.Decode
	r.render += t.RenderPhase()
	r.sleep += t.SleepPhase()
	r.total += t.All
	work := t.All - t.SleepPhase()
	if work > r.maxFrame {
		r.maxFrame = work
	}
	r.frameTimes = append(r.frameTimes, float64(work.Microseconds()))
}

// Frames returns the number of recorded frames.
func (r *Recorder) Frames() int64 {
	return r.frames
}

// FrameTimes returns the decode+render time of each frame in microseconds.
func (r *Recorder) FrameTimes() []float64 {
	return r.frameTimes
}

// Fill copies the accumulated totals into s.
func (r *Recorder) Fill(s *model.SessionStats) {
	s.Frames = r.frames
	s.LateFrames = r.late
	s.DecodeUs = r.decode.Microseconds()
	s.RenderUs = r.render.Microseconds()
	s.SleepUs = r.sleep.Microseconds()
	s.TotalUs = r.total.Microseconds()
	s.MaxFrameUs = r.maxFrame.Microseconds()
}
