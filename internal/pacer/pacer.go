// Package pacer schedules frame presentation against a wall-clock anchor.
package pacer

import (
	"context"
	"time"
)

// State is the pacer lifecycle state.
type State int

const (
	// Idle is the state before Begin anchors the clock.
	Idle State = iota
	// Presenting is the state while frames are being scheduled.
	Presenting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Presenting:
		return "presenting"
	default:
		return "unknown"
	}
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pacer tracks the frame clock: an anchor instant, a fixed frame interval
// and the index of the next frame to present.
type Pacer struct {
	perFrame time.Duration
	start    time.Time
	index    int64
	state    State
	disabled bool

	now   func() time.Time
	sleep SleepFunc
}

// Option configures a Pacer.
type Option func(*Pacer)

// WithClock replaces the time source and sleeper, mainly for tests.
func WithClock(now func() time.Time, sleep SleepFunc) Option {
	return func(p *Pacer) {
		p.now = now
		p.sleep = sleep
	}
}

// WithDisabled turns Wait into a no-op when disabled is true. Render mode
// writes frames as fast as they decode.
func WithDisabled(disabled bool) Option {
	return func(p *Pacer) {
		p.disabled = disabled
	}
}

// New returns an idle pacer for fps frames per second.
func New(fps int, opts ...Option) *Pacer {
	if fps <= 0 {
		fps = 1
	}
	p := &Pacer{
		perFrame: time.Duration(int64(time.Second) / int64(fps)),
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Begin anchors the clock at the current instant and resets the frame index.
func (p *Pacer) Begin() {
	p.start = p.now()
	p.index = 0
	p.state = Presenting
}

// State returns the current lifecycle state.
func (p *Pacer) State() State {
	return p.state
}

// Index returns the index of the next frame to present.
func (p *Pacer) Index() int64 {
	return p.index
}

// FrameInterval returns the time between scheduled frames.
func (p *Pacer) FrameInterval() time.Duration {
	return p.perFrame
}

// Deadline returns the scheduled presentation time of the current frame.
func (p *Pacer) Deadline() time.Time {
	return p.start.Add(time.Duration(p.index) * p.perFrame)
}

// Wait sleeps until the current frame's deadline. Frames behind schedule
// return immediately; they are never skipped. late is set once a frame is a
// full interval or more past its deadline.
func (p *Pacer) Wait(ctx context.Context) (late bool, err error) {
	if p.disabled {
		return false, nil
	}
	if p.state == Idle {
		p.Begin()
	}
	remaining := p.Deadline().Sub(p.now())
	if remaining <= 0 {
		return -remaining >= p.perFrame, nil
	}
	return false, p.sleep(ctx, remaining)
}

// Advance moves to the next frame.
func (p *Pacer) Advance() {
	p.index++
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
