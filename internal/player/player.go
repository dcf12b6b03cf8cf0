// Package player runs the decode, rasterize, pace and emit loop.
package player

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/asciiplay/internal/ffmpeg"
	"github.com/verte-zerg/asciiplay/internal/model"
	"github.com/verte-zerg/asciiplay/internal/pacer"
	"github.com/verte-zerg/asciiplay/internal/raster"
	"github.com/verte-zerg/asciiplay/internal/stats"
)

const (
	// EndOfStreamMessage is printed when the decoder closes its output.
	EndOfStreamMessage = "decoder returned no frame. assume end of stream."
	// CleanExitMessage is the last line of a successful session.
	CleanExitMessage = "Clean exit."
)

// FrameSource yields one exact-size frame per call.
type FrameSource interface {
	ReadFrame(buf []byte) error
}

// Sink receives rendered frames and status lines.
type Sink interface {
	WriteFrame(frame, stats string) error
	Message(msg string) error
}

// Options fixes the geometry and output shape of a session.
type Options struct {
	Source    model.Dims
	Target    model.Dims
	Color     bool
	RowBreaks bool
	ShowStats bool
}

// Player owns the per-frame loop.
type Player struct {
	frames   FrameSource
	sink     Sink
	pacer    *pacer.Pacer
	raster   *raster.Rasterizer
	opts     Options
	recorder stats.Recorder
	logger   *log.Logger
	now      func() time.Time
}

// New wires a player. A nil logger discards diagnostics.
func New(frames FrameSource, sink Sink, p *pacer.Pacer, opts Options, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{
		frames: frames,
		sink:   sink,
		pacer:  p,
		raster: raster.NewRasterizer(opts.Source, opts.Target, raster.Options{
			Color:     opts.Color,
			RowBreaks: opts.RowBreaks,
		}),
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Recorder exposes the timings gathered so far.
func (p *Player) Recorder() *stats.Recorder {
	return &p.recorder
}

// Run presents frames until the decoder reaches end of stream, ctx is
// cancelled, or a fatal error occurs. End of stream returns nil.
func (p *Player) Run(ctx context.Context) error {
	buf := make([]byte, p.opts.Source.FrameSize())
	p.pacer.Begin()
	p.logger.Debug("presenting", "source", p.opts.Source, "target", p.opts.Target, "scale", p.raster.Scale(), "interval", p.pacer.FrameInterval())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		loopStart := p.now()
		if err := p.frames.ReadFrame(buf); err != nil {
			if !errors.Is(err, ffmpeg.ErrEndOfStream) {
				return err
			}
			if cerr := ctx.Err(); cerr != nil {
				// The decoder was killed by cancellation, not drained.
				return cerr
			}
			p.logger.Debug("end of stream", "frames", p.recorder.Frames())
			if err := p.sink.Message(EndOfStreamMessage); err != nil {
				return err
			}
			return p.sink.Message(CleanExitMessage)
		}
		decodeAt := p.now().Sub(loopStart)

		text := p.raster.Render(buf)
		renderAt := p.now().Sub(loopStart)

		late, err := p.pacer.Wait(ctx)
		if err != nil {
			return err
		}
		p.pacer.Advance()
		sleepAt := p.now().Sub(loopStart)

		timing := stats.Timing{
			Frame:  p.pacer.Index(),
			Decode: decodeAt,
			Render: renderAt,
			Sleep:  sleepAt,
			All:    sleepAt,
		}
		p.recorder.Add(timing, late)

		line := ""
		if p.opts.ShowStats {
			line = timing.Line()
		}
		if err := p.sink.WriteFrame(text, line); err != nil {
			return err
		}
	}
}
