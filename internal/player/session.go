package player

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/asciiplay/internal/ffmpeg"
	"github.com/verte-zerg/asciiplay/internal/model"
	"github.com/verte-zerg/asciiplay/internal/pacer"
	"github.com/verte-zerg/asciiplay/internal/sink"
)

// DefaultTarget is used when the terminal size cannot be queried.
var DefaultTarget = model.Dims{W: 80, H: 24}

// SizeFunc reports the terminal size in cells.
type SizeFunc func() (width, height int, err error)

// Env carries the process-level collaborators of a session.
type Env struct {
	Stdout       io.Writer
	Logger       *log.Logger
	TerminalSize SizeFunc
}

// Result describes a finished session.
type Result struct {
	Stats      model.SessionStats
	FrameTimes []float64
}

type closingSink interface {
	Sink
	Close() error
}

// ResolveTarget picks the character grid: the explicit override, else the
// terminal size (80x24 when unknown). One row is kept free for the stats
// line when verbose.
func ResolveTarget(cfg model.Config, size SizeFunc) model.Dims {
	if cfg.RenderDimension != nil {
		return *cfg.RenderDimension
	}
	target := DefaultTarget
	if size != nil {
		if w, h, err := size(); err == nil && w > 0 && h > 0 {
			target = model.Dims{W: w, H: h}
		}
	}
	if cfg.Verbose >= 1 && target.H > 1 {
		target.H--
	}
	return target
}

// Run probes the source, starts the external processes and plays or
// renders cfg.VideoPath until end of stream.
func Run(ctx context.Context, cfg model.Config, env Env) (Result, error) {
	logger := env.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	started := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	source, err := ffmpeg.ProbeDims(ctx, cfg.Tools.FFprobe, cfg.VideoPath)
	if err != nil {
		return Result{}, err
	}
	target := ResolveTarget(cfg, env.TerminalSize)
	logger.Debug("resolved dimensions", "source", source, "target", target)

	var out closingSink
	if cfg.RenderToFile {
		fileSink, err := sink.CreateFile(cfg.OutputPath, env.Stdout)
		if err != nil {
			return Result{}, err
		}
		out = fileSink
	} else {
		out = sink.NewTerminal(env.Stdout, sink.TerminalOptions{
			Color:           cfg.Color(),
			BlackBackground: cfg.BlackBackground,
		})
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Warn("failed to close output", "err", cerr)
		}
	}()

	if !cfg.Silent && !cfg.RenderToFile {
		audio, err := ffmpeg.StartAudio(ctx, cfg.Tools.AudioPlayer, cfg.VideoPath)
		if err != nil {
			return Result{}, err
		}
		defer audio.Stop()
	}

	decoder, err := ffmpeg.StartDecoder(ctx, cfg.Tools.FFmpeg, cfg.VideoPath, cfg.FPS, source)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		// A decoder still writing after a failed frame would block Wait.
		cancel()
		if werr := decoder.Close(); werr != nil {
			logger.Debug("decoder exited", "err", werr)
		}
	}()

	p := pacer.New(cfg.FPS, pacer.WithDisabled(cfg.RenderToFile))
	pl := New(decoder, out, p, Options{
		Source:    source,
		Target:    target,
		Color:     cfg.Color(),
		RowBreaks: cfg.RenderToFile,
		ShowStats: cfg.Verbose >= 1,
	}, logger)
	runErr := pl.Run(ctx)

	result := Result{
		Stats: model.SessionStats{
			StartedAt: started,
			EndedAt:   time.Now(),
			VideoPath: cfg.VideoPath,
			Mode:      cfg.Mode(),
			Source:    source,
			Target:    target,
			FPS:       cfg.FPS,
			Color:     cfg.Color(),
		},
		FrameTimes: pl.Recorder().FrameTimes(),
	}
	pl.Recorder().Fill(&result.Stats)
	return result, runErr
}
