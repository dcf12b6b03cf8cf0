package player

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/verte-zerg/asciiplay/internal/ffmpeg"
	"github.com/verte-zerg/asciiplay/internal/model"
	"github.com/verte-zerg/asciiplay/internal/pacer"
	"github.com/verte-zerg/asciiplay/internal/raster"
	"github.com/verte-zerg/asciiplay/internal/sink"
)

type sliceSource struct {
	frames [][]byte
	err    error
	reads  int
}

func (s *sliceSource) ReadFrame(buf []byte) error {
	s.reads++
	if len(s.frames) == 0 {
		if s.err != nil {
			return s.err
		}
		return ffmpeg.ErrEndOfStream
	}
	copy(buf, s.frames[0])
	s.frames = s.frames[1:]
	return nil
}

type recordingSink struct {
	frames   []string
	stats    []string
	messages []string
}

func (r *recordingSink) WriteFrame(frame, stats string) error {
	r.frames = append(r.frames, frame)
	r.stats = append(r.stats, stats)
	return nil
}

func (r *recordingSink) Message(msg string) error {
	r.messages = append(r.messages, msg)
	return nil
}

func uniform(d model.Dims, v byte) []byte {
	buf := make([]byte, d.FrameSize())
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestRunOneFrameThenCleanExit(t *testing.T) {
	src := model.Dims{W: 4, H: 4}
	dst := model.Dims{W: 2, H: 2}
	frames := &sliceSource{frames: [][]byte{uniform(src, 255)}}
	out := &recordingSink{}
	p := New(frames, out, pacer.New(30, pacer.WithDisabled(true)), Options{Source: src, Target: dst}, nil)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(out.frames))
	}
	want := raster.NewRasterizer(src, dst, raster.Options{}).Render(uniform(src, 255))
	if out.frames[0] != want {
		t.Fatalf("frame mismatch: %q vs %q", out.frames[0], want)
	}
	if len(out.messages) != 2 || out.messages[0] != EndOfStreamMessage || out.messages[1] != CleanExitMessage {
		t.Fatalf("unexpected messages: %q", out.messages)
	}
	if p.Recorder().Frames() != 1 {
		t.Fatalf("expected 1 recorded frame, got %d", p.Recorder().Frames())
	}
}

func TestRunEmptyStreamStillExitsCleanly(t *testing.T) {
	out := &recordingSink{}
	p := New(&sliceSource{}, out, pacer.New(30, pacer.WithDisabled(true)), Options{
		Source: model.Dims{W: 2, H: 2},
		Target: model.Dims{W: 1, H: 1},
	}, nil)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.frames) != 0 {
		t.Fatalf("expected no frames, got %d", len(out.frames))
	}
	if got := out.messages[len(out.messages)-1]; got != CleanExitMessage {
		t.Fatalf("last message = %q", got)
	}
}

func TestRunStatsLineCountsFrames(t *testing.T) {
	src := model.Dims{W: 2, H: 2}
	frames := &sliceSource{frames: [][]byte{uniform(src, 0), uniform(src, 0), uniform(src, 0)}}
	out := &recordingSink{}
	p := New(frames, out, pacer.New(30, pacer.WithDisabled(true)), Options{
		Source:    src,
		Target:    model.Dims{W: 1, H: 1},
		ShowStats: true,
	}, nil)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	for i, line := range out.stats {
		prefix := " frame: " + string(rune('1'+i)) + " | all: "
		if !strings.HasPrefix(line, prefix) {
			t.Fatalf("stats[%d] = %q, want prefix %q", i, line, prefix)
		}
	}
}

func TestRunWithoutStatsLeavesLineEmpty(t *testing.T) {
	src := model.Dims{W: 2, H: 2}
	out := &recordingSink{}
	p := New(&sliceSource{frames: [][]byte{uniform(src, 9)}}, out, pacer.New(30, pacer.WithDisabled(true)), Options{
		Source: src,
		Target: model.Dims{W: 1, H: 1},
	}, nil)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.stats[0] != "" {
		t.Fatalf("expected empty stats, got %q", out.stats[0])
	}
}

func TestRunColorEscapesPerCell(t *testing.T) {
	src := model.Dims{W: 4, H: 4}
	dst := model.Dims{W: 2, H: 2}
	var buf bytes.Buffer
	term := sink.NewTerminal(&buf, sink.TerminalOptions{Color: true})
	p := New(&sliceSource{frames: [][]byte{uniform(src, 100)}}, term, pacer.New(30, pacer.WithDisabled(true)), Options{
		Source: src,
		Target: dst,
		Color:  true,
	}, nil)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(buf.String(), "\x1b[38;2;100;100;100m"); got != dst.Pixels() {
		t.Fatalf("expected %d color escapes, got %d", dst.Pixels(), got)
	}
	if !strings.HasSuffix(buf.String(), CleanExitMessage+"\n") {
		t.Fatalf("output does not end with clean exit: %q", buf.String())
	}
}

func TestRunPropagatesReadFailure(t *testing.T) {
	readErr := model.Errorf(model.KindDecoderRead, "failed to read frame: %w", errors.New("pipe broke"))
	out := &recordingSink{}
	p := New(&sliceSource{err: readErr}, out, pacer.New(30, pacer.WithDisabled(true)), Options{
		Source: model.Dims{W: 2, H: 2},
		Target: model.Dims{W: 1, H: 1},
	}, nil)
	err := p.Run(context.Background())
	if kind, ok := model.KindOf(err); !ok || kind != model.KindDecoderRead {
		t.Fatalf("expected decoder read error, got %v", err)
	}
	if len(out.messages) != 0 {
		t.Fatalf("expected no messages, got %q", out.messages)
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	frames := &sliceSource{frames: [][]byte{uniform(model.Dims{W: 2, H: 2}, 1)}}
	p := New(frames, &recordingSink{}, pacer.New(30), Options{
		Source: model.Dims{W: 2, H: 2},
		Target: model.Dims{W: 1, H: 1},
	}, nil)
	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if frames.reads != 0 {
		t.Fatalf("expected no reads, got %d", frames.reads)
	}
}

func TestResolveTarget(t *testing.T) {
	size := func() (int, int, error) { return 120, 40, nil }
	broken := func() (int, int, error) { return 0, 0, errors.New("not a tty") }

	tests := []struct {
		name string
		cfg  model.Config
		size SizeFunc
		want model.Dims
	}{
		{name: "terminal", size: size, want: model.Dims{W: 120, H: 40}},
		{name: "stats row", cfg: model.Config{Verbose: 1}, size: size, want: model.Dims{W: 120, H: 39}},
		{name: "fallback", size: broken, want: DefaultTarget},
		{name: "no query", want: DefaultTarget},
		{name: "override", cfg: model.Config{Verbose: 2, RenderDimension: &model.Dims{W: 10, H: 5}}, size: size, want: model.Dims{W: 10, H: 5}},
		{name: "single row", cfg: model.Config{Verbose: 1}, size: func() (int, int, error) { return 3, 1, nil }, want: model.Dims{W: 3, H: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTarget(tt.cfg, tt.size); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func writeTool(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestSessionRendersToFile(t *testing.T) {
	probe := writeTool(t, "ffprobe", "echo 2,2")
	// Two 2x2 frames of mid grey.
	decode := writeTool(t, "ffmpeg", `i=0; while [ $i -lt 24 ]; do printf '\144'; i=$((i+1)); done`)
	output := filepath.Join(t.TempDir(), "out.txt")

	var stdout bytes.Buffer
	cfg := model.Config{
		VideoPath:       "clip.mp4",
		Silent:          true,
		FPS:             30,
		RenderToFile:    true,
		RenderDimension: &model.Dims{W: 2, H: 1},
		OutputPath:      output,
		Tools:           model.Tools{FFmpeg: decode, FFprobe: probe},
	}
	res, err := Run(context.Background(), cfg, Env{Stdout: &stdout})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Stats.Frames != 2 {
		t.Fatalf("expected 2 frames, got %d", res.Stats.Frames)
	}
	if res.Stats.Source != (model.Dims{W: 2, H: 2}) || res.Stats.Mode != model.ModeRender {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	rows := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %q", data)
	}
	for _, row := range rows {
		if strings.Contains(row, "\x1b") || len(row) != 2 {
			t.Fatalf("row %q is not plain glyphs", row)
		}
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if lines[len(lines)-1] != CleanExitMessage {
		t.Fatalf("last status line = %q", lines[len(lines)-1])
	}
}

func TestSessionProbeFailureStopsEarly(t *testing.T) {
	probe := writeTool(t, "ffprobe", "echo nonsense")
	_, err := Run(context.Background(), model.Config{
		VideoPath: "clip.mp4",
		Silent:    true,
		FPS:       30,
		Tools:     model.Tools{FFmpeg: "/nonexistent/ffmpeg", FFprobe: probe},
	}, Env{Stdout: &bytes.Buffer{}})
	if kind, ok := model.KindOf(err); !ok || kind != model.KindProbeParse {
		t.Fatalf("expected probe parse error, got %v", err)
	}
}
