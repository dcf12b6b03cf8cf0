// Package sink writes rendered frames to the terminal or to a file.
package sink

import (
	"bufio"
	"fmt"
	"io"

	"github.com/verte-zerg/asciiplay/internal/model"
)

const (
	// CursorHome moves the cursor to row 1, column 1.
	CursorHome = "\x1b[1;1H"
	// BlackBackground paints an opaque near-black background.
	BlackBackground = "\x1b[48;2;1;1;1m"
	// StatsColor resets the foreground to white ahead of the stats text.
	StatsColor = "\x1b[38;2;255;255;255m"
	// ResetAttributes clears every SGR attribute.
	ResetAttributes = "\x1b[0m"
)

// TerminalOptions controls terminal output.
type TerminalOptions struct {
	// Color marks frames as carrying color escapes, so the stats text
	// needs its own foreground.
	Color bool
	// BlackBackground emits the background escape once before the first frame.
	BlackBackground bool
}

// Terminal writes frames in place using an absolute cursor-home escape.
type Terminal struct {
	w       *bufio.Writer
	opts    TerminalOptions
	started bool
}

// NewTerminal returns a terminal sink writing to w.
func NewTerminal(w io.Writer, opts TerminalOptions) *Terminal {
	return &Terminal{w: bufio.NewWriterSize(w, 64*1024), opts: opts}
}

// WriteFrame writes one frame, the optional stats text, and the cursor
// home sequence, then flushes.
func (t *Terminal) WriteFrame(frame, stats string) error {
	if !t.started {
		t.started = true
		if t.opts.BlackBackground {
			if _, err := t.w.WriteString(BlackBackground); err != nil {
				return writeErr(err)
			}
		}
	}
	if _, err := t.w.WriteString(frame); err != nil {
		return writeErr(err)
	}
	if stats != "" {
		if t.opts.Color {
			if _, err := t.w.WriteString(StatsColor); err != nil {
				return writeErr(err)
			}
		}
		if _, err := t.w.WriteString(stats); err != nil {
			return writeErr(err)
		}
	}
	if _, err := t.w.WriteString(CursorHome + "\n"); err != nil {
		return writeErr(err)
	}
	if err := t.w.Flush(); err != nil {
		return writeErr(err)
	}
	return nil
}

// Message prints a status line below the frame stream.
func (t *Terminal) Message(msg string) error {
	if _, err := fmt.Fprintln(t.w, msg); err != nil {
		return writeErr(err)
	}
	return writeErr(t.w.Flush())
}

// Close resets terminal attributes so the shell is not left tinted.
func (t *Terminal) Close() error {
	if !t.started {
		return nil
	}
	if _, err := t.w.WriteString(ResetAttributes); err != nil {
		return writeErr(err)
	}
	return writeErr(t.w.Flush())
}

func writeErr(err error) error {
	if err == nil {
		return nil
	}
	return model.Errorf(model.KindSinkWrite, "failed to write frame: %w", err)
}
