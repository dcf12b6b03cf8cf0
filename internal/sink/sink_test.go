package sink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/asciiplay/internal/model"
)

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestTerminalFrameLayout(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, TerminalOptions{Color: true, BlackBackground: true})
	if err := term.WriteFrame("ab", " frame: 1 "); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if err := term.WriteFrame("cd", ""); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	want := BlackBackground + "ab" + StatsColor + " frame: 1 " + CursorHome + "\n" + "cd" + CursorHome + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", got, want)
	}
	if err := term.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !strings.HasSuffix(buf.String(), ResetAttributes) {
		t.Fatalf("expected attribute reset on close")
	}
}

func TestTerminalMonochromeStatsHaveNoColor(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, TerminalOptions{})
	if err := term.WriteFrame("ab", "stats"); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[38;2;") || strings.Contains(buf.String(), "\x1b[48;2;") {
		t.Fatalf("monochrome output contains color escapes: %q", buf.String())
	}
}

func TestTerminalWriteFailureIsKinded(t *testing.T) {
	term := NewTerminal(brokenWriter{}, TerminalOptions{})
	err := term.WriteFrame("ab", "")
	if kind, ok := model.KindOf(err); !ok || kind != model.KindSinkWrite {
		t.Fatalf("expected SinkWrite, got %v", err)
	}
}

func TestFileSinkSeparatesStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render")
	var status bytes.Buffer
	fs, err := CreateFile(path, &status)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := fs.WriteFrame("@@\n  \n", " frame: 1 "); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if err := fs.WriteFrame("--\ncc\n", " frame: 2 "); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if err := fs.Message("Clean exit."); err != nil {
		t.Fatalf("message: %v", err)
	}
	if err := fs.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "@@\n  \n--\ncc\n" {
		t.Fatalf("unexpected file contents %q", data)
	}
	if got := status.String(); got != "\r frame: 1 \r frame: 2 \nClean exit.\n" {
		t.Fatalf("unexpected status output %q", got)
	}
}

func TestCreateFileFailureIsKinded(t *testing.T) {
	_, err := CreateFile(filepath.Join(t.TempDir(), "missing", "render"), &bytes.Buffer{})
	if kind, ok := model.KindOf(err); !ok || kind != model.KindFileCreate {
		t.Fatalf("expected FileCreate, got %v", err)
	}
}
