package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/verte-zerg/asciiplay/internal/model"
)

// File appends frames to an output file. Stats go to a separate status
// writer so the file holds nothing but glyph rows.
type File struct {
	f         *os.File
	w         *bufio.Writer
	status    io.Writer
	statsLine bool
}

// CreateFile truncates or creates path for frame output.
func CreateFile(path string, status io.Writer) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, model.Errorf(model.KindFileCreate, "failed to create render file: %w", err)
	}
	return &File{f: f, w: bufio.NewWriterSize(f, 256*1024), status: status}, nil
}

// Path returns the output file name.
func (s *File) Path() string {
	return s.f.Name()
}

// WriteFrame appends frame to the file and rewrites the status line.
func (s *File) WriteFrame(frame, stats string) error {
	if _, err := s.w.WriteString(frame); err != nil {
		return writeErr(err)
	}
	if stats != "" {
		if _, err := fmt.Fprint(s.status, "\r"+stats); err != nil {
			return writeErr(err)
		}
		s.statsLine = true
	}
	return nil
}

// Message prints a status line, ending any in-place stats line first.
func (s *File) Message(msg string) error {
	if s.statsLine {
		msg = "\n" + msg
		s.statsLine = false
	}
	_, err := fmt.Fprintln(s.status, msg)
	return writeErr(err)
}

// Close flushes buffered frames and closes the file.
func (s *File) Close() error {
	if err := s.w.Flush(); err != nil {
		_ = s.f.Close()
		return writeErr(err)
	}
	return writeErr(s.f.Close())
}
