package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/verte-zerg/asciiplay/internal/model"
)

// ErrEndOfStream reports that the decoder closed its output. It is the
// normal way a session ends, not a failure.
var ErrEndOfStream = errors.New("decoder returned no frame")

// DecoderArgs returns the ffmpeg arguments for raw RGB24 output at fps.
func DecoderArgs(path string, fps int) []string {
	return []string{
		"-loglevel", "error",
		"-i", path,
		"-filter:v", "fps=fps=" + strconv.Itoa(fps),
		"-f", "image2pipe",
		"-pix_fmt", "rgb24",
		"-vcodec", "rawvideo",
		"-",
	}
}

// FrameReader yields fixed-size frames from a byte stream.
type FrameReader struct {
	r    io.Reader
	size int
}

// NewFrameReader reads frames of size bytes from r.
func NewFrameReader(r io.Reader, size int) *FrameReader {
	return &FrameReader{r: r, size: size}
}

// FrameSize returns the number of bytes in one frame.
func (f *FrameReader) FrameSize() int {
	return f.size
}

// ReadFrame fills buf with exactly one frame. A zero-length or partial read
// returns ErrEndOfStream.
func (f *FrameReader) ReadFrame(buf []byte) error {
	if len(buf) != f.size {
		return fmt.Errorf("frame buffer is %d bytes, want %d", len(buf), f.size)
	}
	if _, err := io.ReadFull(f.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrEndOfStream
		}
		return model.Errorf(model.KindDecoderRead, "failed to read frame: %w", err)
	}
	return nil
}

// Decoder is a running ffmpeg process streaming frames on its stdout.
type Decoder struct {
	*FrameReader
	cmd *exec.Cmd
}

// StartDecoder spawns ffmpeg for path. Cancelling ctx kills the process.
func StartDecoder(ctx context.Context, binary, path string, fps int, source model.Dims) (*Decoder, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, DecoderArgs(path, fps)...)
	// stderr stays unattached so diagnostics never interleave with frame bytes.
	cmd.Stderr = nil
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, model.Errorf(model.KindDecoderSpawn, "failed to open decoder output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, model.Errorf(model.KindDecoderSpawn, "failed to start %s: %w", binary, err)
	}
	return &Decoder{
		FrameReader: NewFrameReader(stdout, source.FrameSize()),
		cmd:         cmd,
	}, nil
}

// Close waits for the decoder to exit and releases its pipe.
func (d *Decoder) Close() error {
	if d == nil || d.cmd == nil {
		return nil
	}
	return d.cmd.Wait()
}
