package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/verte-zerg/asciiplay/internal/model"
)

// ProbeArgs returns the ffprobe arguments that print "W,H" for the first
// video stream of path.
func ProbeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0",
		path,
	}
}

// ProbeDims runs ffprobe against path and parses the reported raster size.
func ProbeDims(ctx context.Context, binary, path string) (model.Dims, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, binary, ProbeArgs(path)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return model.Dims{}, model.Errorf(model.KindProbeParse, "ffprobe failed for %s: %s", path, strings.TrimSpace(stderr.String()))
		}
		return model.Dims{}, model.Errorf(model.KindProbeSpawn, "failed to run %s: %w", binary, err)
	}
	dims, err := ParseDims(string(out))
	if err != nil {
		return model.Dims{}, model.WrapKind(model.KindProbeParse, fmt.Errorf("failed to parse video dimension %q: %w", strings.TrimSpace(string(out)), err))
	}
	return dims, nil
}

// ParseDims parses "W,H". Empty components are skipped so trailing commas
// and newlines are tolerated; both values must be positive.
func ParseDims(value string) (model.Dims, error) {
	parts := make([]int, 0, 2)
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return model.Dims{}, fmt.Errorf("%q is not a number", field)
		}
		parts = append(parts, n)
	}
	if len(parts) != 2 {
		return model.Dims{}, fmt.Errorf("expected two components, got %d", len(parts))
	}
	if parts[0] <= 0 || parts[1] <= 0 {
		return model.Dims{}, fmt.Errorf("dimensions must be positive")
	}
	return model.Dims{W: parts[0], H: parts[1]}, nil
}
