// Package stats contains timing calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/asciiplay/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes achieved frames per second and mean per-phase
// microseconds for a session.
func SessionMetrics(s model.SessionStats) (fps, decodeUs, renderUs, sleepUs float64) {
	if s.Frames <= 0 {
		return 0, 0, 0, 0
	}
	n := float64(s.Frames)
	if s.TotalUs > 0 {
		fps = n / (float64(s.TotalUs) / 1e6)
	}
	return fps, float64(s.DecodeUs) / n, float64(s.RenderUs) / n, float64(s.SleepUs) / n
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Downsample averages values into at most n buckets.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		lo := i * len(values) / n
		hi := (i + 1) * len(values) / n
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints an end-of-session summary. frameTimes feeds the
// sparkline, squeezed to width columns when width is positive.
func RenderSummary(w io.Writer, s model.SessionStats, frameTimes []float64, width int) error {
	if s.Frames == 0 {
		_, err := fmt.Fprintln(w, "No frames presented.")
		return err
	}
	fps, decodeUs, renderUs, sleepUs := SessionMetrics(s)
	lines := []string{
		"Summary",
		fmt.Sprintf("Frames: %d (late: %d)", s.Frames, s.LateFrames),
		fmt.Sprintf("Grid: %s from %s", s.Target, s.Source),
		fmt.Sprintf("FPS: %.2f achieved / %d target", fps, s.FPS),
		fmt.Sprintf("Avg decode: %.0fus render: %.0fus sleep: %.0fus", decodeUs, renderUs, sleepUs),
		fmt.Sprintf("Slowest frame: %dus", s.MaxFrameUs),
	}
	if len(frameTimes) > 0 {
		label := "Frame time: "
		cols := width - len(label)
		if width <= 0 || cols < 10 {
			cols = 60
		}
		lines = append(lines, label+Sparkline(Downsample(frameTimes, cols)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints stored sessions as a table.
func RenderHistory(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	_, rows := HistoryRows(sessions)
	return writeHistoryTable(w, rows)
}

// HistoryRows builds the header and cell text shared by the plain and
// interactive history views.
func HistoryRows(sessions []model.SessionAggregate) ([]string, [][]string) {
	headers := historyHeaders()
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		fps, _, _, _ := SessionMetrics(s.SessionStats)
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.SessionID),
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.Mode,
			s.VideoPath,
			s.Target.String(),
			fmt.Sprintf("%d", s.FPS),
			fmt.Sprintf("%d", s.Frames),
			fmt.Sprintf("%d", s.LateFrames),
			fmt.Sprintf("%.1f", fps),
		})
	}
	return headers, rows
}
