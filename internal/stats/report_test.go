package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/asciiplay/internal/model"
	"github.com/verte-zerg/asciiplay/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		id, err := st.InsertSession(ctx, model.SessionStats{
			StartedAt:  start,
			EndedAt:    start.Add(30 * time.Second),
			VideoPath:  "clip.mp4",
			Mode:       model.ModePlay,
			Source:     model.Dims{W: 320, H: 240},
			Target:     model.Dims{W: 80, H: 24},
			FPS:        30,
			Frames:     900,
			LateFrames: int64(i),
			TotalUs:    30_000_000,
			MaxFrameUs: int64(1000 * (i + 1)),
		})
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if report.Totals.Frames != 1800 || report.Totals.LateFrames != 3 {
		t.Fatalf("unexpected totals: %+v", report.Totals)
	}
	if report.Totals.MaxFrameUs != 3000 {
		t.Fatalf("expected max frame 3000, got %d", report.Totals.MaxFrameUs)
	}
}
