package stats

import (
	"context"

	"github.com/verte-zerg/asciiplay/internal/model"
	"github.com/verte-zerg/asciiplay/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Totals   model.SessionStats
}

// BuildReport loads sessions matching cfg and totals them.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return Report{
		Sessions: sessions,
		Totals:   totals(sessions),
	}, nil
}

func totals(sessions []model.SessionAggregate) model.SessionStats {
	var out model.SessionStats
	for _, s := range sessions {
		out.Frames += s.Frames
		out.LateFrames += s.LateFrames
		out.DecodeUs += s.DecodeUs
		out.RenderUs += s.RenderUs
		out.SleepUs += s.SleepUs
		out.TotalUs += s.TotalUs
		if s.MaxFrameUs > out.MaxFrameUs {
			out.MaxFrameUs = s.MaxFrameUs
		}
	}
	return out
}
