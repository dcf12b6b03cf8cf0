// Package store handles SQLite persistence of playback history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/asciiplay/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			video_path TEXT NOT NULL,
			mode TEXT NOT NULL,
			source_w INTEGER NOT NULL,
			source_h INTEGER NOT NULL,
			target_w INTEGER NOT NULL,
			target_h INTEGER NOT NULL,
			fps INTEGER NOT NULL,
			color INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			late_frames INTEGER NOT NULL,
			decode_us INTEGER NOT NULL,
			render_us INTEGER NOT NULL,
			sleep_us INTEGER NOT NULL,
			total_us INTEGER NOT NULL,
			max_frame_us INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_mode ON sessions(mode);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, video_path, mode, source_w, source_h, target_w, target_h,
			fps, color, frames, late_frames, decode_us, render_us, sleep_us, total_us, max_frame_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.VideoPath,
		stats.Mode,
		stats.Source.W,
		stats.Source.H,
		stats.Target.W,
		stats.Target.H,
		stats.FPS,
		boolToInt(stats.Color),
		stats.Frames,
		stats.LateFrames,
		stats.DecodeUs,
		stats.RenderUs,
		stats.SleepUs,
		stats.TotalUs,
		stats.MaxFrameUs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns sessions matching cfg, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.HistoryConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, video_path, mode, source_w, source_h, target_w, target_h,
			fps, color, frames, late_frames, decode_us, render_us, sleep_us, total_us, max_frame_us
		FROM sessions
		WHERE %s
		ORDER BY started_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var startedAt, endedAt string
		var color int
		if err := rows.Scan(
			&agg.SessionID, &startedAt, &endedAt, &agg.VideoPath, &agg.Mode,
			&agg.Source.W, &agg.Source.H, &agg.Target.W, &agg.Target.H,
			&agg.FPS, &color, &agg.Frames, &agg.LateFrames,
			&agg.DecodeUs, &agg.RenderUs, &agg.SleepUs, &agg.TotalUs, &agg.MaxFrameUs,
		); err != nil {
			return nil, err
		}
		if agg.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if agg.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		agg.Color = color != 0
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
