// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Playback modes recorded in session history.
const (
	ModePlay   = "play"
	ModeRender = "render"
)

// Dims is a width/height pair in pixels (source) or character cells (target).
type Dims struct {
	W int
	H int
}

// String formats dims the way the CLI accepts them.
func (d Dims) String() string {
	return fmt.Sprintf("%d,%d", d.W, d.H)
}

// Pixels returns W*H.
func (d Dims) Pixels() int {
	return d.W * d.H
}

// FrameSize returns the RGB24 byte length of one frame with these dims.
func (d Dims) FrameSize() int {
	return d.W * d.H * 3
}

// Scale maps target cell coordinates onto source pixel coordinates.
type Scale struct {
	X float64
	Y float64
}

// ScaleBetween derives the source/target scale factor.
func ScaleBetween(source, target Dims) Scale {
	return Scale{
		X: float64(source.W) / float64(target.W),
		Y: float64(source.H) / float64(target.H),
	}
}

// Tools names the external binaries the player shells out to.
type Tools struct {
	FFmpeg      string
	FFprobe     string
	AudioPlayer string
}

// Config defines playback settings.
type Config struct {
	VideoPath       string
	Monochrome      bool
	Silent          bool
	FPS             int
	BlackBackground bool
	Verbose         int
	RenderToFile    bool
	RenderDimension *Dims
	OutputPath      string
	Tools           Tools
	RecordHistory   bool
}

// Color reports whether color escapes should be interleaved with glyphs.
func (c Config) Color() bool {
	return !c.Monochrome && !c.RenderToFile
}

// Mode returns the history label for the config.
func (c Config) Mode() string {
	if c.RenderToFile {
		return ModeRender
	}
	return ModePlay
}

// HistoryConfig defines filters for the history views.
type HistoryConfig struct {
	Mode string
	Last int
}

// SessionStats captures a finished playback or render session.
type SessionStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	VideoPath  string
	Mode       string
	Source     Dims
	Target     Dims
	FPS        int
	Color      bool
	Frames     int64
	LateFrames int64
	DecodeUs   int64
	RenderUs   int64
	SleepUs    int64
	TotalUs    int64
	MaxFrameUs int64
}

// SessionAggregate is a stored session as listed by the history views.
type SessionAggregate struct {
	SessionID int64
	SessionStats
}
