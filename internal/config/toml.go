// Package config provides configuration helpers and TOML parsing.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play    PlayConfig    `toml:"play"`
	Render  RenderConfig  `toml:"render"`
	Tools   ToolsConfig   `toml:"tools"`
	History HistoryConfig `toml:"history"`
}

// PlayConfig maps playback settings.
type PlayConfig struct {
	FPS             *int  `toml:"fps"`
	Monochrome      *bool `toml:"monochrome"`
	Silent          *bool `toml:"silent"`
	BlackBackground *bool `toml:"black-background"`
	Verbose         *int  `toml:"verbose"`
}

// RenderConfig maps render-to-file settings.
type RenderConfig struct {
	FPS    *int    `toml:"fps"`
	Output *string `toml:"output"`
}

// ToolsConfig names the external binaries.
type ToolsConfig struct {
	FFmpeg      *string `toml:"ffmpeg"`
	FFprobe     *string `toml:"ffprobe"`
	AudioPlayer *string `toml:"audio-player"`
}

// HistoryConfig controls session recording.
type HistoryConfig struct {
	Enabled *bool `toml:"enabled"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Defaults returns a config with every key set to its built-in value.
func Defaults() FileConfig {
	fps := 30
	off := false
	on := true
	verbose := 0
	output := "render"
	ffmpeg := "ffmpeg"
	ffprobe := "ffprobe"
	audio := "mpv"
	return FileConfig{
		Play: PlayConfig{
			FPS:             &fps,
			Monochrome:      &off,
			Silent:          &off,
			BlackBackground: &off,
			Verbose:         &verbose,
		},
		Render:  RenderConfig{FPS: &fps, Output: &output},
		Tools:   ToolsConfig{FFmpeg: &ffmpeg, FFprobe: &ffprobe, AudioPlayer: &audio},
		History: HistoryConfig{Enabled: &on},
	}
}

// Encode renders cfg as TOML.
func Encode(cfg FileConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// EnsureConfig writes the default config to path unless a file exists.
// It reports whether a new file was created.
func EnsureConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	data, err := Encode(Defaults())
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
