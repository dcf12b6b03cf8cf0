package ffmpeg

import (
	"context"
	"os/exec"
	"strings"

	"github.com/verte-zerg/asciiplay/internal/model"
)

// AudioArgs returns the player arguments for audio-only playback.
func AudioArgs(path string) []string {
	return []string{"--no-video", "--really-quiet", path}
}

// Audio is a background audio player. Its exit status is never observed.
type Audio struct {
	cmd *exec.Cmd
}

// StartAudio launches the audio player for path. Cancelling ctx kills it.
func StartAudio(ctx context.Context, binary, path string) (*Audio, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mpv"
	}
	cmd := exec.CommandContext(ctx, binary, AudioArgs(path)...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return nil, model.Errorf(model.KindAudioSpawn, "failed to start %s: %w", binary, err)
	}
	return &Audio{cmd: cmd}, nil
}

// Stop terminates the player if it is still running and reaps it.
func (a *Audio) Stop() {
	if a == nil || a.cmd == nil || a.cmd.Process == nil {
		return
	}
	if err := a.cmd.Process.Kill(); err != nil {
		// Already exited.
		_ = err
	}
	if err := a.cmd.Wait(); err != nil {
		// Killed or failed; neither is reported.
		_ = err
	}
}
