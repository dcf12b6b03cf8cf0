// Package ffmpeg drives the external media tools the player depends on.
//
// Key pieces:
//   - Decoder / FrameReader: ffmpeg emitting raw RGB24 frames on stdout,
//     read back one exact frame at a time
//   - ProbeDims / ParseDims: ffprobe reporting the source raster as "W,H"
//   - Audio: a fire-and-forget audio player process (mpv by default)
//
// Every spawn failure is returned as a *model.Error carrying the matching
// kind so the CLI can report it without inspecting messages.
package ffmpeg
