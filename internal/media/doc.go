// Package media measures audio inputs before they are transcribed.
//
// WAV files are decoded in-process with go-audio; every other container is
// inspected with ffprobe's JSON output. Durations feed the real-time factor
// log line and history rows, and subtitle validation compares the last cue
// against them.
package media
