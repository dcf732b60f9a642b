// Package subtitles renders transcription segments as SubRip (.srt) files and
// checks written subtitle files for timing problems.
package subtitles
