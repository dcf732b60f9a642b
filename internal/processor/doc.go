// Package processor turns one audio file into a transcript and a subtitle
// file.
//
// For an input /dir/name.ext the processor creates /dir/name/ and writes
// name.txt (the full transcript) and name.srt (timed cues) inside it,
// replacing earlier outputs. Missing inputs are reported and skipped without
// touching the filesystem; transcription failures are returned to the caller,
// which decides whether the batch continues.
package processor
