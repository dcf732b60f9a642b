// Package transcription wraps the speech-recognition backends murmur can
// drive.
//
// A Model is loaded once per batch from configuration and then asked to
// transcribe each input file in turn. Two backends exist:
//   - whisperx runs WhisperX locally through uvx and parses its JSON output
//   - openai calls any OpenAI-compatible /audio/transcriptions endpoint
//
// Both return a Result holding the full transcript text and the timed
// segments used for subtitles.
package transcription
