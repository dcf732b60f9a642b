package transcription

import "time"

// Segment is one timed span of recognized speech.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Result is the outcome of transcribing a single audio file.
type Result struct {
	// Text is the full transcript exactly as the backend produced it.
	Text     string
	Segments []Segment
	// Language is the language the backend reports, when it reports one.
	Language string
	// Duration is the audio length the backend reports, zero when unknown.
	Duration time.Duration
}
