package processor

import (
	"fmt"
	"io"
	"sync"
)

// Level classifies a console progress line.
type Level int

const (
	LevelInfo Level = iota
	LevelOK
	LevelWarn
)

// Reporter receives the human-facing progress lines for each file.
type Reporter interface {
	Report(level Level, message string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(level Level, message string)

func (f ReporterFunc) Report(level Level, message string) { f(level, message) }

type writerReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterReporter prints each message on its own line without decoration.
func NewWriterReporter(w io.Writer) Reporter {
	return &writerReporter{w: w}
}

func (r *writerReporter) Report(_ Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, message)
}

type discardReporter struct{}

func (discardReporter) Report(Level, string) {}
