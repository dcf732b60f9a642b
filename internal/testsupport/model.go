package testsupport

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"murmur/internal/transcription"
)

// FakeModel is an in-memory transcription.Model. Results are keyed by the
// audio file's base name; unknown names receive Default.
type FakeModel struct {
	Default transcription.Result
	Results map[string]transcription.Result
	Errors  map[string]error

	mu    sync.Mutex
	calls []FakeCall
}

// FakeCall records one Transcribe invocation.
type FakeCall struct {
	Path     string
	Language string
}

// NewFakeModel returns a model answering every file with a single segment
// built from text.
func NewFakeModel(text string) *FakeModel {
	return &FakeModel{
		Default: transcription.Result{
			Text:     text,
			Segments: []transcription.Segment{{Start: 0, End: 1, Text: strings.TrimSpace(text)}},
		},
		Results: map[string]transcription.Result{},
		Errors:  map[string]error{},
	}
}

func (m *FakeModel) Name() string { return "fake/test@cpu" }

func (m *FakeModel) Transcribe(ctx context.Context, audioPath, language string) (transcription.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, FakeCall{Path: audioPath, Language: language})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return transcription.Result{}, err
	}
	name := filepath.Base(audioPath)
	if err, ok := m.Errors[name]; ok {
		return transcription.Result{}, err
	}
	if result, ok := m.Results[name]; ok {
		return result, nil
	}
	return m.Default, nil
}

// Calls returns a copy of the recorded invocations.
func (m *FakeModel) Calls() []FakeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FakeCall(nil), m.calls...)
}
