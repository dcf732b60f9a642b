package transcription

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestOpenAITranscribeVerboseJSON(t *testing.T) {
	var gotPath, gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"task": "transcribe",
			"language": "russian",
			"duration": 2.5,
			"text": "Привет. Как дела?",
			"segments": [
				{"id": 0, "start": 0.0, "end": 1.0, "text": " Привет."},
				{"id": 1, "start": 1.0, "end": 2.5, "text": " Как дела?"}
			]
		}`)
	}))
	defer server.Close()

	model := NewOpenAI(OpenAIConfig{BaseURL: server.URL + "/v1/", APIKey: "sk-test", Model: "whisper-1"}, nil)
	result, err := model.Transcribe(context.Background(), writeAudio(t), "ru")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}

	if gotPath != "/v1/audio/transcriptions" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	for _, want := range []string{"verbose_json", "whisper-1", "ru"} {
		if !strings.Contains(gotBody, want) {
			t.Fatalf("expected %q in multipart body", want)
		}
	}
	if result.Text != "Привет. Как дела?" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if len(result.Segments) != 2 || result.Segments[1].Start != 1.0 {
		t.Fatalf("unexpected segments %+v", result.Segments)
	}
	if result.Language != "ru" {
		t.Fatalf("expected normalized language, got %q", result.Language)
	}
	if result.Duration != 2500*time.Millisecond {
		t.Fatalf("unexpected duration %v", result.Duration)
	}
}

func TestOpenAITranscribeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"could not load model","type":"server_error"}}`)
	}))
	defer server.Close()

	model := NewOpenAI(OpenAIConfig{BaseURL: server.URL, APIKey: "sk-test"}, nil)
	_, err := model.Transcribe(context.Background(), writeAudio(t), "ru")
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
}

func TestOpenAIName(t *testing.T) {
	model := NewOpenAI(OpenAIConfig{BaseURL: "http://localhost:8080/v1", APIKey: "x"}, nil)
	if got := model.Name(); got != "openai/whisper-1@http://localhost:8080/v1" {
		t.Fatalf("unexpected name %q", got)
	}
}
