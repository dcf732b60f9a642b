package media_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"murmur/internal/media"
	"murmur/internal/testsupport"
)

func writeProbeStub(t *testing.T, output string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n" + output + "\nJSON\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write ffprobe stub: %v", err)
	}
	return path
}

func TestDurationWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	testsupport.WriteWAV(t, path, 16000, 32000)

	got, err := media.Duration(context.Background(), "/nonexistent/ffprobe", path)
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if got != 2*time.Second {
		t.Fatalf("expected 2s, got %v", got)
	}
}

func TestDurationUsesFFprobe(t *testing.T) {
	stub := writeProbeStub(t, `{"streams":[{"index":0,"codec_type":"audio","codec_name":"mp3"}],"format":{"duration":"61.500000"}}`)
	audio := filepath.Join(t.TempDir(), "talk.mp3")
	testsupport.WriteFile(t, audio, 10)

	got, err := media.Duration(context.Background(), stub, audio)
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if got != 61500*time.Millisecond {
		t.Fatalf("expected 61.5s, got %v", got)
	}
}

func TestDurationNoDuration(t *testing.T) {
	stub := writeProbeStub(t, `{"streams":[],"format":{}}`)
	audio := filepath.Join(t.TempDir(), "talk.ogg")
	testsupport.WriteFile(t, audio, 10)

	if _, err := media.Duration(context.Background(), stub, audio); !errors.Is(err, media.ErrNoDuration) {
		t.Fatalf("expected ErrNoDuration, got %v", err)
	}
}

func TestDurationProbeFailure(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "talk.m4a")
	testsupport.WriteFile(t, audio, 10)

	if _, err := media.Duration(context.Background(), filepath.Join(t.TempDir(), "missing-ffprobe"), audio); err == nil {
		t.Fatal("expected error when ffprobe is unavailable")
	}
}

func TestProbeResultDurationFallsBackToStreams(t *testing.T) {
	result := media.ProbeResult{
		Streams: []media.Stream{
			{CodecType: "video", Duration: "500"},
			{CodecType: "audio", Duration: "12.5"},
			{CodecType: "audio", Duration: "bad"},
		},
	}
	if got := result.DurationSeconds(); got != 12.5 {
		t.Fatalf("expected 12.5, got %v", got)
	}
	if got := result.AudioStreamCount(); got != 2 {
		t.Fatalf("expected 2 audio streams, got %d", got)
	}
}
