package transcription

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBackend marks failures raised by the speech model or its process.
	ErrBackend = errors.New("transcription backend error")
	// ErrConfiguration marks settings that prevent a model from loading.
	ErrConfiguration = errors.New("transcription configuration error")
	// ErrInvalidOutput marks backend output murmur could not interpret.
	ErrInvalidOutput = errors.New("invalid transcription output")
)

// Wrap builds an error that names the backend and operation while tagging it
// with marker for errors.Is classification.
func Wrap(marker error, backend, operation, message string, err error) error {
	detail := buildDetail(backend, operation, message)
	if marker == nil {
		marker = ErrBackend
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(backend, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{backend, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "transcription failure"
	}
	return strings.Join(parts, ": ")
}
