package config

import (
	"errors"
	"fmt"
	"strings"

	"murmur/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	switch t.Backend {
	case BackendWhisperX, BackendOpenAI:
	default:
		return fmt.Errorf("transcription.backend: unsupported value %q (supported: %s, %s)", t.Backend, BackendWhisperX, BackendOpenAI)
	}
	if strings.TrimSpace(t.Model) == "" {
		return errors.New("transcription.model must be set")
	}
	if strings.TrimSpace(t.Language) == "" {
		return errors.New("transcription.language must be set")
	}
	if language.Normalize(t.Language) == "" {
		return fmt.Errorf("transcription.language: unrecognized language %q", t.Language)
	}
	if t.Backend == BackendWhisperX {
		switch t.VADMethod {
		case "silero", "pyannote":
		default:
			return fmt.Errorf("transcription.vad_method: unsupported value %q (supported: silero, pyannote)", t.VADMethod)
		}
	}
	return nil
}

func (c *Config) validateOpenAI() error {
	if c.Transcription.Backend != BackendOpenAI {
		return nil
	}
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("openai.api_key is required for the openai backend. Set OPENAI_API_KEY or edit %s (create with 'murmur config init')", defaultPath)
	}
	return nil
}
