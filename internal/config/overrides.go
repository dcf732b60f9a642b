package config

import "strings"

// Overrides carries command-line values that take precedence over the file.
// Empty fields leave the loaded value untouched.
type Overrides struct {
	Backend  string
	Model    string
	Device   string
	Language string
}

// ApplyOverrides merges o into the configuration, then re-normalizes and
// re-validates it.
func (c *Config) ApplyOverrides(o Overrides) error {
	if v := strings.TrimSpace(o.Backend); v != "" {
		c.Transcription.Backend = v
	}
	if v := strings.TrimSpace(o.Model); v != "" {
		c.Transcription.Model = v
	}
	if v := strings.TrimSpace(o.Device); v != "" {
		c.Transcription.Device = v
	}
	if v := strings.TrimSpace(o.Language); v != "" {
		c.Transcription.Language = v
	}
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}
