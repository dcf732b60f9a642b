package config

const (
	defaultConfigPath        = "~/.config/murmur/config.toml"
	defaultStateDir          = "~/.local/share/murmur"
	defaultLogDir            = "~/.local/share/murmur/logs"
	defaultBackend           = BackendWhisperX
	defaultModel             = "medium"
	defaultDevice            = "cuda"
	defaultLanguage          = "ru"
	defaultBatchSize         = 8
	defaultVADMethod         = "silero"
	defaultOpenAIBaseURL     = "https://api.openai.com/v1"
	defaultOpenAIModel       = "whisper-1"
	defaultOpenAITimeoutSecs = 1800
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Supported transcription backends.
const (
	BackendWhisperX = "whisperx"
	BackendOpenAI   = "openai"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Transcription: Transcription{
			Backend:    defaultBackend,
			Model:      defaultModel,
			Device:     defaultDevice,
			Language:   defaultLanguage,
			BatchSize:  defaultBatchSize,
			VADMethod:  defaultVADMethod,
			DeviceLock: true,
		},
		OpenAI: OpenAI{
			BaseURL:        defaultOpenAIBaseURL,
			Model:          defaultOpenAIModel,
			TimeoutSeconds: defaultOpenAITimeoutSecs,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
