package config

import "time"

// Config is the full runtime configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Chunk    ChunkConfig    `mapstructure:"chunk"`
	Check    CheckConfig    `mapstructure:"check"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr        string        `mapstructure:"addr" validate:"required"`
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
}

type ProviderConfig struct {
	Kind              string        `mapstructure:"kind" validate:"oneof=gemini openai compat fallback"`
	Model             string        `mapstructure:"model"`
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxAttempts       uint          `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	RetryDelay        time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" validate:"gte=0"`
	Temperature       float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TopP              float32       `mapstructure:"top_p" validate:"gte=0,lte=1"`
	TopK              int32         `mapstructure:"top_k" validate:"gte=0"`
	MaxOutputTokens   int32         `mapstructure:"max_output_tokens" validate:"gte=0"`
}

type ChunkConfig struct {
	Threshold   int `mapstructure:"threshold" validate:"gte=1"`
	MaxRunes    int `mapstructure:"max_runes" validate:"gte=1"`
	Parallelism int `mapstructure:"parallelism" validate:"gte=1,lte=32"`
}

type CheckConfig struct {
	Fallback bool `mapstructure:"fallback"`
	MinRunes int  `mapstructure:"min_runes" validate:"gte=0"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// DefaultConfig is what a fresh install runs with.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			ReadTimeout: 15 * time.Second,
		},
		Provider: ProviderConfig{
			Kind:              "gemini",
			APIKey:            "${GEMINI_API_KEY}",
			Timeout:           60 * time.Second,
			MaxAttempts:       3,
			RetryDelay:        300 * time.Millisecond,
			RequestsPerMinute: 60,
			Temperature:       0.2,
			TopP:              0.8,
			TopK:              40,
			MaxOutputTokens:   1024,
		},
		Chunk: ChunkConfig{
			Threshold:   2000,
			MaxRunes:    1500,
			Parallelism: 4,
		},
		Check: CheckConfig{
			Fallback: true,
			MinRunes: 10,
		},
		Session: SessionConfig{
			TTL: 30 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
