// Package config loads spellfix settings from defaults, an optional YAML file
// and SPELLFIX_* environment variables, and hot-reloads the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SPELLFIX"

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v         *viper.Viper
	validate  *validator.Validate
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager loads config from cfgFile, or from spellfix.yaml in the working
// directory or $HOME/.spellfix when cfgFile is empty. A missing file is fine.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		v:        viper.New(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}
	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg
	return cm, nil
}

func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("spellfix")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.spellfix")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return nil
}

// setDefaults registers every leaf key so env overrides reach Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)

	v.SetDefault("provider.kind", d.Provider.Kind)
	v.SetDefault("provider.model", d.Provider.Model)
	v.SetDefault("provider.api_key", d.Provider.APIKey)
	v.SetDefault("provider.base_url", d.Provider.BaseURL)
	v.SetDefault("provider.timeout", d.Provider.Timeout)
	v.SetDefault("provider.max_attempts", d.Provider.MaxAttempts)
	v.SetDefault("provider.retry_delay", d.Provider.RetryDelay)
	v.SetDefault("provider.requests_per_minute", d.Provider.RequestsPerMinute)
	v.SetDefault("provider.temperature", d.Provider.Temperature)
	v.SetDefault("provider.top_p", d.Provider.TopP)
	v.SetDefault("provider.top_k", d.Provider.TopK)
	v.SetDefault("provider.max_output_tokens", d.Provider.MaxOutputTokens)

	v.SetDefault("chunk.threshold", d.Chunk.Threshold)
	v.SetDefault("chunk.max_runes", d.Chunk.MaxRunes)
	v.SetDefault("chunk.parallelism", d.Chunk.Parallelism)

	v.SetDefault("check.fallback", d.Check.Fallback)
	v.SetDefault("check.min_runes", d.Check.MinRunes)

	v.SetDefault("session.ttl", d.Session.TTL)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// load parses the current viper state, expands ${ENV} references and
// validates the result.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Provider.APIKey = ResolveEnvVars(cfg.Provider.APIKey)
	cfg.Provider.BaseURL = ResolveEnvVars(cfg.Provider.BaseURL)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := cm.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	if cfg.Chunk.MaxRunes > cfg.Chunk.Threshold {
		cfg.Chunk.MaxRunes = cfg.Chunk.Threshold
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// File is the config file in use, or "" when running on defaults and env.
func (cm *Manager) File() string { return cm.v.ConfigFileUsed() }

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading. Invalid edits are logged and ignored;
// the previous config stays active.
func (cm *Manager) WatchConfig(logger *slog.Logger) {
	if cm.File() == "" {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			logger.Warn("config reload rejected", "file", e.Name, "error", err)
			return
		}
		cm.apply(cfg)
		logger.Info("config reloaded", "file", e.Name)
	})
	cm.v.WatchConfig()
}

func (cm *Manager) apply(cfg *Config) {
	cm.mu.Lock()
	cm.config = cfg
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}

// Reload re-reads the config file now.
func (cm *Manager) Reload() error {
	if cm.File() != "" {
		if err := cm.v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", cm.File(), err)
		}
	}
	cfg, err := cm.load()
	if err != nil {
		return err
	}
	cm.apply(cfg)
	return nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envRef.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// ParseLevel maps a config level to slog.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: %s already exists", path)
		}
	}
	data, err := yaml.Marshal(document(DefaultConfig()))
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	header := []byte(`# spellfix configuration
# API keys use ${ENV_VAR} syntax; every key can also be set as SPELLFIX_<SECTION>_<KEY>.
# export GEMINI_API_KEY=xxx   (or OPENAI_API_KEY with provider.kind: openai)

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}

// document mirrors Config with durations spelled as "15s" rather than
// nanosecond integers, which is what yaml would emit for time.Duration.
func document(c *Config) map[string]any {
	return map[string]any{
		"server": map[string]any{
			"addr":         c.Server.Addr,
			"read_timeout": c.Server.ReadTimeout.String(),
		},
		"provider": map[string]any{
			"kind":                c.Provider.Kind,
			"model":               c.Provider.Model,
			"api_key":             c.Provider.APIKey,
			"base_url":            c.Provider.BaseURL,
			"timeout":             c.Provider.Timeout.String(),
			"max_attempts":        c.Provider.MaxAttempts,
			"retry_delay":         c.Provider.RetryDelay.String(),
			"requests_per_minute": c.Provider.RequestsPerMinute,
			"temperature":         c.Provider.Temperature,
			"top_p":               c.Provider.TopP,
			"top_k":               c.Provider.TopK,
			"max_output_tokens":   c.Provider.MaxOutputTokens,
		},
		"chunk": map[string]any{
			"threshold":   c.Chunk.Threshold,
			"max_runes":   c.Chunk.MaxRunes,
			"parallelism": c.Chunk.Parallelism,
		},
		"check": map[string]any{
			"fallback":  c.Check.Fallback,
			"min_runes": c.Check.MinRunes,
		},
		"session": map[string]any{
			"ttl": c.Session.TTL.String(),
		},
		"log": map[string]any{
			"level":  c.Log.Level,
			"format": c.Log.Format,
		},
	}
}
