package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spellfix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "g-key")

	cm, err := NewManager("")
	require.NoError(t, err)
	cfg := cm.Get()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "gemini", cfg.Provider.Kind)
	assert.Equal(t, "g-key", cfg.Provider.APIKey)
	assert.Equal(t, 60*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 10, cfg.Check.MinRunes)
	assert.Empty(t, cm.File())
}

func TestFileAndEnv(t *testing.T) {
	path := writeFile(t, `
provider:
  kind: openai
  model: gpt-4o
  api_key: ${TEST_OPENAI_KEY}
  timeout: 5s
chunk:
  threshold: 800
  max_runes: 1000
`)
	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	t.Setenv("SPELLFIX_LOG_LEVEL", "DEBUG")
	t.Setenv("SPELLFIX_CHUNK_PARALLELISM", "2")

	cm, err := NewManager(path)
	require.NoError(t, err)
	cfg := cm.Get()

	assert.Equal(t, "openai", cfg.Provider.Kind)
	assert.Equal(t, "sk-test", cfg.Provider.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Chunk.Parallelism)
	assert.Equal(t, 800, cfg.Chunk.MaxRunes, "max_runes is capped by threshold")
}

func TestInvalidConfig(t *testing.T) {
	path := writeFile(t, "provider:\n  kind: carrier-pigeon\n")
	_, err := NewManager(path)
	assert.ErrorContains(t, err, "invalid")
}

func TestReloadNotifies(t *testing.T) {
	path := writeFile(t, "log:\n  level: info\n")
	cm, err := NewManager(path)
	require.NoError(t, err)

	var got *Config
	cm.OnChange(func(c *Config) { got = c })

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))
	require.NoError(t, cm.Reload())

	require.NotNil(t, got)
	assert.Equal(t, "warn", got.Log.Level)
	assert.Equal(t, "warn", cm.Get().Log.Level)
}

func TestWriteDefaultLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spellfix.yaml")
	require.NoError(t, WriteDefault(path, false))
	assert.Error(t, WriteDefault(path, false))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "read_timeout: 15s")

	cm, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cm.Get().Server.ReadTimeout)
	assert.Equal(t, 30*time.Minute, cm.Get().Session.TTL)
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("FOO_TOKEN", "abc")
	assert.Equal(t, "Bearer abc", ResolveEnvVars("Bearer ${FOO_TOKEN}"))
	assert.Equal(t, "", ResolveEnvVars("${UNSET_SPELLFIX_VAR}"))
	assert.Equal(t, "plain", ResolveEnvVars("plain"))
}

func TestNewLoggerFollowsLevelVar(t *testing.T) {
	var buf bytes.Buffer
	var lv slog.LevelVar
	logger := NewLogger(&buf, LogConfig{Level: "warn", Format: "json"}, &lv)

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	lv.Set(ParseLevel("debug"))
	logger.Debug("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
