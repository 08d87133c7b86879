package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"APP_ENV", "PORT", "TODO_DB_PATH", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default("development")
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, filepath.Join("data", "todo.development.db"), cfg.Database.Path)
	assert.Equal(t, time.Minute, cfg.Stats.Interval)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NoFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir, dir)
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, Default("development"), cfg)
}

func TestLoad_EnvironmentFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "staging")
	dir := t.TempDir()

	yamlBody := "port: 8081\ndatabase:\n  path: /tmp/staging.db\nlog:\n  level: warn\n  format: json\nstats:\n  interval: 30s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staging.yaml"), []byte(yamlBody), 0o644))

	cfg, err := Load(dir, dir)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "/tmp/staging.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 30*time.Second, cfg.Stats.Interval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "development.yaml"), []byte("port: 8081\n"), 0o644))

	t.Setenv("PORT", "9090")
	t.Setenv("TODO_DB_PATH", "/tmp/override.db")

	cfg, err := Load(dir, dir)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
}

func TestLoad_DotenvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.development.local"), []byte("TODO_DB_PATH=/tmp/dotenv.db\n"), 0o644))
	// godotenv never overrides variables that are already set, including
	// empty ones, so drop the key entirely for this test.
	require.NoError(t, os.Unsetenv("TODO_DB_PATH"))
	t.Cleanup(func() { os.Unsetenv("TODO_DB_PATH") })

	cfg, err := Load(dir, dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dotenv.db", cfg.Database.Path)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")
	dir := t.TempDir()

	_, err := Load(dir, dir)
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "development.yaml"), []byte("port: [1, 2\n"), 0o644))

	_, err := Load(dir, dir)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"empty db path", func(c *Config) { c.Database.Path = " " }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero interval", func(c *Config) { c.Stats.Interval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("test")
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
