package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings of the service.
type Config struct {
	// Env selects the per-environment files, e.g. development or production.
	Env  string `yaml:"-"`
	Port int    `yaml:"port"`

	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Stats    StatsConfig    `yaml:"stats"`
}

// DatabaseConfig selects the SQLite database file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// StatsConfig configures the periodic request counter report.
type StatsConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Default returns the settings used when nothing else is configured.
func Default(env string) Config {
	return Config{
		Env:  env,
		Port: 3000,
		Database: DatabaseConfig{
			Path: filepath.Join("data", fmt.Sprintf("todo.%s.db", env)),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Stats: StatsConfig{
			Interval: time.Minute,
		},
	}
}

// Load builds the configuration in layers: defaults, then
// <configDir>/<env>.yaml, then environment variables. A .env.<env>.local file
// in envDir is read into the process environment first when present.
// APP_ENV picks the environment and defaults to development.
func Load(configDir, envDir string) (Config, error) {
	env := envOrDefault("APP_ENV", "development")

	dotenv := filepath.Join(envDir, fmt.Sprintf(".env.%s.local", env))
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	cfg := Default(env)

	path := filepath.Join(configDir, env+".yaml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", raw, err)
		}
		c.Port = port
	}
	c.Database.Path = envOrDefault("TODO_DB_PATH", c.Database.Path)
	c.Log.Level = envOrDefault("LOG_LEVEL", c.Log.Level)
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database path is required")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Stats.Interval <= 0 {
		return fmt.Errorf("stats interval must be positive")
	}
	return nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// NewLogger builds the slog logger described by the log settings.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", raw)
	}
	return level, nil
}

// envOrDefault returns the environment variable value or fallback when it is empty.
func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
