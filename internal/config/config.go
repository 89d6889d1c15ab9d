package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures balloon's runtime settings.
type Config struct {
	Endpoint              string `toml:"endpoint"`
	PollSeconds           int    `toml:"poll_seconds"`
	TimeoutSeconds        int    `toml:"timeout_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	LogLevel              string `toml:"log_level"`
	LogFormat             string `toml:"log_format"`
	LogDir                string `toml:"log_dir"`
}

const (
	defaultConfigPath     = "~/.config/balloon/config.toml"
	defaultLogDir         = "~/.local/share/balloon/logs"
	defaultEndpoint       = "http://localhost:8000"
	defaultPollSeconds    = 2
	defaultTimeoutSeconds = 60
	defaultRequestSeconds = 30
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Endpoint:              defaultEndpoint,
		PollSeconds:           defaultPollSeconds,
		TimeoutSeconds:        defaultTimeoutSeconds,
		RequestTimeoutSeconds: defaultRequestSeconds,
		LogLevel:              defaultLogLevel,
		LogFormat:             defaultLogFormat,
		LogDir:                mustExpand(defaultLogDir),
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw Config
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	raw.normalize()
	return raw, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

// PollInterval is the delay between status queries.
func (c Config) PollInterval() time.Duration {
	return seconds(c.PollSeconds, defaultPollSeconds)
}

// JobTimeout is how long a job may stay in processing.
func (c Config) JobTimeout() time.Duration {
	return seconds(c.TimeoutSeconds, defaultTimeoutSeconds)
}

// RequestTimeout bounds a single HTTP request.
func (c Config) RequestTimeout() time.Duration {
	return seconds(c.RequestTimeoutSeconds, defaultRequestSeconds)
}

// LogPath returns the path of balloon's log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/balloon.log")
	}
	return filepath.Join(c.LogDir, "balloon.log")
}

func (c *Config) normalize() {
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.PollSeconds <= 0 {
		c.PollSeconds = defaultPollSeconds
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = defaultRequestSeconds
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
	c.LogDir = strings.TrimSpace(c.LogDir)
	if c.LogDir == "" {
		c.LogDir = defaultLogDir
	}
	c.LogDir = mustExpand(c.LogDir)
}

func seconds(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
