// Package prefs stores the few things the balloon TUI remembers between
// runs: the color theme and the endpoint of the last submission.
//
// The file lives at ~/.config/balloon/prefs.toml unless a path is given.
// Prefs are convenience state, not configuration, so Load always hands back
// usable values. A missing file is the normal first-run case. An unreadable
// or corrupt file yields the defaults together with the error, for the
// caller to log.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences remembered between TUI sessions.
type Prefs struct {
	Theme        string `toml:"theme"`
	LastEndpoint string `toml:"last_endpoint,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/balloon/prefs.toml"
	defaultTheme     = "Ink"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the prefs used before anything has been saved.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads prefs from path, or the default path when empty.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), err
	}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("read prefs: %w", err)
	}

	var stored Prefs
	if err := toml.Unmarshal(data, &stored); err != nil {
		return Defaults(), fmt.Errorf("parse prefs %s: %w", resolved, err)
	}
	return stored.normalized(), nil
}

// Save writes p to path, or the default path when empty, creating the
// directory if needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.LastEndpoint = strings.TrimSpace(p.LastEndpoint)
	return p
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultPrefsPath
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve prefs path: %w", err)
		}
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}
