package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/balloon/internal/endpoint"
	"github.com/five82/balloon/internal/state"
	"github.com/five82/balloon/internal/translator"
)

const healthTimeout = 5 * time.Second

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type submitResultMsg struct {
	token   string
	err     error // from the session; already reflected in the store
	readErr error // the image could not be read, no job was started
}

type healthMsg struct {
	url    string
	status translator.HealthResponse
	err    error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// submitCmd reads the image and hands it to the session. It blocks for the
// upload; polling continues in the session after it returns.
func submitCmd(ctx context.Context, jobs Jobs, rawEndpoint, path string) tea.Cmd {
	return func() tea.Msg {
		resolved, err := expandHome(path)
		if err != nil {
			return submitResultMsg{readErr: err}
		}
		content, err := os.ReadFile(resolved)
		if err != nil {
			return submitResultMsg{readErr: fmt.Errorf("read image: %w", err)}
		}
		token, err := jobs.Submit(ctx, rawEndpoint, translator.Upload{
			Filename: filepath.Base(resolved),
			Content:  content,
		})
		return submitResultMsg{token: token, err: err}
	}
}

func healthCmd(ctx context.Context, checker HealthChecker, rawEndpoint string) tea.Cmd {
	url := endpoint.Resolve(rawEndpoint).HealthURL()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, healthTimeout)
		defer cancel()
		status, err := checker.Health(ctx, url)
		return healthMsg{url: url, status: status, err: err}
	}
}

func expandHome(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if !strings.HasPrefix(trimmed, "~") {
		return trimmed, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(trimmed, "~")), nil
}
