package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/five82/balloon/internal/config"
	"github.com/five82/balloon/internal/logging"
	"github.com/five82/balloon/internal/prefs"
	"github.com/five82/balloon/internal/translator"
	"github.com/five82/balloon/internal/ui"
)

// Options configure a balloon run. Non-zero fields override the config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/balloon/prefs.toml
	Endpoint   string
	PollEvery  int // seconds
	Timeout    int // seconds
	LogLevel   string
	// Headless sends logs to stderr as well as the log file. The TUI owns
	// the terminal, so it only logs to the file.
	Headless bool
}

// Runtime holds everything a command needs to run jobs.
type Runtime struct {
	Config  config.Config
	Prefs   prefs.Prefs
	Logger  *slog.Logger
	Client  *translator.Client
	Session *Session

	prefsPath   string
	endpointSet bool
	logFiles    io.Closer
}

// Bootstrap loads configuration, builds the logger and wires the client and
// session together.
func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	outputs := []string{cfg.LogPath()}
	if opts.Headless {
		outputs = append([]string{"stderr"}, outputs...)
	}
	logger, logFiles, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		OutputPaths: outputs,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Debug("prefs unavailable, using defaults", "path", opts.PrefsPath, "error", err)
	}

	client := translator.NewClient(translator.Config{Timeout: cfg.RequestTimeout()})

	session, err := NewSession(SessionOptions{
		Service:      client,
		Logger:       logger.With("component", "session"),
		PollInterval: cfg.PollInterval(),
		Timeout:      cfg.JobTimeout(),
	})
	if err != nil {
		_ = logFiles.Close()
		return nil, fmt.Errorf("init session: %w", err)
	}

	logger.Debug("runtime ready",
		"endpoint", cfg.Endpoint,
		"poll", cfg.PollInterval(),
		"timeout", cfg.JobTimeout(),
		"log", cfg.LogPath(),
	)

	return &Runtime{
		Config:      cfg,
		Prefs:       userPrefs,
		Logger:      logger,
		Client:      client,
		Session:     session,
		prefsPath:   opts.PrefsPath,
		endpointSet: strings.TrimSpace(opts.Endpoint) != "",
		logFiles:    logFiles,
	}, nil
}

// LoadConfig reads the config file and applies the overrides in opts.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if opts.PollEvery > 0 {
		cfg.PollSeconds = opts.PollEvery
	}
	if opts.Timeout > 0 {
		cfg.TimeoutSeconds = opts.Timeout
	}
	if v := strings.ToLower(strings.TrimSpace(opts.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// InitialEndpoint is the endpoint the TUI starts with: an explicit override,
// then the last endpoint the user submitted to, then the config value.
func (r *Runtime) InitialEndpoint() string {
	if !r.endpointSet && r.Prefs.LastEndpoint != "" {
		return r.Prefs.LastEndpoint
	}
	return r.Config.Endpoint
}

// Close stops any running job and closes the log file. The logger must not
// be used afterwards.
func (r *Runtime) Close() {
	r.Session.Close()
	if err := r.logFiles.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "balloon: close log: %v\n", err)
	}
}

// Run boots the balloon TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	opts.Headless = false
	rt, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Logger.Info("tui started", "endpoint", rt.InitialEndpoint())
	err = ui.Run(ui.Options{
		Context:   ctx,
		Jobs:      rt.Session,
		Health:    rt.Client,
		Logger:    rt.Logger.With("component", "ui"),
		Endpoint:  rt.InitialEndpoint(),
		ThemeName: rt.Prefs.Theme,
		PrefsPath: rt.prefsPath,
	})
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	rt.Logger.Info("tui stopped")
	return nil
}
