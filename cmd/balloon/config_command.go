package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/balloon/internal/app"
	"github.com/five82/balloon/internal/config"
	"github.com/five82/balloon/internal/endpoint"
)

type configOutput struct {
	ConfigPath     string `json:"config_path"`
	Endpoint       string `json:"endpoint"`
	SubmissionURL  string `json:"submission_url"`
	PollBaseURL    string `json:"poll_base_url"`
	PollSeconds    int    `json:"poll_seconds"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	RequestSeconds int    `json:"request_timeout_seconds"`
	LogLevel       string `json:"log_level"`
	LogFormat      string `json:"log_format"`
	LogPath        string `json:"log_path"`
	EndpointError  string `json:"endpoint_error,omitempty"`
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(ctx.options(true))
			if err != nil {
				return err
			}
			out := describeConfig(ctx.flags.configPath, cfg)
			if jsonOutput {
				return writeJSON(cmd, out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderConfig(out, shouldColorize(cmd.OutOrStdout())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the configuration as JSON")
	return cmd
}

func describeConfig(path string, cfg config.Config) configOutput {
	if path == "" {
		path = config.DefaultPath()
	}
	eps := endpoint.Resolve(cfg.Endpoint)
	out := configOutput{
		ConfigPath:     path,
		Endpoint:       cfg.Endpoint,
		SubmissionURL:  eps.SubmissionURL,
		PollBaseURL:    eps.PollBaseURL,
		PollSeconds:    cfg.PollSeconds,
		TimeoutSeconds: cfg.TimeoutSeconds,
		RequestSeconds: cfg.RequestTimeoutSeconds,
		LogLevel:       cfg.LogLevel,
		LogFormat:      cfg.LogFormat,
		LogPath:        cfg.LogPath(),
	}
	if err := endpoint.Validate(cfg.Endpoint); err != nil {
		out.EndpointError = err.Error()
	}
	return out
}

func renderConfig(out configOutput, colorize bool) string {
	rows := [][]string{
		{"config file", out.ConfigPath},
		{"endpoint", out.Endpoint},
		{"submission url", out.SubmissionURL},
		{"result url", out.PollBaseURL + endpoint.ResultPath + "?id=<task>"},
		{"poll interval", fmt.Sprintf("%ds", out.PollSeconds)},
		{"job timeout", fmt.Sprintf("%ds", out.TimeoutSeconds)},
		{"request timeout", fmt.Sprintf("%ds", out.RequestSeconds)},
		{"log level", out.LogLevel},
		{"log format", out.LogFormat},
		{"log file", out.LogPath},
	}
	rendered := renderTable([]string{"Setting", "Value"}, rows, nil)
	if out.EndpointError != "" {
		rendered += "\n" + renderStatusLine("Endpoint", statusWarn, out.EndpointError, colorize)
	}
	return rendered
}
