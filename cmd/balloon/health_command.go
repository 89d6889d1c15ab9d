package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/balloon/internal/endpoint"
	"github.com/five82/balloon/internal/translator"
)

const healthTimeout = 5 * time.Second

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the translation service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}
			defer ctx.closeRuntime()

			url := endpoint.Resolve(rt.Config.Endpoint).HealthURL()
			reqCtx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
			defer cancel()

			status, err := rt.Client.Health(reqCtx, url)
			if jsonOutput {
				out := map[string]any{"url": url, "ok": err == nil && status.OK(), "status": status.Status}
				if err != nil {
					out["error"] = err.Error()
				}
				if encErr := writeJSON(cmd, out); encErr != nil {
					return encErr
				}
			} else {
				colorize := shouldColorize(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), healthLine(url, status, err, colorize))
			}

			if err != nil {
				return fmt.Errorf("health check: %s", translator.UserMessage(translator.KindOf(err), ""))
			}
			if !status.OK() {
				return fmt.Errorf("health check: service reported status %q", status.Status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}

func healthLine(url string, status translator.HealthResponse, err error, colorize bool) string {
	switch {
	case err != nil:
		return renderStatusLine("Service", statusError, fmt.Sprintf("%s (%v)", url, err), colorize)
	case !status.OK():
		return renderStatusLine("Service", statusWarn, fmt.Sprintf("%s reported %q", url, status.Status), colorize)
	default:
		return renderStatusLine("Service", statusOK, url, colorize)
	}
}
