package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/five82/balloon/internal/app"
)

func newTUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive translation UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive() {
				return errors.New("the interactive UI needs a terminal; use `balloon submit` in scripts")
			}
			return runTUI(cmd, ctx)
		},
	}
}

func runTUI(cmd *cobra.Command, ctx *commandContext) error {
	return app.Run(cmd.Context(), ctx.options(false))
}
