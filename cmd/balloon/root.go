package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:   "balloon",
		Short: "Translate manga speech bubbles with a remote translation service",
		Long: `balloon uploads an image to a speech-bubble translation service, waits for
the job to finish and shows the translated text.

Run without a subcommand in a terminal to open the interactive UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive() {
				return cmd.Help()
			}
			return runTUI(cmd, ctx)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (default ~/.config/balloon/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "Preferences file path (default ~/.config/balloon/prefs.toml)")
	pf.StringVarP(&flags.endpoint, "endpoint", "e", "", "Translation service endpoint, with or without /translate-manga")
	pf.IntVar(&flags.pollSeconds, "poll", 0, "Seconds between status checks (default 2)")
	pf.IntVar(&flags.timeoutSeconds, "timeout", 0, "Seconds to wait for a job once processing (default 60)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newTUICommand(ctx))
	rootCmd.AddCommand(newSubmitCommand(ctx))
	rootCmd.AddCommand(newHealthCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
