package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ledgersync-dev/ledgersync/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dir string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "ledgersync",
		Short:   "Ledger balance reconciliation and ageing",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dir, "dir", ".", "project directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	logger := func() zerolog.Logger {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()
	}

	rootCmd.AddCommand(newInitCommand(&dir))
	rootCmd.AddCommand(newSyncCommand(&dir, logger))
	rootCmd.AddCommand(newWatchCommand(&dir, logger))
	rootCmd.AddCommand(newAgeingCommand(&dir))
	rootCmd.AddCommand(newStatementCommand(&dir))
	rootCmd.AddCommand(newStatusCommand(&dir, logger))

	return rootCmd
}
