package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ledgersync-dev/ledgersync/internal/sync"
	"github.com/ledgersync-dev/ledgersync/internal/synclog"
)

func newSyncCommand(dir *string, logger func() zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync cycle against the accounting gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()

			p, err := openProject(*dir)
			if err != nil {
				return err
			}

			runs, err := p.openSyncLog(log)
			if err != nil {
				return err
			}
			defer runs.Close()

			svc, err := p.newSyncService(log)
			if err != nil {
				return err
			}

			return runCycle(cmd.Context(), svc, runs, log)
		},
	}
}

// runCycle executes one cycle and records its outcome, success or not.
func runCycle(ctx context.Context, svc *sync.Service, runs *synclog.Log, log zerolog.Logger) error {
	start := nowUTC()
	snap, stats, err := svc.RunCycle(ctx)

	rec := synclog.Record{
		StartedAt:            start,
		Duration:             stats.Duration,
		AccountsSeen:         stats.AccountsSeen,
		Refreshed:            stats.Refreshed,
		FetchFailures:        stats.FetchFailures,
		ClassificationMisses: stats.ClassificationMisses,
		EstimatedDates:       stats.EstimatedDates,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if logErr := runs.Append(rec); logErr != nil {
		log.Warn().Err(logErr).Msg("could not record sync run")
	}

	if err != nil {
		return fmt.Errorf("sync cycle failed: %w", err)
	}

	fmt.Printf("Synced %d accounts (%d refreshed, %d fetch failures, %d unclassified)\n",
		snap.AccountCount(), stats.Refreshed, stats.FetchFailures, stats.ClassificationMisses)
	return nil
}
