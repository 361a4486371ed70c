package commands

import (
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newWatchCommand(dir *string, logger func() zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run sync cycles on the configured schedule until interrupted",
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

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := cron.New()
			_, err = c.AddFunc(p.cfg.Sync.Schedule, func() {
				if err := runCycle(ctx, svc, runs, log); err != nil {
					log.Error().Err(err).Msg("scheduled sync cycle failed")
				}
			})
			if err != nil {
				return err
			}

			c.Start()
			log.Info().Str("schedule", p.cfg.Sync.Schedule).Msg("watching")

			<-ctx.Done()
			cronCtx := c.Stop()
			<-cronCtx.Done()
			log.Info().Msg("stopped")
			return nil
		},
	}
}
