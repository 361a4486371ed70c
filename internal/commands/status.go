package commands

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newStatusCommand(dir *string, logger func() zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current snapshot summary and recent sync runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(*dir)
			if err != nil {
				return err
			}

			snap, err := p.store.Load()
			if err != nil {
				return err
			}

			if snap.UpdatedAt.IsZero() {
				fmt.Println("No snapshot yet (run sync first)")
			} else {
				fmt.Printf("Snapshot updated %s, %d accounts\n",
					snap.UpdatedAt.Format("2006-01-02 15:04:05"), snap.AccountCount())

				names := make([]string, 0, len(snap.Groups))
				for name := range snap.Groups {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Printf("  %-20s %d accounts\n", name, len(snap.Groups[name]))
				}
				if len(snap.Ungrouped) > 0 {
					fmt.Printf("  %-20s %d accounts\n", "No-Group", len(snap.Ungrouped))
				}
				fmt.Printf("  %-20s %d accounts\n", "Payables", len(snap.Payables))
			}

			runs, err := p.openSyncLog(logger())
			if err != nil {
				return err
			}
			defer runs.Close()

			recent, err := runs.Recent(5)
			if err != nil {
				return err
			}
			if len(recent) > 0 {
				fmt.Println("Recent sync runs:")
				for _, r := range recent {
					if r.Error != "" {
						fmt.Printf("  %s  FAILED: %s\n", r.StartedAt.Format("2006-01-02 15:04:05"), r.Error)
						continue
					}
					fmt.Printf("  %s  %d accounts, %d refreshed, %d failures, %s\n",
						r.StartedAt.Format("2006-01-02 15:04:05"),
						r.AccountsSeen, r.Refreshed, r.FetchFailures, r.Duration)
				}
			}
			return nil
		},
	}
}
