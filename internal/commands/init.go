package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgersync-dev/ledgersync/internal/config"
	"github.com/ledgersync-dev/ledgersync/internal/gitops"
)

func newInitCommand(dir *string) *cobra.Command {
	var gatewayURL string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new ledgersync project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(*dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(absDir, gatewayURL)
		},
	}

	cmd.Flags().StringVar(&gatewayURL, "gateway-url", "", "accounting gateway URL (required)")
	_ = cmd.MarkFlagRequired("gateway-url")

	return cmd
}

func runInit(dir, gatewayURL string) error {
	if err := os.MkdirAll(filepath.Join(dir, dataDir), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", config.FileName)
	}
	if err := config.Save(cfgPath, config.Default(gatewayURL)); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// The sync-run database is local observability, not published data.
	ignore := filepath.Join(dataDir, syncRunsFile) + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(ignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("initializing git repository: %w", err)
		}
	}

	fmt.Printf("Initialized ledgersync project in %s\n", dir)
	return nil
}
