package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgersync-dev/ledgersync/internal/config"
	"github.com/ledgersync-dev/ledgersync/internal/gateway"
	"github.com/ledgersync-dev/ledgersync/internal/gitops"
	"github.com/ledgersync-dev/ledgersync/internal/snapshot"
	"github.com/ledgersync-dev/ledgersync/internal/sync"
	"github.com/ledgersync-dev/ledgersync/internal/synclog"
)

const (
	dataDir      = "data"
	snapshotFile = "snapshot.json"
	syncRunsFile = "sync-runs.db"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// project bundles the per-directory collaborators the commands share.
type project struct {
	dir   string
	cfg   *config.Config
	store *snapshot.Store
}

func openProject(dir string) (*project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading project config (run init first?): %w", err)
	}

	return &project{
		dir:   absDir,
		cfg:   cfg,
		store: snapshot.NewStore(filepath.Join(absDir, dataDir, snapshotFile)),
	}, nil
}

func (p *project) openSyncLog(log zerolog.Logger) (*synclog.Log, error) {
	return synclog.Open(filepath.Join(p.dir, dataDir, syncRunsFile), log)
}

func (p *project) newSyncService(log zerolog.Logger) (*sync.Service, error) {
	booksBegin, err := p.cfg.Sync.BooksBeginDate()
	if err != nil {
		return nil, err
	}

	src := gateway.New(p.cfg.Gateway.URL, p.cfg.Gateway.Timeout(), log)

	var publisher sync.Publisher
	if p.cfg.Git.AutoPublish {
		publisher = gitops.NewPublisher(p.dir, p.cfg.Git.AuthorName, p.cfg.Git.AuthorEmail, log)
	}

	return sync.NewService(src, p.store, publisher, sync.Config{
		ReceivablesRoot: p.cfg.Roots.Receivables,
		PayablesRoot:    p.cfg.Roots.Payables,
		LedgerGroups:    p.cfg.LedgerGroups,
		BatchSize:       p.cfg.Sync.BatchSize,
		BooksBegin:      booksBegin,
	}, log), nil
}
