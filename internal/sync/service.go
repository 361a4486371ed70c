// Package sync orchestrates one reconciliation cycle: fetch structure
// and balances, classify accounts, re-fetch flagged histories, and
// swap in a fresh snapshot.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ledgersync-dev/ledgersync/internal/groups"
	"github.com/ledgersync-dev/ledgersync/internal/model"
	"github.com/ledgersync-dev/ledgersync/internal/reconcile"
	"github.com/ledgersync-dev/ledgersync/internal/snapshot"
	"github.com/ledgersync-dev/ledgersync/internal/source"
)

// DefaultBatchSize bounds concurrent transaction fetches against the
// gateway.
const DefaultBatchSize = 20

// Publisher is the best-effort post-persist side channel (git push).
type Publisher interface {
	Publish(ctx context.Context, message string)
}

// Config holds the orchestrator's fixed settings for a project.
type Config struct {
	ReceivablesRoot string
	PayablesRoot    string
	LedgerGroups    []string // known display groups
	BatchSize       int
	BooksBegin      time.Time
}

// Stats summarizes one cycle for observability.
type Stats struct {
	AccountsSeen         int
	Refreshed            int
	FetchFailures        int
	ClassificationMisses int
	EstimatedDates       int
	Duration             time.Duration
}

// Service runs sync cycles. It holds no state between cycles beyond
// what it reads from the persisted snapshot.
type Service struct {
	src       source.Source
	store     *snapshot.Store
	publisher Publisher // may be nil
	cfg       Config
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a sync service.
func NewService(src source.Source, store *snapshot.Store, publisher Publisher, cfg Config, log zerolog.Logger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Service{
		src:       src,
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		log:       log.With().Str("component", "sync").Logger(),
		now:       time.Now,
	}
}

// classification places one ledger account in the snapshot.
type classification struct {
	info       source.AccountInfo
	receivable bool
	bucket     string // group bucket for receivables
}

// RunCycle performs one full sync cycle. Structure or balance fetch
// failures abort the cycle and leave the previous snapshot untouched;
// per-account transaction fetch failures degrade to an empty history.
func (s *Service) RunCycle(ctx context.Context) (model.Snapshot, Stats, error) {
	start := s.now()
	var stats Stats

	groupNodes, err := s.listGroups(ctx)
	if err != nil {
		return model.Snapshot{}, stats, err
	}
	ledgers, err := s.src.ListAccounts(ctx, source.KindLedgers)
	if err != nil {
		return model.Snapshot{}, stats, fmt.Errorf("listing ledgers: %w", err)
	}
	balances, err := s.src.FetchBalances(ctx)
	if err != nil {
		return model.Snapshot{}, stats, fmt.Errorf("fetching balances: %w", err)
	}

	prev, err := s.store.Load()
	if err != nil {
		return model.Snapshot{}, stats, fmt.Errorf("loading previous snapshot: %w", err)
	}
	cached := prev.AccountIndex()

	resolver := groups.NewResolver(groupNodes, s.cfg.LedgerGroups)
	kept := s.classify(resolver, ledgers, &stats)
	stats.AccountsSeen = len(ledgers)

	// Decide which accounts need their history re-fetched.
	names := make([]string, 0, len(kept))
	for _, c := range kept {
		names = append(names, c.info.Name)
	}
	flagged := reconcile.Plan(names, cached, balances)
	stats.Refreshed = len(flagged)

	fetched := s.fetchHistories(ctx, flagged, &stats)

	snap := s.assemble(kept, cached, balances, fetched, &stats)
	if err := s.store.Save(snap); err != nil {
		return model.Snapshot{}, stats, fmt.Errorf("persisting snapshot: %w", err)
	}

	stats.Duration = s.now().Sub(start)
	s.log.Info().
		Int("accounts", stats.AccountsSeen).
		Int("refreshed", stats.Refreshed).
		Int("fetch_failures", stats.FetchFailures).
		Int("classification_misses", stats.ClassificationMisses).
		Dur("duration", stats.Duration).
		Msg("sync cycle complete")

	if s.publisher != nil {
		s.publisher.Publish(ctx, fmt.Sprintf("sync: refresh snapshot (%d accounts)", snap.AccountCount()))
	}
	return snap, stats, nil
}

func (s *Service) listGroups(ctx context.Context) ([]model.GroupNode, error) {
	infos, err := s.src.ListAccounts(ctx, source.KindGroups)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	nodes := make([]model.GroupNode, 0, len(infos))
	for _, g := range infos {
		nodes = append(nodes, model.GroupNode{Name: g.Name, Parent: g.Parent})
	}
	return nodes, nil
}

// classify walks each ledger's parent chain. Accounts tracing to
// neither root are excluded from the snapshot and counted.
func (s *Service) classify(resolver *groups.Resolver, ledgers []source.AccountInfo, stats *Stats) []classification {
	kept := make([]classification, 0, len(ledgers))
	for _, l := range ledgers {
		switch {
		case resolver.TracesToRoot(l.Parent, s.cfg.ReceivablesRoot):
			kept = append(kept, classification{
				info:       l,
				receivable: true,
				bucket:     resolver.NearestKnownGroup(l.Parent),
			})
		case resolver.TracesToRoot(l.Parent, s.cfg.PayablesRoot):
			kept = append(kept, classification{info: l})
		default:
			stats.ClassificationMisses++
			s.log.Debug().Str("account", l.Name).Str("parent", l.Parent).
				Msg("account traces to neither root, excluded")
		}
	}
	return kept
}

// fetchHistories re-fetches transaction histories for flagged accounts
// with bounded concurrency. A failed fetch degrades to an empty
// history for that account; the cycle continues.
func (s *Service) fetchHistories(ctx context.Context, flagged []string, stats *Stats) map[string][]model.Transaction {
	from := s.cfg.BooksBegin
	to := s.now()

	results := make([][]model.Transaction, len(flagged))
	failed := make([]bool, len(flagged))

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.BatchSize)
	for i, name := range flagged {
		i, name := i, name
		g.Go(func() error {
			txns, err := s.src.FetchTransactions(ctx, name, from, to)
			if err != nil {
				s.log.Warn().Err(err).Str("account", name).
					Msg("transaction fetch failed, keeping empty history")
				failed[i] = true
				return nil
			}
			results[i] = txns
			return nil
		})
	}
	_ = g.Wait() // per-account errors are swallowed above

	fetched := make(map[string][]model.Transaction, len(flagged))
	for i, name := range flagged {
		if failed[i] {
			stats.FetchFailures++
		}
		fetched[name] = results[i]
		for _, t := range results[i] {
			if t.DateEstimated {
				stats.EstimatedDates++
			}
		}
	}
	return fetched
}

// assemble builds the new snapshot. Flagged accounts take the remote
// balance and freshly fetched history; unflagged accounts keep their
// previous entry unchanged.
func (s *Service) assemble(kept []classification, cached map[string]model.Account,
	balances map[string]model.Balance, fetched map[string][]model.Transaction, stats *Stats) model.Snapshot {

	snap := model.EmptySnapshot()
	snap.UpdatedAt = s.now()

	for _, c := range kept {
		name := c.info.Name

		acct, ok := cached[name]
		if txns, refreshed := fetched[name]; refreshed {
			bal, haveBal := balances[name]
			if !haveBal {
				bal = model.Balance{Sign: model.SignCredit} // absent means zero
			}
			acct = model.Account{
				Name:           name,
				BalanceAmount:  bal.Amount.Abs(),
				BalanceSign:    bal.Sign,
				OpeningBalance: c.info.OpeningBalance,
				ParentGroup:    c.info.Parent,
				Transactions:   txns,
			}
		} else if !ok {
			// New account that did not need a resync (trivial balance).
			acct = model.Account{
				Name:           name,
				BalanceSign:    model.SignCredit,
				OpeningBalance: c.info.OpeningBalance,
				ParentGroup:    c.info.Parent,
			}
		}

		switch {
		case c.receivable && c.bucket == model.UngroupedBucket:
			snap.Ungrouped = append(snap.Ungrouped, acct)
		case c.receivable:
			snap.Groups[c.bucket] = append(snap.Groups[c.bucket], acct)
		default:
			snap.Payables = append(snap.Payables, acct)
		}
	}
	return snap
}
