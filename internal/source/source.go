// Package source abstracts the external accounting system the sync
// engine pulls structure, balances, and transactions from.
package source

import (
	"context"
	"time"

	"github.com/ledgersync-dev/ledgersync/internal/model"
)

// Kind selects the class of accounts to list.
type Kind string

const (
	KindGroups  Kind = "Groups"
	KindLedgers Kind = "Ledgers"
)

// AccountInfo is one entry in the accounting system's account list.
type AccountInfo struct {
	Name           string
	Parent         string
	OpeningBalance string // raw signed decimal string
}

// Source is the accounting-system collaborator. ListAccounts and
// FetchBalances errors are fatal to a sync cycle; FetchTransactions
// errors are isolated to the affected account by the caller.
type Source interface {
	ListAccounts(ctx context.Context, kind Kind) ([]AccountInfo, error)
	FetchBalances(ctx context.Context) (map[string]model.Balance, error)
	FetchTransactions(ctx context.Context, account string, from, to time.Time) ([]model.Transaction, error)
}
