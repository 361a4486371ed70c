// Package reconcile decides which cached accounts need a full
// transaction re-fetch by comparing cached and remote signed balances.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/ledgersync-dev/ledgersync/internal/model"
)

// Tolerance absorbs rounding noise between the cached and remote
// balances. It is an absolute amount, not a percentage.
var Tolerance = decimal.RequireFromString("0.1")

// NeedsFullResync reports whether an account's transaction history must
// be re-fetched. Either side may be absent (nil), meaning zero. Beyond
// the signed-balance diff, a non-trivial remote balance with no cached
// transactions forces a resync so a cold cache is always populated even
// when the naive diff happens to be zero.
func NeedsFullResync(cached *model.Account, remote *model.Balance) bool {
	local := decimal.Zero
	if cached != nil {
		local = cached.SignedBalance()
	}
	remoteSigned := decimal.Zero
	if remote != nil {
		remoteSigned = remote.Signed()
	}

	if remoteSigned.Sub(local).Abs().GreaterThan(Tolerance) {
		return true
	}

	if remoteSigned.Abs().GreaterThan(Tolerance) && (cached == nil || len(cached.Transactions) == 0) {
		return true
	}

	return false
}

// Plan returns the subset of names whose accounts need a full resync.
// cached holds the previous snapshot's accounts; balances holds the
// remote balances (absence means zero).
func Plan(names []string, cached map[string]model.Account, balances map[string]model.Balance) []string {
	var flagged []string
	for _, name := range names {
		var acct *model.Account
		if a, ok := cached[name]; ok {
			acct = &a
		}
		var bal *model.Balance
		if b, ok := balances[name]; ok {
			bal = &b
		}
		if NeedsFullResync(acct, bal) {
			flagged = append(flagged, name)
		}
	}
	return flagged
}
