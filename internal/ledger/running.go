package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ledgersync-dev/ledgersync/internal/model"
)

// RunningBalance pairs a transaction with the cumulative signed balance
// after applying it.
type RunningBalance struct {
	Transaction model.Transaction
	Balance     decimal.Decimal // signed: Credit positive, Debit negative
	Sign        model.Sign      // display sign of Balance
}

// ComputeRunningBalances walks transactions in ascending date order,
// starting from the opening balance, applying Credit amounts as
// additions and Debit amounts as subtractions. Output is chronological;
// reversing for most-recent-first display is the caller's concern.
func ComputeRunningBalances(txns []model.Transaction, openingBalance string) []RunningBalance {
	balance := ParseOpeningBalance(openingBalance)

	sorted := sortByDate(txns)
	out := make([]RunningBalance, 0, len(sorted))
	for _, t := range sorted {
		balance = balance.Add(model.SignedAmount(t.Amount, t.Sign))
		out = append(out, RunningBalance{
			Transaction: t,
			Balance:     balance,
			Sign:        model.SignOf(balance),
		})
	}
	return out
}
