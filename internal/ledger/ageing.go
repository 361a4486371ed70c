// Package ledger derives ageing buckets and running balances from an
// account's transaction history. Both computations are pure functions
// of their inputs and are recomputed on demand, never persisted.
package ledger

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgersync-dev/ledgersync/internal/model"
)

// openingAnchor dates the synthetic debit created from a negative
// opening balance. It predates any real transaction, so the synthetic
// debit is always the oldest and absorbs credit first.
var openingAnchor = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// AgeingBuckets holds overdue amounts bucketed by days outstanding.
type AgeingBuckets struct {
	UpTo30 decimal.Decimal `json:"0-30"`
	UpTo60 decimal.Decimal `json:"30-60"`
	UpTo90 decimal.Decimal `json:"60-90"`
	Over90 decimal.Decimal `json:"90+"`
}

// Total returns the sum across all four buckets.
func (b AgeingBuckets) Total() decimal.Decimal {
	return b.UpTo30.Add(b.UpTo60).Add(b.UpTo90).Add(b.Over90)
}

func (b *AgeingBuckets) add(days int, amount decimal.Decimal) {
	switch {
	case days <= 30:
		b.UpTo30 = b.UpTo30.Add(amount)
	case days <= 60:
		b.UpTo60 = b.UpTo60.Add(amount)
	case days <= 90:
		b.UpTo90 = b.UpTo90.Add(amount)
	default:
		b.Over90 = b.Over90.Add(amount)
	}
}

// ComputeAgeing nets credits against debits oldest-first (FIFO
// knock-off) and buckets the unpaid remainder of each debit by its age
// at asOf. A negative opening balance becomes a synthetic debit at the
// opening anchor; a positive one joins the credit pool. Transactions on
// the same date keep their input order (stable sort).
func ComputeAgeing(txns []model.Transaction, openingBalance string, asOf time.Time) AgeingBuckets {
	opening := ParseOpeningBalance(openingBalance)

	sorted := sortByDate(txns)

	type debit struct {
		date   time.Time
		amount decimal.Decimal
	}

	var debits []debit
	totalCredits := decimal.Zero

	if opening.IsNegative() {
		debits = append(debits, debit{openingAnchor, opening.Neg()})
	} else if opening.IsPositive() {
		totalCredits = totalCredits.Add(opening)
	}

	for _, t := range sorted {
		if t.Sign == model.SignCredit {
			totalCredits = totalCredits.Add(t.Amount)
		} else {
			debits = append(debits, debit{t.Date, t.Amount})
		}
	}

	var buckets AgeingBuckets
	remaining := totalCredits
	for _, d := range debits {
		if remaining.GreaterThanOrEqual(d.amount) {
			remaining = remaining.Sub(d.amount)
			continue
		}
		unpaid := d.amount.Sub(remaining)
		remaining = decimal.Zero
		buckets.add(ageInDays(d.date, asOf), unpaid)
	}
	return buckets
}

// ageInDays returns ceil(|asOf - date| / 24h).
func ageInDays(date, asOf time.Time) int {
	hours := asOf.Sub(date).Hours()
	if hours < 0 {
		hours = -hours
	}
	return int(math.Ceil(hours / 24))
}

// ParseOpeningBalance reads a raw signed decimal string under the
// system sign convention (negative raw value = Debit-type opening
// balance). Empty or malformed input contributes zero so one bad field
// never aborts a cycle.
func ParseOpeningBalance(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func sortByDate(txns []model.Transaction) []model.Transaction {
	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
