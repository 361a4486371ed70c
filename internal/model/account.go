package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single ledger movement fetched from the accounting
// gateway. Never mutated after creation; date ordering is established
// by consumers, not guaranteed here.
type Transaction struct {
	Date           time.Time       `json:"date"`
	VoucherType    string          `json:"voucherType"`
	VoucherNumber  string          `json:"voucherNumber"`
	CounterAccount string          `json:"counterAccount"`
	Amount         decimal.Decimal `json:"amount"` // positive magnitude
	Sign           Sign            `json:"sign"`
	// DateEstimated marks a transaction whose raw date token could not
	// be parsed and was defaulted to the fetch time.
	DateEstimated bool `json:"dateEstimated,omitempty"`
}

// Account is a named counterparty balance record. Owned by the sync
// snapshot; mutated only during a sync cycle.
type Account struct {
	Name           string          `json:"name"`
	BalanceAmount  decimal.Decimal `json:"balanceAmount"` // non-negative magnitude
	BalanceSign    Sign            `json:"balanceSign"`
	OpeningBalance string          `json:"openingBalance"` // raw signed decimal string
	ParentGroup    string          `json:"parentGroup"`
	Transactions   []Transaction   `json:"transactions"`
}

// SignedBalance returns the account balance under the system sign
// convention (Credit positive, Debit negative).
func (a Account) SignedBalance() decimal.Decimal {
	return SignedAmount(a.BalanceAmount, a.BalanceSign)
}

// Balance is a live balance reported by the accounting gateway.
type Balance struct {
	Amount decimal.Decimal
	Sign   Sign
}

// Signed returns the balance under the system sign convention.
func (b Balance) Signed() decimal.Decimal {
	return SignedAmount(b.Amount, b.Sign)
}

// GroupNode is one edge in the account-group forest: a group name and
// its parent group name ("" for top-level groups).
type GroupNode struct {
	Name   string
	Parent string
}
