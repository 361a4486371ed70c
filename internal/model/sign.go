package model

import "github.com/shopspring/decimal"

// Sign indicates the direction of a balance or transaction relative to
// the ledger owner.
type Sign string

const (
	SignDebit  Sign = "Dr"
	SignCredit Sign = "Cr"
)

// SignedAmount applies the system-wide sign convention: Credit amounts
// are positive, Debit amounts are negative. Every component (ageing,
// running balances, reconciliation, opening balances) uses this single
// convention.
func SignedAmount(amount decimal.Decimal, sign Sign) decimal.Decimal {
	if sign == SignDebit {
		return amount.Neg()
	}
	return amount
}

// SignOf returns the display sign for a signed value: negative values
// are Debit, zero and positive values are Credit.
func SignOf(value decimal.Decimal) Sign {
	if value.IsNegative() {
		return SignDebit
	}
	return SignCredit
}
