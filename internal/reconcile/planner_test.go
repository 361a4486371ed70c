package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgersync-dev/ledgersync/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func debitAccount(amount string, txns int) *model.Account {
	a := &model.Account{
		Name:          "Acme Traders",
		BalanceAmount: dec(amount),
		BalanceSign:   model.SignDebit,
	}
	for i := 0; i < txns; i++ {
		a.Transactions = append(a.Transactions, model.Transaction{Amount: dec("1"), Sign: model.SignDebit})
	}
	return a
}

func TestNeedsFullResync_WithinTolerance(t *testing.T) {
	// Cached 100 Dr = signed -100; remote signed -100.05 is within 0.1.
	cached := debitAccount("100", 3)
	remote := &model.Balance{Amount: dec("100.05"), Sign: model.SignDebit}
	assert.False(t, NeedsFullResync(cached, remote))
}

func TestNeedsFullResync_BeyondTolerance(t *testing.T) {
	cached := debitAccount("100", 3)
	remote := &model.Balance{Amount: dec("100.2"), Sign: model.SignDebit}
	assert.True(t, NeedsFullResync(cached, remote))
}

func TestNeedsFullResync_ColdStart(t *testing.T) {
	remote := &model.Balance{Amount: dec("500"), Sign: model.SignCredit}
	assert.True(t, NeedsFullResync(nil, remote))
}

// A matching balance with no cached history still forces a resync: the
// cache default only coincidentally equals the remote value.
func TestNeedsFullResync_MatchingBalanceNoHistory(t *testing.T) {
	cached := debitAccount("500", 0)
	remote := &model.Balance{Amount: dec("500"), Sign: model.SignDebit}
	assert.True(t, NeedsFullResync(cached, remote))
}

func TestNeedsFullResync_BothAbsent(t *testing.T) {
	assert.False(t, NeedsFullResync(nil, nil))
}

func TestNeedsFullResync_TrivialRemoteNoHistory(t *testing.T) {
	remote := &model.Balance{Amount: dec("0.05"), Sign: model.SignDebit}
	assert.False(t, NeedsFullResync(nil, remote))
}

func TestNeedsFullResync_SignFlip(t *testing.T) {
	// Same magnitude, opposite sign: diff is 200, well beyond tolerance.
	cached := debitAccount("100", 3)
	remote := &model.Balance{Amount: dec("100"), Sign: model.SignCredit}
	assert.True(t, NeedsFullResync(cached, remote))
}

func TestPlan(t *testing.T) {
	cached := map[string]model.Account{
		"stable":  *debitAccount("100", 2),
		"drifted": *debitAccount("100", 2),
	}
	balances := map[string]model.Balance{
		"stable":  {Amount: dec("100"), Sign: model.SignDebit},
		"drifted": {Amount: dec("150"), Sign: model.SignDebit},
		"fresh":   {Amount: dec("42"), Sign: model.SignCredit},
	}
	flagged := Plan([]string{"stable", "drifted", "fresh"}, cached, balances)
	assert.Equal(t, []string{"drifted", "fresh"}, flagged)
}
