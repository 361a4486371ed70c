package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgersync-dev/ledgersync/internal/model"
)

var asOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func daysAgo(n int) time.Time {
	return asOf.AddDate(0, 0, -n)
}

func txn(date time.Time, amount string, sign model.Sign) model.Transaction {
	return model.Transaction{Date: date, Amount: dec(amount), Sign: sign}
}

func TestComputeAgeing_NoTransactions(t *testing.T) {
	buckets := ComputeAgeing(nil, "500", asOf)
	assert.True(t, buckets.Total().IsZero())

	buckets = ComputeAgeing(nil, "0", asOf)
	assert.True(t, buckets.Total().IsZero())
}

func TestComputeAgeing_CreditsCoverDebits(t *testing.T) {
	txns := []model.Transaction{
		txn(daysAgo(50), "300", model.SignDebit),
		txn(daysAgo(20), "400", model.SignCredit),
	}
	buckets := ComputeAgeing(txns, "", asOf)
	assert.True(t, buckets.Total().IsZero())
}

func TestComputeAgeing_ShortfallBucketedByDebitAge(t *testing.T) {
	txns := []model.Transaction{
		txn(daysAgo(45), "300", model.SignDebit),
		txn(daysAgo(10), "100", model.SignCredit),
	}
	buckets := ComputeAgeing(txns, "", asOf)
	assert.True(t, buckets.UpTo60.Equal(dec("200")), "got %s", buckets.UpTo60)
	assert.True(t, buckets.UpTo30.IsZero())
	assert.True(t, buckets.UpTo90.IsZero())
	assert.True(t, buckets.Over90.IsZero())
}

// Once the credit pool runs out, every later debit is overdue for its
// full amount.
func TestComputeAgeing_LaterDebitsFullyOverdue(t *testing.T) {
	txns := []model.Transaction{
		txn(daysAgo(100), "500", model.SignDebit),
		txn(daysAgo(40), "200", model.SignDebit),
		txn(daysAgo(5), "300", model.SignDebit),
		txn(daysAgo(90), "450", model.SignCredit),
	}
	buckets := ComputeAgeing(txns, "", asOf)
	assert.True(t, buckets.Over90.Equal(dec("50")), "oldest debit shortfall: got %s", buckets.Over90)
	assert.True(t, buckets.UpTo60.Equal(dec("200")))
	assert.True(t, buckets.UpTo30.Equal(dec("300")))
	assert.True(t, buckets.Total().Equal(dec("550")))
}

func TestComputeAgeing_NegativeOpeningIsOldestDebit(t *testing.T) {
	// Opening -1000, debit 600 @ 40 days ago, credit 1000 @ 10 days
	// ago. The synthetic opening debit consumes the whole credit pool,
	// leaving the 600 debit fully overdue at ~40 days.
	txns := []model.Transaction{
		txn(daysAgo(40), "600", model.SignDebit),
		txn(daysAgo(10), "1000", model.SignCredit),
	}
	buckets := ComputeAgeing(txns, "-1000", asOf)
	assert.True(t, buckets.UpTo60.Equal(dec("600")), "got %s", buckets.UpTo60)
	assert.True(t, buckets.UpTo30.IsZero())
	assert.True(t, buckets.UpTo90.IsZero())
	assert.True(t, buckets.Over90.IsZero())
}

func TestComputeAgeing_PositiveOpeningJoinsCreditPool(t *testing.T) {
	txns := []model.Transaction{
		txn(daysAgo(70), "250", model.SignDebit),
	}
	buckets := ComputeAgeing(txns, "250", asOf)
	assert.True(t, buckets.Total().IsZero())
}

func TestComputeAgeing_BucketBoundaries(t *testing.T) {
	txns := []model.Transaction{
		txn(daysAgo(30), "1", model.SignDebit),
		txn(daysAgo(31), "2", model.SignDebit),
		txn(daysAgo(60), "3", model.SignDebit),
		txn(daysAgo(91), "4", model.SignDebit),
	}
	buckets := ComputeAgeing(txns, "", asOf)
	assert.True(t, buckets.UpTo30.Equal(dec("1")))
	assert.True(t, buckets.UpTo60.Equal(dec("5")))
	assert.True(t, buckets.UpTo90.IsZero())
	assert.True(t, buckets.Over90.Equal(dec("4")))
}

func TestComputeAgeing_Idempotent(t *testing.T) {
	txns := []model.Transaction{
		txn(daysAgo(80), "700", model.SignDebit),
		txn(daysAgo(35), "150", model.SignCredit),
		txn(daysAgo(12), "90", model.SignDebit),
	}
	first := ComputeAgeing(txns, "-300", asOf)
	second := ComputeAgeing(txns, "-300", asOf)
	assert.True(t, first.UpTo30.Equal(second.UpTo30))
	assert.True(t, first.UpTo60.Equal(second.UpTo60))
	assert.True(t, first.UpTo90.Equal(second.UpTo90))
	assert.True(t, first.Over90.Equal(second.Over90))
}

// Total overdue never exceeds total debits (including the synthetic
// opening debit).
func TestComputeAgeing_TotalBoundedByDebits(t *testing.T) {
	txns := []model.Transaction{
		txn(daysAgo(75), "400", model.SignDebit),
		txn(daysAgo(50), "100", model.SignCredit),
		txn(daysAgo(25), "350", model.SignDebit),
	}
	buckets := ComputeAgeing(txns, "-200", asOf)
	totalDebits := dec("950") // 400 + 350 + synthetic 200
	assert.True(t, buckets.Total().LessThanOrEqual(totalDebits))
	// 300 of credit (100 + nothing else) against 950 of debit.
	assert.True(t, buckets.Total().Equal(dec("850")))
}

func TestComputeAgeing_MalformedOpeningContributesNothing(t *testing.T) {
	txns := []model.Transaction{
		txn(daysAgo(10), "100", model.SignDebit),
	}
	buckets := ComputeAgeing(txns, "not-a-number", asOf)
	assert.True(t, buckets.UpTo30.Equal(dec("100")))
}
