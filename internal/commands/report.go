package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgersync-dev/ledgersync/internal/ledger"
	"github.com/ledgersync-dev/ledgersync/internal/model"
)

func newAgeingCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ageing <account>",
		Short: "Show overdue age buckets for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := findAccount(*dir, args[0])
			if err != nil {
				return err
			}

			buckets := ledger.ComputeAgeing(acct.Transactions, acct.OpeningBalance, time.Now())
			fmt.Printf("Ageing for %s\n", acct.Name)
			fmt.Printf("  0-30 days:  %s\n", buckets.UpTo30.StringFixed(2))
			fmt.Printf("  30-60 days: %s\n", buckets.UpTo60.StringFixed(2))
			fmt.Printf("  60-90 days: %s\n", buckets.UpTo90.StringFixed(2))
			fmt.Printf("  90+ days:   %s\n", buckets.Over90.StringFixed(2))
			fmt.Printf("  total:      %s\n", buckets.Total().StringFixed(2))
			return nil
		},
	}
}

func newStatementCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "statement <account>",
		Short: "Show the running balance ledger for an account, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := findAccount(*dir, args[0])
			if err != nil {
				return err
			}

			entries := ledger.ComputeRunningBalances(acct.Transactions, acct.OpeningBalance)
			fmt.Printf("Statement for %s (opening balance %s)\n", acct.Name, acct.OpeningBalance)
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				t := e.Transaction
				fmt.Printf("  %s  %-10s %-8s %10s %s  balance %s %s\n",
					t.Date.Format("2006-01-02"), t.VoucherType, t.VoucherNumber,
					t.Amount.StringFixed(2), t.Sign,
					e.Balance.Abs().StringFixed(2), e.Sign)
			}
			return nil
		},
	}
}

func findAccount(dir, name string) (model.Account, error) {
	p, err := openProject(dir)
	if err != nil {
		return model.Account{}, err
	}
	snap, err := p.store.Load()
	if err != nil {
		return model.Account{}, err
	}
	acct, ok := snap.AccountIndex()[name]
	if !ok {
		return model.Account{}, fmt.Errorf("account %q not in snapshot (run sync first?)", name)
	}
	return acct, nil
}
