// Package gateway implements source.Source over the accounting
// system's HTTP/XML envelope protocol.
package gateway

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgersync-dev/ledgersync/internal/dates"
	"github.com/ledgersync-dev/ledgersync/internal/model"
	"github.com/ledgersync-dev/ledgersync/internal/source"
)

const requestDateLayout = "20060102"

// Client talks to the accounting gateway. One POST per operation; the
// per-call timeout lives on the underlying http.Client, not the cycle.
type Client struct {
	url  string
	http *http.Client
	log  zerolog.Logger
	now  func() time.Time
}

// New creates a gateway client for the given endpoint URL.
func New(url string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
		log:  log.With().Str("component", "gateway").Logger(),
		now:  time.Now,
	}
}

type requestEnvelope struct {
	XMLName xml.Name `xml:"request"`
	Type    string   `xml:"type"`
	Kind    string   `xml:"kind,omitempty"`
	Account string   `xml:"account,omitempty"`
	From    string   `xml:"from,omitempty"`
	To      string   `xml:"to,omitempty"`
}

type accountsResponse struct {
	XMLName  xml.Name     `xml:"accounts"`
	Accounts []accountXML `xml:"account"`
}

type accountXML struct {
	Name           string `xml:"name"`
	Parent         string `xml:"parent"`
	OpeningBalance string `xml:"openingBalance"`
}

type balancesResponse struct {
	XMLName  xml.Name     `xml:"balances"`
	Balances []balanceXML `xml:"balance"`
}

type balanceXML struct {
	Name   string `xml:"name"`
	Amount string `xml:"amount"`
	Sign   string `xml:"sign"`
}

type transactionsResponse struct {
	XMLName      xml.Name         `xml:"transactions"`
	Transactions []transactionXML `xml:"transaction"`
}

type transactionXML struct {
	Date          string `xml:"date"`
	VoucherType   string `xml:"voucherType"`
	VoucherNumber string `xml:"voucherNumber"`
	Party         string `xml:"party"`
	Amount        string `xml:"amount"`
	Sign          string `xml:"sign"`
}

// ListAccounts fetches the account or group structure.
func (c *Client) ListAccounts(ctx context.Context, kind source.Kind) ([]source.AccountInfo, error) {
	var resp accountsResponse
	if err := c.post(ctx, requestEnvelope{Type: "LIST", Kind: string(kind)}, &resp); err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}

	infos := make([]source.AccountInfo, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		infos = append(infos, source.AccountInfo{
			Name:           a.Name,
			Parent:         a.Parent,
			OpeningBalance: a.OpeningBalance,
		})
	}
	return infos, nil
}

// FetchBalances fetches live balances for all ledger accounts. A
// malformed amount degrades to zero rather than failing the call.
func (c *Client) FetchBalances(ctx context.Context) (map[string]model.Balance, error) {
	var resp balancesResponse
	if err := c.post(ctx, requestEnvelope{Type: "BALANCES"}, &resp); err != nil {
		return nil, fmt.Errorf("fetching balances: %w", err)
	}

	balances := make(map[string]model.Balance, len(resp.Balances))
	for _, b := range resp.Balances {
		amount, err := decimal.NewFromString(b.Amount)
		if err != nil {
			c.log.Warn().Str("account", b.Name).Str("amount", b.Amount).
				Msg("unparseable balance amount, using zero")
			amount = decimal.Zero
		}
		balances[b.Name] = model.Balance{Amount: amount, Sign: parseSign(b.Sign)}
	}
	return balances, nil
}

// FetchTransactions fetches the transaction history for one account.
// Unparseable dates default to the fetch time and are marked estimated;
// rows with unparseable amounts are dropped with a warning.
func (c *Client) FetchTransactions(ctx context.Context, account string, from, to time.Time) ([]model.Transaction, error) {
	env := requestEnvelope{
		Type:    "TRANSACTIONS",
		Account: account,
		From:    from.Format(requestDateLayout),
		To:      to.Format(requestDateLayout),
	}
	var resp transactionsResponse
	if err := c.post(ctx, env, &resp); err != nil {
		return nil, fmt.Errorf("fetching transactions for %s: %w", account, err)
	}

	txns := make([]model.Transaction, 0, len(resp.Transactions))
	for _, t := range resp.Transactions {
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			c.log.Warn().Str("account", account).Str("voucher", t.VoucherNumber).
				Str("amount", t.Amount).Msg("unparseable transaction amount, dropping row")
			continue
		}
		date, parsed := dates.Normalize(t.Date, c.now())
		if !parsed {
			c.log.Warn().Str("account", account).Str("voucher", t.VoucherNumber).
				Str("date", t.Date).Msg("unparseable transaction date, defaulting to now")
		}
		txns = append(txns, model.Transaction{
			Date:           date,
			VoucherType:    t.VoucherType,
			VoucherNumber:  t.VoucherNumber,
			CounterAccount: t.Party,
			Amount:         amount,
			Sign:           parseSign(t.Sign),
			DateEstimated:  !parsed,
		})
	}
	return txns, nil
}

func (c *Client) post(ctx context.Context, env requestEnvelope, out any) error {
	body, err := xml.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned %s", resp.Status)
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func parseSign(s string) model.Sign {
	if strings.EqualFold(strings.TrimSpace(s), "cr") || strings.EqualFold(strings.TrimSpace(s), "credit") {
		return model.SignCredit
	}
	return model.SignDebit
}
