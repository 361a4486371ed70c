package gateway

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgersync-dev/ledgersync/internal/model"
	"github.com/ledgersync-dev/ledgersync/internal/source"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(srv.URL, 5*time.Second, zerolog.Nop())
	c.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestListAccounts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var env requestEnvelope
		require.NoError(t, xml.Unmarshal(body, &env))
		assert.Equal(t, "LIST", env.Type)
		assert.Equal(t, "Ledgers", env.Kind)

		_, _ = w.Write([]byte(`<accounts>
			<account><name>Acme Traders</name><parent>North Zone</parent><openingBalance>-1000</openingBalance></account>
			<account><name>Globex</name><parent>Payables</parent><openingBalance></openingBalance></account>
		</accounts>`))
	})

	infos, err := c.ListAccounts(context.Background(), source.KindLedgers)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "Acme Traders", infos[0].Name)
	assert.Equal(t, "North Zone", infos[0].Parent)
	assert.Equal(t, "-1000", infos[0].OpeningBalance)
}

func TestFetchBalances_MalformedAmountDegradesToZero(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<balances>
			<balance><name>Acme Traders</name><amount>120.50</amount><sign>Dr</sign></balance>
			<balance><name>Globex</name><amount>oops</amount><sign>Cr</sign></balance>
		</balances>`))
	})

	balances, err := c.FetchBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, model.SignDebit, balances["Acme Traders"].Sign)
	assert.True(t, balances["Acme Traders"].Amount.Equal(decimalFromString(t, "120.50")))
	assert.True(t, balances["Globex"].Amount.IsZero())
}

func TestFetchTransactions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var env requestEnvelope
		require.NoError(t, xml.Unmarshal(body, &env))
		assert.Equal(t, "TRANSACTIONS", env.Type)
		assert.Equal(t, "Acme Traders", env.Account)
		assert.Equal(t, "20240101", env.From)

		_, _ = w.Write([]byte(`<transactions>
			<transaction><date>20240415</date><voucherType>Sales</voucherType><voucherNumber>101</voucherNumber><party>Sales Account</party><amount>600</amount><sign>Dr</sign></transaction>
			<transaction><date>scrambled</date><voucherType>Receipt</voucherType><voucherNumber>102</voucherNumber><party>Bank</party><amount>600</amount><sign>Cr</sign></transaction>
			<transaction><date>20240420</date><voucherType>Sales</voucherType><voucherNumber>103</voucherNumber><party>Sales Account</party><amount>bogus</amount><sign>Dr</sign></transaction>
		</transactions>`))
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	txns, err := c.FetchTransactions(context.Background(), "Acme Traders", from, to)
	require.NoError(t, err)
	require.Len(t, txns, 2, "row with bogus amount is dropped")

	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), txns[0].Date)
	assert.False(t, txns[0].DateEstimated)
	assert.Equal(t, model.SignDebit, txns[0].Sign)

	assert.True(t, txns[1].DateEstimated, "scrambled date defaults to now")
	assert.Equal(t, c.now(), txns[1].Date)
	assert.Equal(t, model.SignCredit, txns[1].Sign)
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestPost_NonOKStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	})

	_, err := c.FetchBalances(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
