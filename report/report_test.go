package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoStats() analytics.Stats {
	return analytics.Analyze(journal.DemoTrades(), 10000)
}

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Print(&buf, demoStats(), "USDT")
	out := buf.String()

	assert.Contains(t, out, "Start Balance:   10000.00 USDT")
	assert.Contains(t, out, "Balance:         13918.00 USDT")
	assert.Contains(t, out, "Return:          39.18%")
	assert.Contains(t, out, "Net P/L:         3918.00")
	assert.Contains(t, out, "Total Fees:      82.00")
	assert.Contains(t, out, "Rebates (30%):  24.60")
	assert.Contains(t, out, "Net P/L + Rebate: 3942.60")
	assert.Contains(t, out, "Win Rate:        70.00%")
	assert.Contains(t, out, "Profit Factor:   10.46")
}

func TestProfitFactorString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "∞", ProfitFactorString(analytics.ProfitFactorCap))
	assert.Equal(t, "1.50", ProfitFactorString(1.5))
	assert.Equal(t, "0.00", ProfitFactorString(0))
}

func TestWriteEquityCSV(t *testing.T) {
	t.Parallel()

	st := demoStats()

	var buf bytes.Buffer
	require.NoError(t, WriteEquityCSV(&buf, st.EquityCurve))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 12)

	assert.Equal(t, []string{"date", "symbol", "pnl", "balance"}, rows[0])
	assert.Equal(t, []string{"Start", "", "0.00", "10000.00"}, rows[1])
	assert.Equal(t, []string{"2023-10-01", "BTCUSDT", "345.00", "10345.00"}, rows[2])
	assert.Equal(t, "13918.00", rows[11][3])
}

func TestWriteOrg(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteOrg(&buf, OrgReport{
		Currency: "USDT",
		Created:  time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		Stats:    demoStats(),
		Notes:    []string{"size down after two losses"},
	})
	require.NoError(t, err)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "* JOURNAL: Trading journal\n"))
	assert.Contains(t, out, ":CURRENCY:    USDT")
	assert.Contains(t, out, ":END_BAL:     13918.00")
	assert.Contains(t, out, ":TRADES:      10")
	assert.Contains(t, out, ":CREATED:     [2024-03-15 Fri 09:00]")
	assert.Contains(t, out, "- Rebates (30%):      *24.60*")
	assert.Contains(t, out, "| Start |  | 0.00 | 10000.00 |")
	assert.Contains(t, out, "| 2023-10-28 | SOLUSDT | 515.00 | 13918.00 |")
	assert.Contains(t, out, "** Observations\n- size down after two losses")
}

func TestWriteOrgNoTrades(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteOrg(&buf, OrgReport{Title: "empty", Stats: analytics.Analyze(nil, 500)})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "* JOURNAL: empty")
	assert.Contains(t, out, ":PROFIT_FAC:  0.00")
	assert.NotContains(t, out, "Observations")
}
