package journal

import (
	"time"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

type demoRow struct {
	date      string
	symbol    string
	direction Direction
	entry     float64
	exit      float64
	qty       float64
	fees      float64
	notes     string
}

var demoRows = []demoRow{
	{"2023-10-01", "BTCUSDT", Long, 26500, 27200, 0.5, 5, "breakout retest long"},
	{"2023-10-03", "ETHUSDT", Short, 1650, 1620, 5, 8, "weak range, short the top"},
	{"2023-10-05", "SOLUSDT", Long, 23.5, 22.0, 100, 2, "stopped out"},
	{"2023-10-08", "BTCUSDT", Long, 27500, 28100, 0.8, 10, "trend follow"},
	{"2023-10-12", "BTCUSDT", Short, 27800, 28000, 1, 10, "fake breakdown, stopped"},
	{"2023-10-15", "ETHUSDT", Long, 1580, 1650, 10, 15, "bullish divergence at the low"},
	{"2023-10-18", "XRPUSDT", Short, 0.52, 0.48, 5000, 5, "bad news short"},
	{"2023-10-22", "BTCUSDT", Long, 30000, 34000, 0.5, 20, "ETF hype squeeze"},
	{"2023-10-25", "SOLUSDT", Long, 32.0, 31.0, 50, 2, "pullback too deep, stopped"},
	{"2023-10-28", "SOLUSDT", Long, 31.5, 38.0, 80, 5, "reclaim confirmed"},
}

// DemoTrades returns the sample journal used by `seed` and `reset --demo`.
// IDs are fresh on every call and stamped with the trade date so they sort
// like the trades.
func DemoTrades() []Trade {
	out := make([]Trade, 0, len(demoRows))
	for _, r := range demoRows {
		d, _ := time.ParseInLocation(DateLayout, r.date, time.UTC)
		out = append(out, Trade{
			ID:         id.NewAt(d),
			Date:       d,
			Symbol:     r.symbol,
			Direction:  r.direction,
			EntryPrice: r.entry,
			ExitPrice:  r.exit,
			Quantity:   r.qty,
			Fees:       r.fees,
			Notes:      r.notes,
			Status:     Closed,
		})
	}
	return out
}
