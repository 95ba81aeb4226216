// Package analytics turns a journal's trades into realized P/L, an equity
// curve, portfolio statistics and sorted views. Every function is pure: the
// input slice is never modified and nothing is cached between calls.
package analytics

import "github.com/rustyeddy/tradejournal/journal"

// Evaluate returns the realized P/L of a trade net of fees. Trades that are
// not closed evaluate to exactly 0.
func Evaluate(t journal.Trade) float64 {
	if !t.IsClosed() {
		return 0
	}

	var raw float64
	if t.Direction == journal.Long {
		raw = (t.ExitPrice - t.EntryPrice) * t.Quantity
	} else {
		raw = (t.EntryPrice - t.ExitPrice) * t.Quantity
	}
	return raw - t.Fees
}
