package journal

import (
	"fmt"
	"math"
	"strings"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// DefaultFeeRate is the per-side taker rate used to estimate fees when the
// user leaves them blank.
const DefaultFeeRate = 0.0004

// QuantityMode says how Entry.Quantity was entered.
type QuantityMode string

const (
	// QuantityCoin is an amount of the underlying instrument.
	QuantityCoin QuantityMode = "coin"
	// QuantityQuote is a notional in quote currency, e.g. 10000 USDT.
	QuantityQuote QuantityMode = "quote"
)

func ParseQuantityMode(s string) (QuantityMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "coin", "base":
		return QuantityCoin, nil
	case "quote", "usdt":
		return QuantityQuote, nil
	}
	return "", fmt.Errorf("%w: unknown quantity mode %q", ErrInvalidTrade, s)
}

// Entry is a trade as typed by the user, before normalisation.
type Entry struct {
	Date         string       `json:"date" yaml:"date"`
	Symbol       string       `json:"symbol" yaml:"symbol"`
	Direction    string       `json:"direction" yaml:"direction"`
	EntryPrice   float64      `json:"entry_price" yaml:"entry_price"`
	ExitPrice    float64      `json:"exit_price" yaml:"exit_price"`
	Quantity     float64      `json:"quantity" yaml:"quantity"`
	QuantityMode QuantityMode `json:"quantity_mode,omitempty" yaml:"quantity_mode,omitempty"`
	// Fees nil means estimate from FeeRate.
	Fees  *float64 `json:"fees,omitempty" yaml:"fees,omitempty"`
	Notes string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Trade converts the entry into a validated Closed trade with a new ID.
// feeRate is used only when Fees is nil. A rate of 0 estimates no fees; a
// negative rate falls back to DefaultFeeRate.
func (e Entry) Trade(feeRate float64) (Trade, error) {
	return e.TradeWithID(id.New(), feeRate)
}

// TradeWithID is Trade for an existing ID, used when replacing a record.
func (e Entry) TradeWithID(tradeID string, feeRate float64) (Trade, error) {
	date, err := ParseDate(e.Date)
	if err != nil {
		return Trade{}, err
	}
	dir, err := ParseDirection(e.Direction)
	if err != nil {
		return Trade{}, err
	}
	mode, err := ParseQuantityMode(string(e.QuantityMode))
	if err != nil {
		return Trade{}, err
	}
	if !positive(e.EntryPrice) {
		return Trade{}, fmt.Errorf("%w: entry_price must be positive", ErrInvalidTrade)
	}

	qty := CoinQuantity(e.Quantity, e.EntryPrice, mode)

	var fees float64
	if e.Fees != nil {
		fees = *e.Fees
	} else {
		if feeRate < 0 {
			feeRate = DefaultFeeRate
		}
		fees = EstimateFees(qty, e.EntryPrice, e.ExitPrice, feeRate)
	}

	t := Trade{
		ID:         tradeID,
		Date:       date,
		Symbol:     strings.ToUpper(strings.TrimSpace(e.Symbol)),
		Direction:  dir,
		EntryPrice: e.EntryPrice,
		ExitPrice:  e.ExitPrice,
		Quantity:   qty,
		Fees:       fees,
		Notes:      strings.TrimSpace(e.Notes),
		Status:     Closed,
	}
	if err := t.Validate(); err != nil {
		return Trade{}, err
	}
	return t, nil
}

// CoinQuantity converts an entered quantity into underlying units.
func CoinQuantity(qty, entryPrice float64, mode QuantityMode) float64 {
	if mode == QuantityQuote {
		return qty / entryPrice
	}
	return qty
}

// EstimateFees charges rate on both the entry and exit notional and rounds
// to 4 decimals.
func EstimateFees(qty, entryPrice, exitPrice, rate float64) float64 {
	fees := (qty*entryPrice + qty*exitPrice) * rate
	return math.Round(fees*1e4) / 1e4
}
