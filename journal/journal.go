package journal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the text form of a trade date.
const DateLayout = "2006-01-02"

var (
	ErrNotFound     = errors.New("trade not found")
	ErrInvalidTrade = errors.New("invalid trade")
)

type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

// ParseDirection accepts long/short in any case, plus l/s and buy/sell.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "l", "buy":
		return Long, nil
	case "short", "s", "sell":
		return Short, nil
	}
	return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidTrade, s)
}

type Status string

const (
	Closed Status = "Closed"
	// Open is reserved. Open trades are listed but never computed over.
	Open Status = "Open"
)

func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "closed":
		return Closed, nil
	case "open":
		return Open, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTrade, s)
}

// Trade is one journaled trade. Quantity is always in units of the
// underlying instrument and Fees is the round-trip cost in quote currency.
type Trade struct {
	ID         string    `json:"id" yaml:"id"`
	Date       time.Time `json:"date" yaml:"date"`
	Symbol     string    `json:"symbol" yaml:"symbol"`
	Direction  Direction `json:"direction" yaml:"direction"`
	EntryPrice float64   `json:"entry_price" yaml:"entry_price"`
	ExitPrice  float64   `json:"exit_price" yaml:"exit_price"`
	Quantity   float64   `json:"quantity" yaml:"quantity"`
	Fees       float64   `json:"fees" yaml:"fees"`
	Notes      string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Status     Status    `json:"status" yaml:"status"`
}

// IsClosed reports whether the trade contributes realized P/L.
func (t Trade) IsClosed() bool {
	return t.Status == Closed
}

// DateString returns the trade date as YYYY-MM-DD.
func (t Trade) DateString() string {
	return t.Date.Format(DateLayout)
}

// Validate rejects records the analytics must never see: the engine
// propagates NaN instead of failing, so this is the only gate.
func (t Trade) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTrade)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidTrade)
	}
	if strings.TrimSpace(t.Symbol) == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidTrade)
	}
	if t.Direction != Long && t.Direction != Short {
		return fmt.Errorf("%w: direction must be Long or Short", ErrInvalidTrade)
	}
	if t.Status != Closed && t.Status != Open {
		return fmt.Errorf("%w: status must be Closed or Open", ErrInvalidTrade)
	}
	if !positive(t.EntryPrice) {
		return fmt.Errorf("%w: entry_price must be positive", ErrInvalidTrade)
	}
	if !positive(t.ExitPrice) {
		return fmt.Errorf("%w: exit_price must be positive", ErrInvalidTrade)
	}
	if !positive(t.Quantity) {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidTrade)
	}
	if math.IsNaN(t.Fees) || math.IsInf(t.Fees, 0) || t.Fees < 0 {
		return fmt.Errorf("%w: fees must be non-negative", ErrInvalidTrade)
	}
	return nil
}

func positive(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x > 0
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidTrade, s)
	}
	return d, nil
}

// Store persists the trade collection. List returns trades in insertion
// order, which the analytics use as the tie-break for equal dates.
type Store interface {
	Add(ctx context.Context, t Trade) error
	// AddAll stores every trade or none of them.
	AddAll(ctx context.Context, trades []Trade) error
	Replace(ctx context.Context, t Trade) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (Trade, error)
	List(ctx context.Context) ([]Trade, error)
	Reset(ctx context.Context) error
	Close() error
}
