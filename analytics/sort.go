package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/rustyeddy/tradejournal/journal"
)

// Field names a sortable trade column. FieldPnL is derived, never stored.
type Field string

const (
	FieldID         Field = "id"
	FieldDate       Field = "date"
	FieldSymbol     Field = "symbol"
	FieldDirection  Field = "direction"
	FieldEntryPrice Field = "entry_price"
	FieldExitPrice  Field = "exit_price"
	FieldQuantity   Field = "quantity"
	FieldFees       Field = "fees"
	FieldNotes      Field = "notes"
	FieldStatus     Field = "status"
	FieldPnL        Field = "pnl"
)

type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort order %q", s)
}

type compareFunc func(a, b journal.Trade) int

func by[K cmp.Ordered](key func(journal.Trade) K) compareFunc {
	return func(a, b journal.Trade) int {
		return cmp.Compare(key(a), key(b))
	}
}

// resolvers maps each field to a three-way comparison over its natural
// type. The pnl key is evaluated on every comparison rather than stored.
var resolvers = map[Field]compareFunc{
	FieldID:         by(func(t journal.Trade) string { return t.ID }),
	FieldDate:       func(a, b journal.Trade) int { return a.Date.Compare(b.Date) },
	FieldSymbol:     by(func(t journal.Trade) string { return t.Symbol }),
	FieldDirection:  by(func(t journal.Trade) string { return string(t.Direction) }),
	FieldEntryPrice: by(func(t journal.Trade) float64 { return t.EntryPrice }),
	FieldExitPrice:  by(func(t journal.Trade) float64 { return t.ExitPrice }),
	FieldQuantity:   by(func(t journal.Trade) float64 { return t.Quantity }),
	FieldFees:       by(func(t journal.Trade) float64 { return t.Fees }),
	FieldNotes:      by(func(t journal.Trade) string { return t.Notes }),
	FieldStatus:     by(func(t journal.Trade) string { return string(t.Status) }),
	FieldPnL:        by(Evaluate),
}

// Fields lists the sortable fields in column order.
func Fields() []Field {
	return []Field{
		FieldDate, FieldSymbol, FieldDirection, FieldEntryPrice, FieldExitPrice,
		FieldQuantity, FieldFees, FieldPnL, FieldNotes, FieldStatus, FieldID,
	}
}

// ParseField accepts the snake_case field names and their camelCase forms.
func ParseField(s string) (Field, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	switch k {
	case "entryprice", "entry":
		k = string(FieldEntryPrice)
	case "exitprice", "exit":
		k = string(FieldExitPrice)
	case "qty":
		k = string(FieldQuantity)
	}
	f := Field(k)
	if _, ok := resolvers[f]; !ok {
		return "", fmt.Errorf("unknown sort field %q", s)
	}
	return f, nil
}

// SortBy returns a sorted copy of trades. The sort is stable in both
// directions: trades with equal keys stay in input order. An unknown field
// compares every pair as equal and so returns the copy unchanged.
func SortBy(trades []journal.Trade, field Field, order Order) []journal.Trade {
	out := slices.Clone(trades)

	compare, ok := resolvers[field]
	if !ok {
		return out
	}
	if order == Descending {
		asc := compare
		compare = func(a, b journal.Trade) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

// SortConfig is the caller-held sort state of a trade listing.
type SortConfig struct {
	Field Field
	Order Order
}

// DefaultSortConfig lists the newest trades first.
func DefaultSortConfig() SortConfig {
	return SortConfig{Field: FieldDate, Order: Descending}
}

// Toggle returns the next state after a request to sort by field: the same
// field flips the order, a different field starts ascending.
func (c SortConfig) Toggle(field Field) SortConfig {
	if c.Field == field && c.Order == Ascending {
		return SortConfig{Field: field, Order: Descending}
	}
	return SortConfig{Field: field, Order: Ascending}
}

// Apply sorts trades by the configured field and order.
func (c SortConfig) Apply(trades []journal.Trade) []journal.Trade {
	return SortBy(trades, c.Field, c.Order)
}
