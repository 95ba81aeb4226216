package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

var CSVHeader = []string{"id", "date", "symbol", "direction", "entry_price", "exit_price", "quantity", "fees", "notes", "status"}

// WriteCSV writes trades with a header row, in the order given.
func WriteCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, t := range trades {
		err := cw.Write([]string{
			t.ID,
			t.DateString(),
			t.Symbol,
			string(t.Direction),
			f(t.EntryPrice),
			f(t.ExitPrice),
			f(t.Quantity),
			f(t.Fees),
			t.Notes,
			string(t.Status),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses trades written by WriteCSV. Columns are matched by header
// name; id, fees, notes and status are optional. Rows without an id get a
// fresh one. Every row is validated.
func ReadCSV(r io.Reader) ([]Trade, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"date", "symbol", "direction", "entry_price", "exit_price", "quantity"} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("missing column %q", req)
		}
	}

	var out []Trade
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		t, err := parseRow(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func parseRow(cols map[string]int, rec []string) (Trade, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	num := func(name string) (float64, error) {
		v, err := strconv.ParseFloat(get(name), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q", ErrInvalidTrade, name, get(name))
		}
		return v, nil
	}

	var (
		t   Trade
		err error
	)
	t.ID = get("id")
	if t.ID == "" {
		t.ID = id.New()
	}
	if t.Date, err = ParseDate(get("date")); err != nil {
		return Trade{}, err
	}
	t.Symbol = get("symbol")
	if t.Direction, err = ParseDirection(get("direction")); err != nil {
		return Trade{}, err
	}
	if t.EntryPrice, err = num("entry_price"); err != nil {
		return Trade{}, err
	}
	if t.ExitPrice, err = num("exit_price"); err != nil {
		return Trade{}, err
	}
	if t.Quantity, err = num("quantity"); err != nil {
		return Trade{}, err
	}
	if get("fees") != "" {
		if t.Fees, err = num("fees"); err != nil {
			return Trade{}, err
		}
	}
	t.Notes = get("notes")
	if t.Status, err = ParseStatus(get("status")); err != nil {
		return Trade{}, err
	}

	return t, t.Validate()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
