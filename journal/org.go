package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// FormatTradeOrg renders a trade as an Org-mode block suitable for pasting
// into a journal. Structured facts go in the PROPERTIES drawer; the notes
// become the Thesis section. pnl is the realized P/L computed by the caller.
func FormatTradeOrg(t Trade, pnl float64) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.Symbol, t.Direction, shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	if created, err := id.Time(t.ID); err == nil {
		b.WriteString(fmt.Sprintf(":CREATED: %s\n", created.Format(time.RFC3339)))
	}
	b.WriteString(fmt.Sprintf(":DATE: %s\n", t.DateString()))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", t.Direction))
	b.WriteString(fmt.Sprintf(":STATUS: %s\n", t.Status))
	b.WriteString(fmt.Sprintf(":QUANTITY: %.4f\n", t.Quantity))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %s\n", f(t.EntryPrice)))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %s\n", f(t.ExitPrice)))
	b.WriteString(fmt.Sprintf(":FEES: %.4f\n", t.Fees))
	b.WriteString(fmt.Sprintf(":REALIZED_PL: %.2f\n", pnl))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n")
	if t.Notes != "" {
		b.WriteString("- " + t.Notes + "\n\n")
	} else {
		b.WriteString("- \n\n")
	}
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines. pnl is
// called once per trade.
func FormatTradesOrg(trades []Trade, pnl func(Trade) float64) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t, pnl(t)))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
