package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rustyeddy/tradejournal/analytics"
)

// Print writes a plain-text summary of a stats snapshot.
func Print(w io.Writer, s analytics.Stats, currency string) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Trading Journal")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance:   %.2f %s\n", s.InitialBalance, currency)
	fmt.Fprintf(w, "Balance:         %.2f %s\n", s.CurrentBalance, currency)
	fmt.Fprintf(w, "Return:          %.2f%%\n", s.ReturnPct())

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Profit")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Net P/L:         %.2f\n", s.NetProfit)
	fmt.Fprintf(w, "Total Fees:      %.2f\n", s.TotalFees)
	fmt.Fprintf(w, "Rebates (%.0f%%):  %.2f\n", s.RebateRate*100, s.TotalRebates)
	fmt.Fprintf(w, "Net P/L + Rebate: %.2f\n", s.NetProfitWithRebate)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:          %d\n", s.TotalTrades)
	fmt.Fprintf(w, "Wins:            %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:          %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:        %.2f%%\n", s.WinRate)
	fmt.Fprintf(w, "Avg Win:         %.2f\n", s.AvgWin)
	fmt.Fprintf(w, "Avg Loss:        %.2f\n", s.AvgLoss)
	fmt.Fprintf(w, "Profit Factor:   %s\n", ProfitFactorString(s.ProfitFactor))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Max Drawdown:    %.2f%%\n", s.MaxDrawdown)
	fmt.Fprintf(w, "Sharpe (trade):  %.2f\n", s.SharpeRatio)

	fmt.Fprintln(w)
}

// ProfitFactorString renders the no-loss cap as "∞".
func ProfitFactorString(pf float64) string {
	if pf >= analytics.ProfitFactorCap {
		return "∞"
	}
	return strconv.FormatFloat(pf, 'f', 2, 64)
}

// WriteEquityCSV writes the equity curve, start point included.
func WriteEquityCSV(w io.Writer, curve []analytics.EquityPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "symbol", "pnl", "balance"}); err != nil {
		return err
	}
	for _, p := range curve {
		err := cw.Write([]string{
			p.Date,
			p.Symbol,
			strconv.FormatFloat(p.PnL, 'f', 2, 64),
			strconv.FormatFloat(p.Balance, 'f', 2, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
