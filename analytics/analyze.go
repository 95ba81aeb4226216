package analytics

import (
	"math"
	"slices"

	"github.com/rustyeddy/tradejournal/journal"
)

const (
	// DefaultRebateRate is the share of paid fees returned to the trader.
	DefaultRebateRate = 0.30

	// DefaultInitialBalance is used by hosts that have no configured balance.
	DefaultInitialBalance = 10000.0

	// ProfitFactorCap stands in for an infinite profit factor (wins, no losses).
	ProfitFactorCap = 999.0

	// StartLabel is the date of the synthetic first equity point.
	StartLabel = "Start"
)

// EquityPoint is one node of the equity curve.
type EquityPoint struct {
	Date    string  `json:"date" yaml:"date"`
	Balance float64 `json:"balance" yaml:"balance"`
	PnL     float64 `json:"pnl" yaml:"pnl"`
	Symbol  string  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

// Stats is a snapshot derived from a trade collection and a starting
// balance. Percentages (WinRate, MaxDrawdown) are 0..100.
type Stats struct {
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
	CurrentBalance float64 `json:"current_balance" yaml:"current_balance"`

	NetProfit           float64 `json:"net_profit" yaml:"net_profit"`
	NetProfitWithRebate float64 `json:"net_profit_with_rebate" yaml:"net_profit_with_rebate"`
	TotalFees           float64 `json:"total_fees" yaml:"total_fees"`
	TotalRebates        float64 `json:"total_rebates" yaml:"total_rebates"`
	RebateRate          float64 `json:"rebate_rate" yaml:"rebate_rate"`

	// TotalTrades counts wins and losses only; zero-P/L trades are left out.
	TotalTrades int `json:"total_trades" yaml:"total_trades"`
	Wins        int `json:"wins" yaml:"wins"`
	Losses      int `json:"losses" yaml:"losses"`

	WinRate      float64 `json:"win_rate" yaml:"win_rate"`
	ProfitFactor float64 `json:"profit_factor" yaml:"profit_factor"`
	MaxDrawdown  float64 `json:"max_drawdown" yaml:"max_drawdown"`
	SharpeRatio  float64 `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	AvgWin       float64 `json:"avg_win" yaml:"avg_win"`
	AvgLoss      float64 `json:"avg_loss" yaml:"avg_loss"`

	EquityCurve []EquityPoint `json:"equity_curve" yaml:"equity_curve"`
}

// ReturnPct is the change from the initial balance in percent.
func (s Stats) ReturnPct() float64 {
	if s.InitialBalance == 0 {
		return 0
	}
	return (s.CurrentBalance - s.InitialBalance) / s.InitialBalance * 100
}

// Analyze computes Stats with DefaultRebateRate.
func Analyze(trades []journal.Trade, initialBalance float64) Stats {
	return AnalyzeWithRate(trades, initialBalance, DefaultRebateRate)
}

// AnalyzeWithRate replays trades in date order, oldest first. Trades on the
// same date keep their relative input order, which fixes the equity path
// and therefore the drawdown.
func AnalyzeWithRate(trades []journal.Trade, initialBalance, rebateRate float64) Stats {
	chron := slices.Clone(trades)
	slices.SortStableFunc(chron, func(a, b journal.Trade) int {
		return a.Date.Compare(b.Date)
	})

	var (
		wins, losses          int
		winAmount, lossAmount float64
		totalFees, maxDD      float64
	)
	balance, peak := initialBalance, initialBalance
	// P/L of the decided trades only; this is the Sharpe sample.
	decided := make([]float64, 0, len(chron))

	curve := make([]EquityPoint, 0, len(chron)+1)
	curve = append(curve, EquityPoint{Date: StartLabel, Balance: initialBalance})

	for _, t := range chron {
		pnl := Evaluate(t)
		balance += pnl
		totalFees += t.Fees

		curve = append(curve, EquityPoint{
			Date:    t.DateString(),
			Balance: balance,
			PnL:     pnl,
			Symbol:  t.Symbol,
		})

		switch {
		case pnl > 0:
			wins++
			winAmount += pnl
			decided = append(decided, pnl)
		case pnl < 0:
			losses++
			lossAmount += -pnl
			decided = append(decided, pnl)
		}

		if balance > peak {
			peak = balance
		}
		if dd := drawdownPct(peak, balance); dd > maxDD {
			maxDD = dd
		}
	}

	st := Stats{
		InitialBalance: initialBalance,
		CurrentBalance: balance,
		TotalFees:      totalFees,
		RebateRate:     rebateRate,
		TotalTrades:    wins + losses,
		Wins:           wins,
		Losses:         losses,
		MaxDrawdown:    maxDD,
		EquityCurve:    curve,
	}

	if st.TotalTrades > 0 {
		st.WinRate = float64(wins) / float64(st.TotalTrades) * 100
	}
	if wins > 0 {
		st.AvgWin = winAmount / float64(wins)
	}
	if losses > 0 {
		st.AvgLoss = lossAmount / float64(losses)
	}
	st.ProfitFactor = profitFactor(winAmount, lossAmount)

	st.NetProfit = winAmount - lossAmount
	st.TotalRebates = totalFees * rebateRate
	st.NetProfitWithRebate = st.NetProfit + st.TotalRebates

	if len(decided) > 1 {
		mean := st.NetProfit / float64(st.TotalTrades)
		if sd := stdDev(decided, mean); sd != 0 {
			st.SharpeRatio = mean / sd
		}
	}

	return st
}

func drawdownPct(peak, balance float64) float64 {
	if peak <= 0 {
		return 0
	}
	return (peak - balance) / peak * 100
}

func profitFactor(winAmount, lossAmount float64) float64 {
	switch {
	case lossAmount > 0:
		return winAmount / lossAmount
	case winAmount > 0:
		return ProfitFactorCap
	default:
		return 0
	}
}

// stdDev is the population standard deviation of xs about mean.
func stdDev(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
