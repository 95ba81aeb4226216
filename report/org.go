package report

import (
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
)

// OrgReport is the data behind the Org-mode stats report.
type OrgReport struct {
	Title    string
	Currency string
	Created  time.Time
	Stats    analytics.Stats
	Notes    []string
}

var orgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"pf":     ProfitFactorString,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTmpl = template.Must(template.New("stats").Funcs(orgFuncs).Parse(OrgTemplate))

// WriteOrg renders r as an Org-mode section.
func WriteOrg(w io.Writer, r OrgReport) error {
	return orgTmpl.Execute(w, r)
}

const OrgTemplate = `* JOURNAL: {{if .Title}}{{.Title}}{{else}}Trading journal{{end}}
:PROPERTIES:
:CURRENCY:    {{.Currency}}
:START_BAL:   {{printf "%.2f" .Stats.InitialBalance}}
:END_BAL:     {{printf "%.2f" .Stats.CurrentBalance}}
:NET_PL:      {{printf "%.2f" .Stats.NetProfit}}
:NET_PL_REB:  {{printf "%.2f" .Stats.NetProfitWithRebate}}
:RETURN_PCT:  {{printf "%.2f" .Stats.ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .Stats.MaxDrawdown}}
:TRADES:      {{.Stats.TotalTrades}}
:WINS:        {{.Stats.Wins}}
:LOSSES:      {{.Stats.Losses}}
:WIN_RATE:    {{printf "%.2f" .Stats.WinRate}}
:PROFIT_FAC:  {{pf .Stats.ProfitFactor}}
:SHARPE:      {{printf "%.2f" .Stats.SharpeRatio}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:            *{{printf "%.2f" .Stats.NetProfit}}*
- Fees paid:          *{{printf "%.2f" .Stats.TotalFees}}*
- Rebates ({{printf "%.0f" (mul100 .Stats.RebateRate)}}%):      *{{printf "%.2f" .Stats.TotalRebates}}*
- Net P/L + rebates:  *{{printf "%.2f" .Stats.NetProfitWithRebate}}*
- Max Drawdown:       *{{printf "%.2f" .Stats.MaxDrawdown}}%*
- Win Rate:           *{{printf "%.2f" .Stats.WinRate}}%*
- Avg Win / Avg Loss: *{{printf "%.2f" .Stats.AvgWin}} / {{printf "%.2f" .Stats.AvgLoss}}*

** Equity Curve
| Date | Symbol | P/L | Balance |
|------+--------+-----+---------|
{{- range .Stats.EquityCurve }}
| {{.Date}} | {{.Symbol}} | {{printf "%.2f" .PnL}} | {{printf "%.2f" .Balance}} |
{{- end }}

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Stats.Wins}} |
| Losses  | {{.Stats.Losses}} |
| Total   | {{.Stats.TotalTrades}} |
{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
