package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/report"
)

func newStatsCmd(rc *RootConfig) *cobra.Command {
	var (
		balance   float64
		rebate    float64
		orgPath   string
		equityCSV string
		title     string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute the equity curve and performance statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("balance") {
				balance = rc.Cfg.Account.InitialBalance
			}
			if !cmd.Flags().Changed("rebate") {
				rebate = rc.Cfg.Analytics.RebateRate
			}
			if balance <= 0 {
				return fmt.Errorf("--balance must be positive")
			}
			if rebate < 0 || rebate > 1 {
				return fmt.Errorf("--rebate must be between 0 and 1")
			}

			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			trades, err := s.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list trades: %w", err)
			}

			st := analytics.AnalyzeWithRate(trades, balance, rebate)
			rc.Log.Debug("stats computed",
				zap.Int("trades", len(trades)),
				zap.Int("decided", st.TotalTrades),
				zap.Float64("initial_balance", balance),
			)

			report.Print(cmd.OutOrStdout(), st, rc.Cfg.Account.Currency)

			if orgPath != "" {
				if err := writeFile(orgPath, func(f *os.File) error {
					return report.WriteOrg(f, report.OrgReport{
						Title:    title,
						Currency: rc.Cfg.Account.Currency,
						Created:  time.Now(),
						Stats:    st,
					})
				}); err != nil {
					return fmt.Errorf("write org report: %w", err)
				}
				rc.Log.Info("org report written", zap.String("path", orgPath))
			}

			if equityCSV != "" {
				if err := writeFile(equityCSV, func(f *os.File) error {
					return report.WriteEquityCSV(f, st.EquityCurve)
				}); err != nil {
					return fmt.Errorf("write equity csv: %w", err)
				}
				rc.Log.Info("equity curve written", zap.String("path", equityCSV), zap.Int("points", len(st.EquityCurve)))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&balance, "balance", analytics.DefaultInitialBalance, "initial account balance (defaults to account.initial_balance)")
	cmd.Flags().Float64Var(&rebate, "rebate", analytics.DefaultRebateRate, "fee rebate rate 0..1 (defaults to analytics.rebate_rate)")
	cmd.Flags().StringVar(&orgPath, "org", "", "also write an Org-mode report to this file")
	cmd.Flags().StringVar(&equityCSV, "equity-csv", "", "also write the equity curve as CSV to this file")
	cmd.Flags().StringVar(&title, "title", "", "title of the Org-mode report")
	return cmd
}

// writeFile creates path and hands it to fn, closing it afterwards.
func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
