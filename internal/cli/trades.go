package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

// entryFlags are the trade form fields shared by add and replace.
type entryFlags struct {
	date      string
	symbol    string
	direction string
	entry     float64
	exit      float64
	qty       float64
	qtyMode   string
	fees      float64
	notes     string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.date, "date", time.Now().Format(journal.DateLayout), "close date YYYY-MM-DD")
	fl.StringVarP(&f.symbol, "symbol", "s", "", "instrument, e.g. BTCUSDT (required)")
	fl.StringVarP(&f.direction, "direction", "D", "", "long or short (required)")
	fl.Float64Var(&f.entry, "entry", 0, "entry price (required)")
	fl.Float64Var(&f.exit, "exit", 0, "exit price (required)")
	fl.Float64VarP(&f.qty, "qty", "q", 0, "quantity (required)")
	fl.StringVar(&f.qtyMode, "qty-mode", "coin", "quantity unit: coin or quote")
	fl.Float64Var(&f.fees, "fees", 0, "round-trip fees; estimated from fees.rate when omitted")
	fl.StringVarP(&f.notes, "notes", "n", "", "free-text notes")

	for _, name := range []string{"symbol", "direction", "entry", "exit", "qty"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func (f *entryFlags) toEntry(cmd *cobra.Command) journal.Entry {
	e := journal.Entry{
		Date:         f.date,
		Symbol:       f.symbol,
		Direction:    f.direction,
		EntryPrice:   f.entry,
		ExitPrice:    f.exit,
		Quantity:     f.qty,
		QuantityMode: journal.QuantityMode(f.qtyMode),
		Notes:        f.notes,
	}
	if cmd.Flags().Changed("fees") {
		fees := f.fees
		e.Fees = &fees
	}
	return e
}

func newAddCmd(rc *RootConfig) *cobra.Command {
	var ef entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Journal a closed trade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ef.toEntry(cmd).Trade(rc.Cfg.Fees.Rate)
			if err != nil {
				return err
			}

			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Add(cmd.Context(), t); err != nil {
				return fmt.Errorf("add trade: %w", err)
			}
			rc.Log.Info("trade added", zap.String("id", t.ID), zap.String("symbol", t.Symbol))

			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t, analytics.Evaluate(t)))
			return nil
		},
	}
	ef.register(cmd)
	return cmd
}

func newReplaceCmd(rc *RootConfig) *cobra.Command {
	var ef entryFlags

	cmd := &cobra.Command{
		Use:   "replace <trade-id>",
		Short: "Overwrite every field of a journaled trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ef.toEntry(cmd).TradeWithID(args[0], rc.Cfg.Fees.Rate)
			if err != nil {
				return err
			}

			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Replace(cmd.Context(), t); err != nil {
				return fmt.Errorf("replace trade: %w", err)
			}
			rc.Log.Info("trade replaced", zap.String("id", t.ID))

			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t, analytics.Evaluate(t)))
			return nil
		},
	}
	ef.register(cmd)
	return cmd
}

func newDeleteCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <trade-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a trade from the journal",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete trade: %w", err)
			}
			rc.Log.Info("trade deleted", zap.String("id", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newShowCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Print a trade as an Org-mode block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get trade: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t, analytics.Evaluate(t)))
			return nil
		},
	}
}

func newListCmd(rc *RootConfig) *cobra.Command {
	var (
		sortField string
		order     string
		org       bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List trades sorted by any column, including pnl",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// same rules as the HTTP listing: a chosen field starts ascending
			sc := analytics.DefaultSortConfig()
			if cmd.Flags().Changed("sort") {
				field, err := analytics.ParseField(sortField)
				if err != nil {
					return err
				}
				sc = analytics.SortConfig{Field: field, Order: analytics.Ascending}
			}
			if cmd.Flags().Changed("order") {
				ord, err := analytics.ParseOrder(order)
				if err != nil {
					return err
				}
				sc.Order = ord
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
			sorted := sc.Apply(trades)

			if org {
				fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(sorted, analytics.Evaluate))
				return nil
			}
			return writeTable(cmd.OutOrStdout(), sorted, rc.Cfg.Analytics.RebateRate)
		},
	}

	fields := make([]string, 0, len(analytics.Fields()))
	for _, f := range analytics.Fields() {
		fields = append(fields, string(f))
	}
	cmd.Flags().StringVar(&sortField, "sort", string(analytics.FieldDate), "sort column: "+strings.Join(fields, "|"))
	cmd.Flags().StringVar(&order, "order", analytics.Descending.String(), "asc or desc (a new --sort column defaults to asc)")
	cmd.Flags().BoolVar(&org, "org", false, "print Org-mode blocks instead of a table")
	return cmd
}

func writeTable(w io.Writer, trades []journal.Trade, rebateRate float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tSYMBOL\tDIR\tENTRY\tEXIT\tQTY\tFEES\tREBATE\tPNL\tID\t")
	for _, t := range trades {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%g\t%.4f\t%.2f\t%.2f\t%.2f\t%s\t\n",
			t.DateString(), t.Symbol, t.Direction, t.EntryPrice, t.ExitPrice,
			t.Quantity, t.Fees, t.Fees*rebateRate, analytics.Evaluate(t), t.ID)
	}
	return tw.Flush()
}
