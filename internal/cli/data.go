package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/journal"
)

func newImportCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Append trades from a CSV file (all rows or none)",
		Long: `Append trades from a CSV file with a header row.

Required columns: date, symbol, direction, entry_price, exit_price, quantity.
Optional columns: id, fees, notes, status. Rows without an id get a new one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			trades, err := journal.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.AddAll(cmd.Context(), trades); err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			rc.Log.Info("trades imported", zap.String("file", args[0]), zap.Int("count", len(trades)))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d trades\n", len(trades))
			return nil
		},
	}
}

func newExportCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Write the journal as CSV (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			trades, err := s.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list trades: %w", err)
			}

			if len(args) == 0 || args[0] == "-" {
				return journal.WriteCSV(cmd.OutOrStdout(), trades)
			}

			if err := writeFile(args[0], func(f *os.File) error {
				return journal.WriteCSV(f, trades)
			}); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			rc.Log.Info("trades exported", zap.String("file", args[0]), zap.Int("count", len(trades)))
			return nil
		},
	}
}

func newSeedCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the built-in demo trades into the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			return seed(cmd, rc, s)
		},
	}
}

func newResetCmd(rc *RootConfig) *cobra.Command {
	var (
		yes  bool
		demo bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every trade in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes every trade in %s; pass --yes to confirm", rc.Cfg.Journal.DBPath)
			}

			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			rc.Log.Warn("journal reset", zap.String("db", rc.Cfg.Journal.DBPath))

			if demo {
				return seed(cmd, rc, s)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "journal cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	cmd.Flags().BoolVar(&demo, "demo", false, "reload the demo trades after clearing")
	return cmd
}

func seed(cmd *cobra.Command, rc *RootConfig, s journal.Store) error {
	trades := journal.DemoTrades()
	if err := s.AddAll(cmd.Context(), trades); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	rc.Log.Info("demo trades loaded", zap.Int("count", len(trades)))
	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d demo trades\n", len(trades))
	return nil
}
