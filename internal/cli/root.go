package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/journal"
)

const version = "0.3.0"

// RootConfig carries the global flags and what PersistentPreRunE builds
// from them.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string

	Cfg *config.Config
	Log *zap.Logger
}

// openStore opens the configured SQLite journal.
func (rc *RootConfig) openStore() (journal.Store, error) {
	s, err := journal.NewSQLite(rc.Cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return s, nil
}

// load reads the config file (or defaults), applies flag overrides and
// builds the logger.
func (rc *RootConfig) load(cmd *cobra.Command) error {
	cfg := config.Default()
	if rc.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(rc.ConfigPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Journal.DBPath = rc.DBPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = rc.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	rc.Cfg = cfg
	rc.Log = log
	return nil
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{Cfg: config.Default(), Log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "tradejournal",
		Short: "Trading journal with equity curve and performance statistics",
		Long: `tradejournal keeps a log of closed trades and derives the equity curve,
win rate, profit factor, max drawdown, Sharpe ratio and fee rebates from it.

Examples:
  tradejournal add --symbol BTCUSDT --direction long --entry 26500 --exit 27200 --qty 0.5
  tradejournal list --sort pnl --order desc
  tradejournal stats --balance 10000
  tradejournal serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "./journal.sqlite", "SQLite journal database")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.load(cmd)
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = rc.Log.Sync()
	}

	cmd.AddCommand(
		newAddCmd(rc),
		newReplaceCmd(rc),
		newDeleteCmd(rc),
		newShowCmd(rc),
		newListCmd(rc),
		newStatsCmd(rc),
		newImportCmd(rc),
		newExportCmd(rc),
		newSeedCmd(rc),
		newResetCmd(rc),
		newConfigCmd(rc),
		newServeCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tradejournal version %s\n", version)
		},
	})

	return cmd
}

func Execute() error {
	return NewRootCmd().Execute()
}
