package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
)

// Config is the host configuration of the journal.
type Config struct {
	Account   AccountConfig   `json:"account" yaml:"account"`
	Analytics AnalyticsConfig `json:"analytics" yaml:"analytics"`
	Fees      FeesConfig      `json:"fees" yaml:"fees"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// AccountConfig holds the starting capital the equity curve begins from.
type AccountConfig struct {
	Currency       string  `json:"currency" yaml:"currency"`
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
}

type AnalyticsConfig struct {
	RebateRate float64 `json:"rebate_rate" yaml:"rebate_rate"`
}

// FeesConfig is the per-side rate used to estimate fees on new entries.
type FeesConfig struct {
	Rate float64 `json:"rate" yaml:"rate"`
}

type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	Mode string `json:"mode" yaml:"mode"` // gin mode: debug, release or test
}

type LogConfig struct {
	Level    string `json:"level" yaml:"level"`
	Encoding string `json:"encoding" yaml:"encoding"` // "console" or "json"
	// File, when set, also receives JSON logs with size-based rotation.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// LoadFromFile loads configuration from a file. Fields missing from the
// file keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.InitialBalance <= 0 {
		return fmt.Errorf("account.initial_balance must be positive")
	}
	if c.Analytics.RebateRate < 0 || c.Analytics.RebateRate > 1 {
		return fmt.Errorf("analytics.rebate_rate must be between 0 and 1")
	}
	if c.Fees.Rate < 0 || c.Fees.Rate >= 1 {
		return fmt.Errorf("fees.rate must be in [0, 1)")
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be 'debug', 'release' or 'test'")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Encoding != "console" && c.Log.Encoding != "json" {
		return fmt.Errorf("log.encoding must be 'console' or 'json'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency:       "USDT",
			InitialBalance: analytics.DefaultInitialBalance,
		},
		Analytics: AnalyticsConfig{
			RebateRate: analytics.DefaultRebateRate,
		},
		Fees: FeesConfig{
			Rate: journal.DefaultFeeRate,
		},
		Journal: JournalConfig{
			DBPath: "./journal.sqlite",
		},
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}
