package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/papertrade/risk"
	"github.com/rustyeddy/papertrade/sim"
)

// Config is the complete paper trading configuration
type Config struct {
	Account   AccountConfig   `json:"account" yaml:"account"`
	Risk      RiskConfig      `json:"risk" yaml:"risk"`
	Simulator SimulatorConfig `json:"simulator" yaml:"simulator"`
	Feed      FeedConfig      `json:"feed" yaml:"feed"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

type AccountConfig struct {
	Balance float64 `json:"balance" yaml:"balance"`
}

// RiskConfig holds the daily circuit breakers and sizing parameters
type RiskConfig struct {
	MaxDailyLoss   float64 `json:"max_daily_loss" yaml:"max_daily_loss"`
	MaxTradesDaily int     `json:"max_trades_daily" yaml:"max_trades_daily"`
	RiskPerTrade   float64 `json:"risk_per_trade" yaml:"risk_per_trade"`
	MinStopPoints  float64 `json:"min_stop_points" yaml:"min_stop_points"`
	StopPoints     float64 `json:"stop_points" yaml:"stop_points"` // distance of the derived stop
}

// SimulatorConfig drives the fill and outcome model
type SimulatorConfig struct {
	Seed       uint64    `json:"seed" yaml:"seed"` // 0 seeds from the clock
	Slippage   []float64 `json:"slippage" yaml:"slippage"`
	Commission float64   `json:"commission" yaml:"commission"` // per contract
	MinReward  float64   `json:"min_reward" yaml:"min_reward"`
	MaxReward  float64   `json:"max_reward" yaml:"max_reward"`
	WinWeight  int       `json:"win_weight" yaml:"win_weight"`
	LossWeight int       `json:"loss_weight" yaml:"loss_weight"`
}

// FeedConfig selects the candle source. With no URL the engine prices off
// StaticPrice.
type FeedConfig struct {
	URL         string  `json:"url,omitempty" yaml:"url,omitempty"`
	Token       string  `json:"token,omitempty" yaml:"token,omitempty"`
	Symbol      string  `json:"symbol" yaml:"symbol"`
	StaticPrice float64 `json:"static_price,omitempty" yaml:"static_price,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile  string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	AccountFile string `json:"account_file,omitempty" yaml:"account_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type ServerConfig struct {
	Addr      string  `json:"addr" yaml:"addr"`
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"` // req/s per IP on /execute and /reset
	RateBurst int     `json:"rate_burst" yaml:"rate_burst"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// LoadFromFile loads configuration from a file. Fields missing from the
// file keep their defaults.
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

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
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
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Risk.MaxDailyLoss <= 0 {
		return fmt.Errorf("risk.max_daily_loss must be positive")
	}
	if c.Risk.MaxTradesDaily <= 0 {
		return fmt.Errorf("risk.max_trades_daily must be positive")
	}
	if c.Risk.RiskPerTrade <= 0 || c.Risk.RiskPerTrade > 1 {
		return fmt.Errorf("risk.risk_per_trade must be between 0 and 1")
	}
	if c.Risk.MinStopPoints <= 0 {
		return fmt.Errorf("risk.min_stop_points must be positive")
	}
	if c.Risk.StopPoints <= 0 {
		return fmt.Errorf("risk.stop_points must be positive")
	}
	for _, s := range c.Simulator.Slippage {
		if s < 0 {
			return fmt.Errorf("simulator.slippage entries must not be negative")
		}
	}
	if c.Simulator.Commission < 0 {
		return fmt.Errorf("simulator.commission must not be negative")
	}
	if c.Simulator.MinReward <= 0 || c.Simulator.MaxReward < c.Simulator.MinReward {
		return fmt.Errorf("simulator reward range must satisfy 0 < min_reward <= max_reward")
	}
	if c.Simulator.WinWeight < 0 || c.Simulator.LossWeight < 0 || c.Simulator.WinWeight+c.Simulator.LossWeight == 0 {
		return fmt.Errorf("simulator win_weight and loss_weight must be non-negative and not both zero")
	}
	if c.Feed.Symbol == "" {
		return fmt.Errorf("feed.symbol is required")
	}
	if c.Feed.URL == "" && c.Feed.StaticPrice <= 0 {
		return fmt.Errorf("feed.static_price must be positive when feed.url is empty")
	}
	switch c.Journal.Type {
	case "none", "":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.AccountFile == "" {
			return fmt.Errorf("journal trades_file and account_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// Default returns the stock paper account: $100,000, $1,000 daily loss
// limit, five trades a day, 0.5% risk per trade.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Balance: sim.DefaultStartingBalance,
		},
		Risk: RiskConfig{
			MaxDailyLoss:   1000,
			MaxTradesDaily: 5,
			RiskPerTrade:   0.005,
			MinStopPoints:  10,
			StopPoints:     20,
		},
		Simulator: SimulatorConfig{
			Slippage:   []float64{0, 0.25, 0.5},
			Commission: 2,
			MinReward:  1.5,
			MaxReward:  3,
			WinWeight:  2,
			LossWeight: 1,
		},
		Feed: FeedConfig{
			Symbol:      "NQ=F",
			StaticPrice: 20000,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./papertrade.db",
		},
		Server: ServerConfig{
			Addr:      ":8000",
			RateLimit: 5,
			RateBurst: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) StartingBalance() decimal.Decimal {
	return decimal.NewFromFloat(c.Account.Balance)
}

func (c *Config) Policy() risk.Policy {
	return risk.Policy{
		MaxDailyLoss:   decimal.NewFromFloat(c.Risk.MaxDailyLoss),
		MaxTradesDaily: c.Risk.MaxTradesDaily,
		RiskPerTrade:   decimal.NewFromFloat(c.Risk.RiskPerTrade),
		MinStopPoints:  decimal.NewFromFloat(c.Risk.MinStopPoints),
	}
}

func (c *Config) Model() sim.Model {
	slip := make([]decimal.Decimal, len(c.Simulator.Slippage))
	for i, s := range c.Simulator.Slippage {
		slip[i] = decimal.NewFromFloat(s)
	}
	return sim.Model{
		Slippage:              slip,
		Outcomes:              sim.WeightedOutcomes(c.Simulator.WinWeight, c.Simulator.LossWeight),
		MinReward:             c.Simulator.MinReward,
		MaxReward:             c.Simulator.MaxReward,
		CommissionPerContract: decimal.NewFromFloat(c.Simulator.Commission),
	}
}

func (c *Config) StopPoints() decimal.Decimal {
	return decimal.NewFromFloat(c.Risk.StopPoints)
}
