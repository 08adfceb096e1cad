package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment overrides, applied after the config file.
const (
	EnvBalance      = "PAPER_BALANCE"
	EnvMaxDailyLoss = "PAPER_MAX_DAILY_LOSS"
	EnvMaxTrades    = "PAPER_MAX_TRADES"
	EnvRiskPct      = "PAPER_RISK_PCT"
	EnvFeedURL      = "PAPER_FEED_URL"
	EnvFeedToken    = "PAPER_FEED_TOKEN"
	EnvJournal      = "PAPER_JOURNAL"
	EnvDBPath       = "PAPER_DB_PATH"
	EnvAddr         = "PAPER_ADDR"
	EnvLogLevel     = "PAPER_LOG_LEVEL"
	EnvSeed         = "PAPER_SEED"
)

// ApplyEnv loads the given .env files (".env" when none are named; missing
// files are ignored) and then overrides c from PAPER_* variables. Variables
// already set in the process environment win over .env entries.
func (c *Config) ApplyEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}

	if err := envFloat(EnvBalance, &c.Account.Balance); err != nil {
		return err
	}
	if err := envFloat(EnvMaxDailyLoss, &c.Risk.MaxDailyLoss); err != nil {
		return err
	}
	if err := envInt(EnvMaxTrades, &c.Risk.MaxTradesDaily); err != nil {
		return err
	}
	if err := envFloat(EnvRiskPct, &c.Risk.RiskPerTrade); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Simulator.Seed = seed
	}

	envString(EnvFeedURL, &c.Feed.URL)
	envString(EnvFeedToken, &c.Feed.Token)
	envString(EnvJournal, &c.Journal.Type)
	envString(EnvDBPath, &c.Journal.DBPath)
	envString(EnvAddr, &c.Server.Addr)
	envString(EnvLogLevel, &c.Log.Level)

	return nil
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envFloat(key string, dst *float64) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
