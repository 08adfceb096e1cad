package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/config"
)

var rootCmd = &cobra.Command{
	Use:   "papertrader",
	Short: "Risk-managed paper trading engine for index futures",
	Long: `Papertrader runs a simulated futures account behind a risk gate.

It provides:
  - An HTTP engine with analysis, execute, account-status and reset endpoints
  - Position sizing by fixed fractional risk (standard or micro contracts)
  - Daily loss and trade count circuit breakers
  - A SQLite or CSV trade journal with Org-mode export
  - Offline simulation against a fixed price`,
	SilenceUsage: true,
}

var (
	logLevel string
	envFile  string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with PAPER_* overrides")
}

// setupLogging points the global zerolog logger at stderr.
func setupLogging(level string) {
	if logLevel != "" {
		level = logLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

// loadConfig reads path (or the defaults when path is empty), applies the
// environment, validates, and configures logging.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setupLogging(cfg.Log.Level)
	return cfg, nil
}
