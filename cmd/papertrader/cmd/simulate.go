package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/market"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run paper trades offline against a fixed price",
	Long: `Submit trades at a fixed reference price until the risk gate halts
trading or the requested count is reached, then print the account status.
Nothing is journaled.

Example:
  papertrader simulate -n 10 --price 20000 --side BUY --seed 7`,
	RunE: runSimulate,
}

var (
	simConfigPath string
	simCount      int
	simPrice      float64
	simSide       string
	simSymbol     string
	simSeed       uint64
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVarP(&simConfigPath, "file", "f", "", "path to config file (defaults when omitted)")
	simulateCmd.Flags().IntVarP(&simCount, "count", "n", 10, "maximum number of trade requests")
	simulateCmd.Flags().Float64Var(&simPrice, "price", 20000, "fixed reference price")
	simulateCmd.Flags().StringVar(&simSide, "side", "BUY", "BUY or SELL")
	simulateCmd.Flags().StringVar(&simSymbol, "symbol", "", "instrument (defaults to feed.symbol)")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "random seed (0 uses the config seed)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(simConfigPath)
	if err != nil {
		return err
	}
	if simSeed != 0 {
		cfg.Simulator.Seed = simSeed
	}
	symbol := simSymbol
	if symbol == "" {
		symbol = cfg.Feed.Symbol
	}

	store := market.NewCandleStore()
	store.SetPrice(symbol, simPrice, time.Now())

	svc, _, err := buildEngine(cfg, store, nil, log.Logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := 1; i <= simCount; i++ {
		res, err := svc.Execute(cmd.Context(), engine.ExecuteRequest{
			Symbol:    symbol,
			Side:      simSide,
			User:      "simulate",
			Reasoning: fmt.Sprintf("simulation #%d", i),
		})
		if err != nil {
			return err
		}

		if res.Status != engine.StatusFilled {
			fmt.Fprintf(out, "%2d  %s: %s\n", i, res.Status, res.Reason)
			break
		}
		fmt.Fprintf(out, "%2d  %s  %-4s  %s\n", i, res.Status, res.Result, res.Details)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(svc.AccountStatus()); err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	return nil
}

