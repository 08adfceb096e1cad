package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <candles.csv>",
	Short: "Replay a recorded session with scripted trades",
	Long: `Feed recorded candles to the engine and submit the BUY, SELL and RESET
events scripted in the file. Trades go to the configured journal.

CSV format:
  time,symbol,open,high,low,close[,event,arg1]

Example:
  papertrader replay -f papertrade.yaml session.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var (
	replayConfigPath      string
	replayEventThenCandle bool
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayConfigPath, "file", "f", "", "path to config file (defaults when omitted)")
	replayCmd.Flags().BoolVar(&replayEventThenCandle, "event-first", false, "apply each row's event before storing its candle")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(replayConfigPath)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}

	store := market.NewCandleStore()
	svc, _, err := buildEngine(cfg, store, j, log.Logger)
	if err != nil {
		if j != nil {
			_ = j.Close()
		}
		return err
	}
	defer svc.Close()

	results, err := replay.CSV(cmd.Context(), args[0], store, svc, replay.Options{
		EventThenCandle: replayEventThenCandle,
		User:            "replay",
	})

	out := cmd.OutOrStdout()
	for _, r := range results {
		line := fmt.Sprintf("%4d  %s  %-5s %s", r.Row, r.Time.In(market.NewYork).Format("2006-01-02 15:04"), r.Event, r.Result.Status)
		switch {
		case r.Result.Details != "":
			line += fmt.Sprintf("  %s  %s", r.Result.Result, r.Result.Details)
		case r.Result.Reason != "":
			line += ": " + r.Result.Reason
		}
		fmt.Fprintln(out, line)
	}
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	st := svc.AccountStatus()
	fmt.Fprintf(out, "\nbalance %.2f  daily P&L %.2f  trades %d  win rate %.1f%%  %s\n",
		st.Balance, st.DailyPL, st.TradesCount, st.WinRate, st.Status)
	return nil
}
