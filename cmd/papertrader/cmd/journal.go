package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the trade journal",
	Long: `Query and display trade journal records from the SQLite database.
Days are New York trading days.

Subcommands:
  trades - List every journaled trade
  trade  - Get details of a specific trade by ID
  today  - List trades executed today
  day    - List trades executed on a specific day

Examples:
  papertrader journal trades
  papertrader journal trade <trade-id>
  papertrader journal today
  papertrader journal day 2024-01-15`,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List every journaled trade",
	Args:  cobra.NoArgs,
	RunE:  runJournalTrades,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades executed today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades executed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./papertrade.db", "path to SQLite journal DB")
}

func withJournal(fn func(j *journal.SQLite) error) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()
	return fn(j)
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	return withJournal(func(j *journal.SQLite) error {
		recs, err := j.ListTrades()
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
		return nil
	})
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	return withJournal(func(j *journal.SQLite) error {
		rec, err := j.GetTrade(args[0])
		if err != nil {
			return fmt.Errorf("get trade: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
		return nil
	})
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return listDay(cmd, time.Now().In(market.NewYork).Format("2006-01-02"))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listDay(cmd, args[0])
}

func listDay(cmd *cobra.Command, day string) error {
	start, end, err := dayBounds(market.NewYork, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	return withJournal(func(j *journal.SQLite) error {
		recs, err := j.ListTradesBetween(start, end)
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
		return nil
	})
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
