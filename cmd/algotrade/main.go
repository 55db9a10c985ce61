package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	str2duration "github.com/xhit/go-str2duration/v2"

	algotrade "github.com/iamshubhamw08/AlgoTrade"
	"github.com/iamshubhamw08/AlgoTrade/core"
	"github.com/iamshubhamw08/AlgoTrade/storage"
)

// Command line flags
var (
	// Persistent flags
	databaseFile string
	sqliteFile   string
	startBalance float64

	// Scan command flags
	ticks int

	// Run command flags
	runFor string

	// History command flags
	historyLimit  int
	historyBefore string
)

const dateLayout = "2006-01-02"

func main() {
	rootCmd := &cobra.Command{
		Use:     "algotrade",
		Short:   "Paper trading simulator",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVar(&databaseFile, "db", "algotrade.db", "State database file")
	rootCmd.PersistentFlags().StringVar(&sqliteFile, "sql", "", "Use a SQLite state database instead of the default backend")
	rootCmd.PersistentFlags().Float64Var(&startBalance, "balance", 0, "Starting cash balance for a fresh account")

	rootCmd.AddCommand(
		buildBuyCmd(),
		buildSellCmd(),
		buildPortfolioCmd(),
		buildHistoryCmd(),
		buildWatchCmd(),
		buildScanCmd(),
		buildRunCmd(),
		buildSummaryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openEngine builds an engine backed by the storage selected through
// the persistent flags.
func openEngine(cmd *cobra.Command) (*algotrade.Engine, error) {
	settings := &core.Settings{StartBalance: startBalance}

	var options []algotrade.Option
	if sqliteFile != "" {
		kv, err := storage.NewFromSQLite(sqliteFile, storage.DefaultSQLConfig())
		if err != nil {
			return nil, err
		}
		options = append(options, algotrade.WithStorage(kv))
	} else {
		kv, err := storage.NewFromFile(databaseFile)
		if err != nil {
			return nil, err
		}
		options = append(options, algotrade.WithStorage(kv))
	}

	return algotrade.NewEngine(cmd.Context(), settings, options...)
}

func buildBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy SYMBOL QUANTITY",
		Short: "Buy shares at the current quote",
		Args:  cobra.ExactArgs(2),
		RunE:  runBuy,
	}
}

func runBuy(cmd *cobra.Command, args []string) error {
	return executeTrade(cmd, args, core.SideTypeBuy)
}

func buildSellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sell SYMBOL QUANTITY",
		Short: "Sell shares at the current quote",
		Args:  cobra.ExactArgs(2),
		RunE:  runSell,
	}
}

func runSell(cmd *cobra.Command, args []string) error {
	return executeTrade(cmd, args, core.SideTypeSell)
}

func executeTrade(cmd *cobra.Command, args []string, side core.SideType) error {
	quantity, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", args[1], err)
	}

	engine, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer engine.Close()

	snapshot, ok := engine.Quote(args[0])
	if !ok {
		return fmt.Errorf("no quote available for %q", args[0])
	}

	var tx core.Transaction
	if side == core.SideTypeBuy {
		tx, err = engine.Buy(cmd.Context(), snapshot, quantity)
	} else {
		tx, err = engine.Sell(cmd.Context(), snapshot, quantity)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s %s x%.2f @ %.2f (total %.2f)\n", tx.Side, tx.Symbol, tx.Quantity, tx.Price, tx.Total)
	return nil
}

func buildPortfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Show open positions and account valuation",
		RunE:  runPortfolio,
	}
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	engine, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer engine.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Qty", "Avg Cost", "Last", "Value", "P&L", "P&L %"})
	for _, position := range engine.Positions() {
		table.Append([]string{
			position.Symbol,
			fmt.Sprintf("%.2f", position.Quantity),
			fmt.Sprintf("%.2f", position.AvgCost),
			fmt.Sprintf("%.2f", position.LastPrice),
			fmt.Sprintf("%.2f", position.Value()),
			fmt.Sprintf("%.2f", position.PnL()),
			fmt.Sprintf("%.2f %%", position.PnLPercent()),
		})
	}
	table.Render()

	valuation := engine.Valuation()
	fmt.Printf("\nCash: %.2f | Invested: %.2f | Net worth: %.2f\n",
		valuation.Cash, valuation.InvestedValue, valuation.NetWorth)

	if engine.AutomationEnabled() {
		fmt.Println("Automated trading: ON")
	} else {
		fmt.Println("Automated trading: OFF")
	}

	return nil
}

func buildHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history [SYMBOL]",
		Short: "Show executed transactions, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory,
	}

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum transactions to show")
	historyCmd.Flags().StringVarP(&historyBefore, "before", "b", "", "Only show trades up to this date (e.g. 2026-08-01)")

	return historyCmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	engine, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer engine.Close()

	var filters []core.TransactionFilter
	if len(args) == 1 {
		filters = append(filters, core.WithSymbol(strings.ToUpper(args[0])))
	}
	if historyBefore != "" {
		day, err := time.Parse(dateLayout, historyBefore)
		if err != nil {
			return fmt.Errorf("invalid date format: %w", err)
		}
		// inclusive of the whole given day
		filters = append(filters, core.WithCreatedBeforeOrEqual(day.AddDate(0, 0, 1).Add(-time.Nanosecond)))
	}

	records := engine.Transactions(filters...)
	if len(records) > historyLimit {
		records = records[:historyLimit]
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Symbol", "Side", "Qty", "Price", "Total", "Origin"})
	for _, tx := range records {
		table.Append([]string{
			tx.CreatedAt.Format(time.DateTime),
			tx.Symbol,
			string(tx.Side),
			fmt.Sprintf("%.2f", tx.Quantity),
			fmt.Sprintf("%.2f", tx.Price),
			fmt.Sprintf("%.2f", tx.Total),
			string(tx.Origin),
		})
	}
	table.Render()

	return nil
}

func buildWatchCmd() *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Manage the watchlist",
	}

	watchCmd.AddCommand(
		&cobra.Command{
			Use:   "add SYMBOL",
			Short: "Add a symbol to the watchlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				engine, err := openEngine(cmd)
				if err != nil {
					return err
				}
				defer engine.Close()
				return engine.AddWatch(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "remove SYMBOL",
			Short: "Remove a symbol from the watchlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				engine, err := openEngine(cmd)
				if err != nil {
					return err
				}
				defer engine.Close()
				engine.RemoveWatch(cmd.Context(), args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List watched symbols",
			RunE: func(cmd *cobra.Command, args []string) error {
				engine, err := openEngine(cmd)
				if err != nil {
					return err
				}
				defer engine.Close()
				for _, symbol := range engine.Watchlist() {
					fmt.Println(symbol)
				}
				return nil
			},
		},
	)

	return watchCmd
}

func buildScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run policy scans immediately",
		RunE:  runScan,
	}

	scanCmd.Flags().IntVarP(&ticks, "ticks", "t", 1, "Number of scans to run")

	return scanCmd
}

func runScan(cmd *cobra.Command, args []string) error {
	if ticks < 1 {
		return fmt.Errorf("ticks must be at least 1")
	}

	engine, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer engine.Close()

	bar := progressbar.Default(int64(ticks), "scanning")
	for i := 0; i < ticks; i++ {
		engine.RunScanOnce(cmd.Context())
		_ = bar.Add(1)
	}

	engine.Summary()
	return nil
}

func buildRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run automated trading for a fixed duration",
		RunE:  runAutomation,
	}

	runCmd.Flags().StringVarP(&runFor, "for", "f", "1m", "How long to run (e.g. 30s, 5m, 1h30m)")

	return runCmd
}

func runAutomation(cmd *cobra.Command, args []string) error {
	duration, err := str2duration.ParseDuration(runFor)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", runFor, err)
	}

	engine, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer engine.Close()

	wasEnabled := engine.AutomationEnabled()
	if !wasEnabled {
		engine.ToggleAutomation(cmd.Context())
	}

	select {
	case <-time.After(duration):
	case <-cmd.Context().Done():
	}

	if !wasEnabled {
		engine.ToggleAutomation(cmd.Context())
	}

	engine.Summary()
	return nil
}

func buildSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show realized trading performance",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()
			engine.Summary()
			return nil
		},
	}
}
