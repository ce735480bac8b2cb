package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmaguire/tradewatch/config"
	"github.com/dmaguire/tradewatch/journal"
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List settled trades from the journal",
	RunE:  runTrades,
}

var (
	tradesConfigPath string
	tradesLimit      int
)

func init() {
	rootCmd.AddCommand(tradesCmd)

	tradesCmd.Flags().StringVarP(&tradesConfigPath, "config", "f", "", "path to YAML config file")
	tradesCmd.Flags().IntVarP(&tradesLimit, "limit", "n", 20, "show at most this many recent trades")
}

func runTrades(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if tradesConfigPath != "" {
		var err error
		cfg, err = config.Load(tradesConfigPath)
		if err != nil {
			return err
		}
	}
	if cfg.Journal.Backend != "sqlite" {
		return fmt.Errorf("trades listing requires the sqlite journal backend (got %q)", cfg.Journal.Backend)
	}

	j, err := journal.NewSQLite(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	trades, err := j.Trades()
	if err != nil {
		return fmt.Errorf("read trades: %w", err)
	}
	if len(trades) == 0 {
		fmt.Println("No settled trades.")
		return nil
	}
	if tradesLimit > 0 && len(trades) > tradesLimit {
		trades = trades[len(trades)-tradesLimit:]
	}

	fmt.Printf("%-10s %-5s %12s %12s %12s %12s  %s\n",
		"CLOSED", "SIDE", "QTY", "ENTRY", "EXIT", "PNL", "REASON")
	for _, t := range trades {
		fmt.Printf("%-10s %-5s %12s %12s %12s %12s  %s\n",
			t.ClosedAt.Format("2006-01-02"), t.Side,
			t.Quantity, t.EntryPrice, t.ExitPrice, t.RealizedPnL, t.Reason)
	}
	return nil
}
