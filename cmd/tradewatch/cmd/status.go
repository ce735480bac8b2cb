package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dmaguire/tradewatch/account"
	"github.com/dmaguire/tradewatch/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted account state",
	Long: `Print the durable account state: balance, peak, drawdown, loss streak
and any open position. Reads the state file directly, so it works whether
or not the bot is running.`,
	RunE: runStatus,
}

var statusConfigPath string

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusConfigPath, "config", "f", "", "path to YAML config file")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if statusConfigPath != "" {
		var err error
		cfg, err = config.Load(statusConfigPath)
		if err != nil {
			return err
		}
	}

	st, err := account.Read(cfg.Account.StatePath)
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}

	hundred := decimal.NewFromInt(100)
	fmt.Printf("Account (%s):\n", cfg.Account.StatePath)
	fmt.Printf("  Balance:     %s\n", st.Balance)
	fmt.Printf("  Peak:        %s\n", st.PeakBalance)
	fmt.Printf("  Drawdown:    %s%%\n", st.Drawdown().Mul(hundred).Round(2))
	fmt.Printf("  Loss streak: %d\n", st.LossStreak)
	fmt.Printf("  Trades:      %d\n", st.TradeCount)
	if !st.LastReset.IsZero() {
		fmt.Printf("  Last reset:  %s\n", st.LastReset.Format(time.RFC3339))
	}

	if st.Open == nil {
		fmt.Println("\nNo open position.")
		return nil
	}
	p := st.Open
	fmt.Printf("\nOpen position:\n")
	fmt.Printf("  Side:        %s\n", p.Side)
	fmt.Printf("  Entry:       %s\n", p.EntryPrice)
	fmt.Printf("  Quantity:    %s\n", p.Quantity)
	fmt.Printf("  Take profit: %s\n", p.TakeProfit)
	fmt.Printf("  Stop loss:   %s\n", p.StopLoss)
	fmt.Printf("  Opened:      %s (%s ago)\n",
		p.OpenedAt.Format(time.RFC3339), time.Since(p.OpenedAt).Round(time.Second))
	return nil
}
