package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradewatch",
	Short: "A risk-managed crypto trade lifecycle bot",
	Long: `Tradewatch evaluates a trend-plus-momentum entry signal, sizes positions
under exchange lot rules, and watches each open position until it exits at
its take-profit, stop-loss, or timeout.

It keeps one durable account state file so a restart resumes any open
position, records every settled trade to an append-only journal, and stops
opening new positions when the loss streak or drawdown limit is hit.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
