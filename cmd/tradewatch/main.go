package main

import (
	"os"

	"github.com/dmaguire/tradewatch/cmd/tradewatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
