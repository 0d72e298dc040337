// Command backtest drives a historical replay end to end: load an
// instrument catalog, feed CSV bars through a strategy, and print (or
// persist) the resulting trade statistics. Command layout is grounded on
// NimbleMarkets-dbn-go's cmd/dbn-go-file (root command + one verb per file,
// package-level Command vars wired up in main).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backtest",
	Short: "backtest replays historical bars against a strategy",
	Long:  "backtest replays historical bars against a strategy and reports trade statistics.",
}

func main() {
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
