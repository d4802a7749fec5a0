// Command soundhash is the CLI front end for the fingerprinting engine:
// index audio files into a signature store, match a query clip against
// it, and inspect store contents.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	dbPath  string
	verbose bool
	asJSON  bool
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "soundhash",
		Short: "Audio fingerprinting and matching engine",
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "soundhash.db", "path to the SQLite signature store")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "print stack traces on error")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON output")

	root.AddCommand(
		newFingerprintCmd(),
		newIndexCmd(),
		newMatchCmd(),
		newStatsCmd(),
		newListCmd(),
		newEraseCmd(),
	)

	if err := root.Execute(); err != nil {
		fatal(err)
	}
}

// fatal reports a CLI-boundary error and exits 1. With --verbose it also
// walks the stack trace attached by wrapFatal, the way the rest of the
// engine is expected to surface programmer errors loudly instead of
// swallowing them.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
	if verbose {
		printStackTrace(err)
	}
	os.Exit(1)
}
