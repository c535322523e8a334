package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "patchpulse",
	Short: "A CLI for managing the PatchPulse services",
	Long:  `PatchPulse keeps players up to date on the games they follow: patch summaries, news digests, sentiment and return suggestions.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
