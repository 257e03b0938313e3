package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "scorectl",
		Short:   "Client tools for the credit scoring API",
		Version: Version,
	}

	rootCmd.PersistentFlags().String("url", "", "Scoring API base URL (default UPSTREAM_URL)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout (default UPSTREAM_TIMEOUT)")
	rootCmd.PersistentFlags().String("api-key", "", "API key sent as X-API-Key (default API_KEY)")

	// Add subcommands
	rootCmd.AddCommand(predictCmd())
	rootCmd.AddCommand(uiCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
