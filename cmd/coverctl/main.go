package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "coverctl",
	Short: "Cover console operator tool",
	Long: `coverctl runs maintenance tasks against the cover console database
and files root, using the same environment configuration as the server.

Examples:
  coverctl migrate
  coverctl import-csv collections.csv
  coverctl reindex 3f2b9c1e-8d0a-4c55-9a51-3c7f1f0e2b11`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCSVCmd)
	rootCmd.AddCommand(reindexCmd)

	rootCmd.PersistentFlags().StringSlice("env-file", []string{".env"}, "Environment files to load before reading configuration")
}
