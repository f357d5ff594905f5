package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{Use: "widgetctl"}

func init() {
	rootCmd.PersistentFlags().String("api-url", "http://localhost:8080", "Widgetboard API base URL")
	rootCmd.PersistentFlags().String("output", "table", "Output format (table|json)")

	rootCmd.AddCommand(newWidgetsCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newDetailCmd())
	rootCmd.AddCommand(newStatsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
