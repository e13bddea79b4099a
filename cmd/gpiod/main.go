package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gpiod",
	Short: "Serve the gloworm board over HTTP",
	Long:  "gpiod sets up the board's lights and status LEDs and exposes them, along with the board's pin capabilities, over a JSON HTTP API.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(capabilitiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
