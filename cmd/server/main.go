// Package main is the vcissuer server entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "vcissuer",
	Short: "Verifiable credential issuer for early adopters",
	Long: `Issues EarlyAdopter and EventAttendance verifiable credentials.

Configuration is read from defaults, an optional file (--config) and
environment variables such as DATABASE_URL or ISSUANCE_TICKET_TTL.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a configuration file (yaml, json or toml)")
}
