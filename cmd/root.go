/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/financeapi/apiserver/config"
	"github.com/financeapi/apiserver/internal/log"
	"github.com/spf13/cobra"
)

var jsonLogs bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "finance",
	Short: "Personal finance API server",
	Long: `Personal finance API: categories and transactions scoped to the
authenticated user.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON")
}

func newLogger(cfg config.Config, component string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: component,
		Output:    os.Stderr,
		JSON:      jsonLogs,
	})
	log.SetDefault(logger)
	return logger
}
