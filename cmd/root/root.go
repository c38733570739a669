// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/JB-QBA/bank-recon-agent/internal/audit"
	"github.com/JB-QBA/bank-recon-agent/internal/auth"
	"github.com/JB-QBA/bank-recon-agent/internal/config"
	"github.com/JB-QBA/bank-recon-agent/internal/ledger"
	"github.com/JB-QBA/bank-recon-agent/internal/orchestrator"
	"github.com/JB-QBA/bank-recon-agent/internal/receipts"
	"github.com/JB-QBA/bank-recon-agent/internal/recon"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg holds the resolved application configuration after PersistentPreRun
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bank-recon",
		Short: "A CLI tool to match receipts against bank exports and post payment batches.",
		Long: `bank-recon matches captured receipts against uploaded bank statement CSVs
and turns reviewed reconciliation decisions into idempotent ledger postings.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to bank-recon!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Error loading configuration: %v", err)
			}
			Cfg = cfg

			recon.SetLogger(Log)
			orchestrator.SetLogger(Log)
			ledger.SetLogger(Log)
			auth.SetLogger(Log)
			audit.SetLogger(Log)
			receipts.SetLogger(Log)
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// AccountHint overrides the configured bank account hint for preview/post
	AccountHint string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
}
