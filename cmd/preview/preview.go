// Package preview handles the dry-run batch preview command
package preview

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/JB-QBA/bank-recon-agent/cmd/common"
	"github.com/JB-QBA/bank-recon-agent/cmd/root"
)

// Cmd represents the preview command
var Cmd = &cobra.Command{
	Use:   "preview",
	Short: "Validate a payment batch and show what would be posted",
	Long: `Preview validates a payment batch file, resolves the bank account and
prints the exact payments and bank transactions a post would send, without
touching the ledger.`,
	Run: previewFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.AccountHint, "account", "", "Bank account hint (default from config)")
}

func previewFunc(cmd *cobra.Command, args []string) {
	input := root.SharedFlags.Input
	if input == "" {
		root.Log.Fatal("No batch file specified, use --input")
	}

	batch, err := common.LoadBatch(input)
	if err != nil {
		root.Log.Fatalf("Error loading batch: %v", err)
	}

	hint := root.AccountHint
	if hint == "" {
		hint = root.Cfg.Batch.AccountHint
	}

	o := common.NewOrchestrator(root.Cfg)
	result, err := o.PreviewBatch(context.Background(), batch, hint)
	if err != nil {
		root.Log.Fatalf("Error previewing batch: %v", err)
	}

	root.Log.Infof("Batch validates against account %q: %d payments, %d bank transactions",
		result.Account.Name, len(result.Payments), len(result.BankTxns))
	if err := common.PrintJSON(result); err != nil {
		root.Log.Fatalf("Failed to print preview: %v", err)
	}
}
