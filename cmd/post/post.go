// Package post handles the batch posting command
package post

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/JB-QBA/bank-recon-agent/cmd/common"
	"github.com/JB-QBA/bank-recon-agent/cmd/root"
)

// Cmd represents the post command
var Cmd = &cobra.Command{
	Use:   "post",
	Short: "Validate a payment batch and post it to the ledger",
	Long: `Post validates a payment batch file and submits its payments and bank
transactions to the ledger with deterministic idempotency keys. Successful
posts are appended to the audit log; resubmitting the same batch derives the
same keys and is absorbed by the ledger as a no-op.`,
	Run: postFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.AccountHint, "account", "", "Bank account hint (default from config)")
}

func postFunc(cmd *cobra.Command, args []string) {
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
	result, err := o.PostBatch(context.Background(), batch, hint)
	if err != nil {
		root.Log.Fatalf("Error posting batch: %v", err)
	}

	root.Log.Infof("Posted %d payments and %d bank transactions against account %q",
		result.PaymentCount, result.BankTxnCount, result.Account.Name)
	if err := common.PrintJSON(result); err != nil {
		root.Log.Fatalf("Failed to print result: %v", err)
	}
}
