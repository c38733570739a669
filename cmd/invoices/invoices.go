// Package invoices handles the unpaid invoice listing command
package invoices

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/JB-QBA/bank-recon-agent/cmd/common"
	"github.com/JB-QBA/bank-recon-agent/cmd/root"
)

// Cmd represents the invoices command
var Cmd = &cobra.Command{
	Use:   "invoices",
	Short: "List authorized purchase bills awaiting payment",
	Long: `Invoices fetches the authorized purchase bills still awaiting payment from
the ledger, the candidates a payment batch can allocate against.`,
	Run: invoicesFunc,
}

func invoicesFunc(cmd *cobra.Command, args []string) {
	client := common.NewLedgerClient(root.Cfg)
	unpaid, err := client.ListUnpaidInvoices(context.Background())
	if err != nil {
		root.Log.Fatalf("Error listing unpaid invoices: %v", err)
	}

	root.Log.Infof("%d unpaid invoices", len(unpaid))
	if err := common.PrintJSON(unpaid); err != nil {
		root.Log.Fatalf("Failed to print invoices: %v", err)
	}
}
