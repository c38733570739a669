// Package match handles the bank-CSV to receipt matching command
package match

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/JB-QBA/bank-recon-agent/cmd/common"
	"github.com/JB-QBA/bank-recon-agent/cmd/root"
	"github.com/JB-QBA/bank-recon-agent/internal/recon"
)

var (
	dateWindowDays int
	tolerance      float64
)

// Cmd represents the match command
var Cmd = &cobra.Command{
	Use:   "match",
	Short: "Match stored receipts against a bank statement CSV",
	Long: `Match reads a bank statement CSV, matches each row against the stored
receipts by absolute amount and date window, and writes an enriched CSV with
the match outcome columns appended.`,
	Run: matchFunc,
}

func init() {
	Cmd.Flags().IntVar(&dateWindowDays, "date-window", -1, "Date window in days (default from config)")
	Cmd.Flags().Float64Var(&tolerance, "tolerance", -1, "Amount tolerance (default from config)")
}

func matchFunc(cmd *cobra.Command, args []string) {
	input := root.SharedFlags.Input
	if input == "" {
		root.Log.Fatal("No input file specified, use --input")
	}

	window := root.Cfg.Matching.DateWindowDays
	if dateWindowDays >= 0 {
		window = dateWindowDays
	}
	tol := decimal.NewFromFloat(root.Cfg.Matching.AmountTolerance)
	if tolerance >= 0 {
		tol = decimal.NewFromFloat(tolerance)
	}

	root.Log.Infof("Input bank CSV: %s", input)

	table, err := recon.LoadBankTableCSV(input)
	if err != nil {
		root.Log.Fatalf("Error reading bank CSV: %v", err)
	}

	store := common.NewReceiptStore(root.Cfg)
	stored, err := store.List()
	if err != nil {
		root.Log.Fatalf("Error loading receipts: %v", err)
	}

	records, summary, err := recon.MatchReceiptsToBank(table, stored, window, tol)
	if err != nil {
		root.Log.Fatalf("Error matching receipts: %v", err)
	}

	output := root.SharedFlags.Output
	if output == "" {
		output = strings.TrimSuffix(input, ".csv") + "_with_receipts.csv"
	}
	if err := recon.WriteEnrichedCSV(records, table.Columns, output); err != nil {
		root.Log.Fatalf("Error writing enriched CSV: %v", err)
	}

	root.Log.Infof("Matched %d of %d bank rows (%d multi-candidate, %d duplicate-use, %d without candidates)",
		summary.Matched, summary.BankRows, summary.MultiCandidates, summary.DuplicateReceiptUse, summary.NoCandidates)
	if err := common.PrintJSON(summary); err != nil {
		root.Log.Warnf("Failed to print summary: %v", err)
	}
}
