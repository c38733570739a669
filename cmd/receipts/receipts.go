// Package receipts handles the receipt repository management commands
package receipts

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JB-QBA/bank-recon-agent/cmd/common"
	"github.com/JB-QBA/bank-recon-agent/cmd/root"
	"github.com/JB-QBA/bank-recon-agent/internal/receipts"
)

var source string

// Cmd represents the receipts command
var Cmd = &cobra.Command{
	Use:   "receipts",
	Short: "Manage the receipt repository",
	Long: `Receipts manages the stored receipts that the match command consumes:
add receipts from extracted document text, list or export the repository, and
clear it after a reconciliation cycle.`,
}

var addCmd = &cobra.Command{
	Use:   "add <text-file>...",
	Short: "Add receipts from extracted text files",
	Args:  cobra.MinimumNArgs(1),
	Run:   addFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored receipts",
	Run:   listFunc,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored receipts",
	Run:   clearFunc,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored receipts as CSV",
	Run:   exportFunc,
}

var importCmd = &cobra.Command{
	Use:   "import <csv-file>",
	Short: "Import receipts from a CSV export",
	Args:  cobra.ExactArgs(1),
	Run:   importFunc,
}

func init() {
	addCmd.Flags().StringVar(&source, "source", "upload", "Receipt source label")
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(clearCmd)
	Cmd.AddCommand(exportCmd)
	Cmd.AddCommand(importCmd)
}

func addFunc(cmd *cobra.Command, args []string) {
	store := common.NewReceiptStore(root.Cfg)

	for _, path := range args {
		text, err := os.ReadFile(path)
		if err != nil {
			root.Log.Fatalf("Error reading %s: %v", path, err)
		}

		receipt := receipts.FromText(filepath.Base(path), source, string(text))
		stored, err := store.Add(receipt)
		if err != nil {
			root.Log.Fatalf("Error storing receipt: %v", err)
		}

		if stored.Amount == nil {
			root.Log.Warnf("Stored %s without an amount, it will not be matched", stored.Filename)
		} else {
			root.Log.Infof("Stored %s (id %s, amount %s)", stored.Filename, stored.ID, stored.Amount)
		}
	}
}

func listFunc(cmd *cobra.Command, args []string) {
	store := common.NewReceiptStore(root.Cfg)
	stored, err := store.List()
	if err != nil {
		root.Log.Fatalf("Error loading receipts: %v", err)
	}

	root.Log.Infof("%d receipts stored", len(stored))
	if err := common.PrintJSON(stored); err != nil {
		root.Log.Fatalf("Failed to print receipts: %v", err)
	}
}

func clearFunc(cmd *cobra.Command, args []string) {
	store := common.NewReceiptStore(root.Cfg)
	n, err := store.Clear()
	if err != nil {
		root.Log.Fatalf("Error clearing receipts: %v", err)
	}
	root.Log.Infof("Removed %d receipts", n)
}

func exportFunc(cmd *cobra.Command, args []string) {
	store := common.NewReceiptStore(root.Cfg)
	stored, err := store.List()
	if err != nil {
		root.Log.Fatalf("Error loading receipts: %v", err)
	}

	output := root.SharedFlags.Output
	if output == "" {
		output = common.DataPath(root.Cfg, "receipts.csv")
	}
	if err := receipts.ExportCSV(stored, output); err != nil {
		root.Log.Fatalf("Error exporting receipts: %v", err)
	}
	root.Log.Infof("Exported %d receipts to %s", len(stored), output)
}

func importFunc(cmd *cobra.Command, args []string) {
	f, err := os.Open(args[0])
	if err != nil {
		root.Log.Fatalf("Error opening %s: %v", args[0], err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			root.Log.Warnf("Failed to close %s: %v", args[0], err)
		}
	}()

	parsed, err := receipts.ReadCSV(f)
	if err != nil {
		root.Log.Fatalf("Error parsing %s: %v", args[0], err)
	}

	store := common.NewReceiptStore(root.Cfg)
	for _, r := range parsed {
		if _, err := store.Add(r); err != nil {
			root.Log.Fatalf("Error storing receipt %s: %v", r.Filename, err)
		}
	}
	root.Log.Infof("Imported %d receipts from %s", len(parsed), args[0])
}
