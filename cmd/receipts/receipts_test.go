package receipts

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JB-QBA/bank-recon-agent/cmd/common"
	"github.com/JB-QBA/bank-recon-agent/cmd/root"
	"github.com/JB-QBA/bank-recon-agent/internal/config"
	"github.com/JB-QBA/bank-recon-agent/internal/models"
	"github.com/JB-QBA/bank-recon-agent/internal/receipts"
)

func TestCmdMetadata(t *testing.T) {
	assert.Equal(t, "receipts", Cmd.Use)

	names := make(map[string]bool)
	for _, sub := range Cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"add", "list", "clear", "export", "import"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestImportRestoresExportedReceipts(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Data.Directory = dir
	cfg.Data.ReceiptsFile = "receipts.yaml"
	root.Cfg = cfg

	amount := decimal.RequireFromString("250.00")
	exported := []models.Receipt{
		{Filename: "taxi.jpg", Amount: &amount, Reference: "INV-2041", Source: "upload"},
		{Filename: "illegible.jpg", Source: "manual"},
	}
	csvPath := filepath.Join(dir, "export.csv")
	require.NoError(t, receipts.ExportCSV(exported, csvPath))

	importFunc(importCmd, []string{csvPath})

	stored, err := common.NewReceiptStore(cfg).List()
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "taxi.jpg", stored[0].Filename)
	assert.NotEmpty(t, stored[0].ID)
	require.NotNil(t, stored[0].Amount)
	assert.True(t, stored[0].Amount.Equal(amount))
	assert.Nil(t, stored[1].Amount)
}
