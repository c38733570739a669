// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JB-QBA/bank-recon-agent/internal/audit"
	"github.com/JB-QBA/bank-recon-agent/internal/auth"
	"github.com/JB-QBA/bank-recon-agent/internal/config"
	"github.com/JB-QBA/bank-recon-agent/internal/ledger"
	"github.com/JB-QBA/bank-recon-agent/internal/models"
	"github.com/JB-QBA/bank-recon-agent/internal/orchestrator"
	"github.com/JB-QBA/bank-recon-agent/internal/receipts"
)

// DataPath resolves a file name inside the configured data directory.
func DataPath(cfg *config.Config, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(cfg.Data.Directory, name)
}

// NewReceiptStore opens the configured receipt repository.
func NewReceiptStore(cfg *config.Config) *receipts.Store {
	return receipts.NewStore(DataPath(cfg, cfg.Data.ReceiptsFile))
}

// NewCredentialSource builds the credential provider from configuration: a
// file-backed token source refreshing against the identity endpoint.
func NewCredentialSource(cfg *config.Config) auth.CredentialSource {
	source := auth.NewFileTokenSource(
		DataPath(cfg, cfg.Data.TokenFile),
		cfg.Ledger.ClientID,
		cfg.Ledger.ClientSecret,
		cfg.Ledger.IdentityURL,
		cfg.Ledger.ConnectionsURL,
	)
	source.TenantOverride = cfg.Ledger.TenantID
	return source
}

// NewLedgerClient builds the ledger API client from configuration.
func NewLedgerClient(cfg *config.Config) *ledger.Client {
	return ledger.NewClient(
		cfg.Ledger.BaseURL,
		NewCredentialSource(cfg),
		time.Duration(cfg.Ledger.TimeoutSeconds)*time.Second,
	)
}

// NewOrchestrator wires the ledger client, audit log and orchestrator from
// configuration.
func NewOrchestrator(cfg *config.Config) *orchestrator.Orchestrator {
	auditLog := audit.NewLog(DataPath(cfg, cfg.Data.AuditLog))
	return orchestrator.New(NewLedgerClient(cfg), auditLog)
}

// LoadBatch reads a payment batch from a JSON file.
func LoadBatch(path string) (models.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Batch{}, fmt.Errorf("error reading batch file: %w", err)
	}

	var batch models.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return models.Batch{}, fmt.Errorf("error parsing batch file: %w", err)
	}
	if len(batch.Lines) == 0 {
		return models.Batch{}, fmt.Errorf("batch file %s contains no lines", path)
	}
	return batch, nil
}

// PrintJSON writes a result as indented JSON to stdout.
func PrintJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
