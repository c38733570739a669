// Package recon is the public entry point for embedding the reconciliation
// engine in other programs. It re-exports the matching, batch and receipt
// operations without exposing the internal package layout.
package recon

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JB-QBA/bank-recon-agent/internal/audit"
	"github.com/JB-QBA/bank-recon-agent/internal/auth"
	"github.com/JB-QBA/bank-recon-agent/internal/ledger"
	"github.com/JB-QBA/bank-recon-agent/internal/models"
	"github.com/JB-QBA/bank-recon-agent/internal/orchestrator"
	"github.com/JB-QBA/bank-recon-agent/internal/receipts"
	reconcore "github.com/JB-QBA/bank-recon-agent/internal/recon"
)

// Re-exported types used across the public operations.
type (
	BankTable        = models.BankTable
	BankRecord       = models.BankRecord
	DetectedColumns  = models.DetectedColumns
	MatchSummary     = models.MatchSummary
	Receipt          = models.Receipt
	Batch            = models.Batch
	LineItem         = models.LineItem
	Account          = models.Account
	CredentialSource = auth.CredentialSource
	LedgerClient     = ledger.Client
	AuditLog         = audit.Log
	ReceiptStore     = receipts.Store
	Orchestrator     = orchestrator.Orchestrator
	PreviewResult    = orchestrator.PreviewResult
	PostResult       = orchestrator.PostResult
)

// ReadBankTable parses an uploaded bank CSV into a raw table, keeping every
// column exactly as exported.
func ReadBankTable(r io.Reader) (BankTable, error) {
	return reconcore.ReadBankTable(r)
}

// MatchReceipts matches stored receipts against the rows of a bank table.
// Each receipt is consumed at most once per run.
func MatchReceipts(table BankTable, rs []Receipt, dateWindowDays int, amountTolerance decimal.Decimal) ([]BankRecord, MatchSummary, error) {
	return reconcore.MatchReceiptsToBank(table, rs, dateWindowDays, amountTolerance)
}

// WriteMatchedCSV writes the enriched bank table, original columns plus the
// match outcome columns, to the given file.
func WriteMatchedCSV(records []BankRecord, columns []string, csvFile string) error {
	return reconcore.WriteEnrichedCSV(records, columns, csvFile)
}

// ReceiptFromText builds a receipt from extracted document text.
func ReceiptFromText(filename, source, text string) Receipt {
	return receipts.FromText(filename, source, text)
}

// NewReceiptStore opens the YAML-backed receipt repository at path.
func NewReceiptStore(path string) *ReceiptStore {
	return receipts.NewStore(path)
}

// NewAuditLog opens the append-only JSONL audit log at path.
func NewAuditLog(path string) *AuditLog {
	return audit.NewLog(path)
}

// StaticCredentials returns a credential source with a fixed token and
// tenant, useful for tests and short-lived scripts.
func StaticCredentials(token, tenant string) CredentialSource {
	return auth.StaticCredentials{Token: token, Tenant: tenant}
}

// NewLedgerClient builds a ledger API client.
func NewLedgerClient(baseURL string, creds CredentialSource, timeout time.Duration) *LedgerClient {
	return ledger.NewClient(baseURL, creds, timeout)
}

// NewOrchestrator builds a batch orchestrator on top of a ledger client and
// audit log.
func NewOrchestrator(client *LedgerClient, auditLog *AuditLog) *Orchestrator {
	return orchestrator.New(client, auditLog)
}
