package models

import "time"

// PostedFlags records which of the two ledger submissions ran for a batch.
type PostedFlags struct {
	Payments bool `json:"payments"`
	BankTxns bool `json:"banktxns"`
}

// AuditRecord is one append-only audit line: the exact payload sent to the
// ledger for one bank line, written only after the whole batch posted.
type AuditRecord struct {
	TS         time.Time   `json:"ts"`
	BankLineID string      `json:"bank_line_id"`
	Type       string      `json:"type"`
	Request    any         `json:"request"`
	Posted     PostedFlags `json:"xero_response_keys"`
}
