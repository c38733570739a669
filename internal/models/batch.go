package models

import (
	"github.com/shopspring/decimal"
)

// LineKind distinguishes how a reconciliation line books against the ledger.
type LineKind string

const (
	// LineKindInvoices applies the bank movement to one or more invoices.
	LineKindInvoices LineKind = "invoices"
	// LineKindNonInvoice books the movement straight to an account as a
	// spend or receive money transaction.
	LineKindNonInvoice LineKind = "non_invoice"
)

// InvoiceAllocation assigns part of a bank movement to one invoice. The
// amount is stated in the invoice's own currency.
type InvoiceAllocation struct {
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NonInvoicePayload describes a non-invoice ledger movement. Direction comes
// from IsSpend, never from the sign of the bank amount. Either AccountCode or
// AccountID must be set.
type NonInvoicePayload struct {
	IsSpend     bool   `json:"is_spend"`
	AccountCode string `json:"account_code,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
	ContactID   string `json:"contact_id,omitempty"`
	Description string `json:"description,omitempty"`
}

// LineItem is one caller-declared reconciliation decision. Exactly one of
// Invoices or NonInvoice is meaningful, selected by Kind.
type LineItem struct {
	BankLineID string              `json:"bank_line_id"`
	Date       string              `json:"date"`
	Amount     decimal.Decimal     `json:"amount"`
	Reference  string              `json:"reference,omitempty"`
	Kind       LineKind            `json:"type"`
	Invoices   []InvoiceAllocation `json:"invoices,omitempty"`
	NonInvoice *NonInvoicePayload  `json:"non_invoice,omitempty"`
}

// BatchConfig tunes batch validation. Nil fields fall back to defaults:
// exact totals required, tolerance 0.01.
type BatchConfig struct {
	RequireExactTotals *bool            `json:"require_exact_totals,omitempty"`
	AmountTolerance    *decimal.Decimal `json:"amount_tolerance,omitempty"`
}

// Batch is one payment batch as submitted by the caller.
type Batch struct {
	Lines  []LineItem  `json:"lines"`
	Config BatchConfig `json:"config"`
}

// RequireExactTotals resolves the exact-totals switch, defaulting to true.
func (c BatchConfig) RequireExact() bool {
	if c.RequireExactTotals == nil {
		return true
	}
	return *c.RequireExactTotals
}

// Tolerance resolves the amount tolerance, defaulting to 0.01.
func (c BatchConfig) Tolerance() decimal.Decimal {
	if c.AmountTolerance == nil {
		return decimal.NewFromFloat(0.01)
	}
	return *c.AmountTolerance
}
