// Package reconerror defines the error types surfaced by the reconciliation
// core. Every error carries enough context (line id, expected vs actual
// values) for the caller to correct its input and retry the whole call.
package reconerror

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MissingColumnError means the uploaded bank table lacks a required column.
// Fatal to the normalizer call; nothing is partially emitted.
type MissingColumnError struct {
	Kind string // "date" or "amount"
}

func (e *MissingColumnError) Error() string {
	if e.Kind == "amount" {
		return "could not detect an Amount or Debit/Credit columns in the uploaded table"
	}
	return fmt.Sprintf("could not detect a %s column in the uploaded table", e.Kind)
}

// NoAccountError means the account directory holds no active bank account.
type NoAccountError struct {
	Hint string
}

func (e *NoAccountError) Error() string {
	return "no active BANK accounts found in the ledger"
}

// AmountMismatchError means the invoice allocations of a line do not sum to
// the absolute local bank amount within the configured tolerance.
type AmountMismatchError struct {
	BankLineID   string
	ForeignTotal decimal.Decimal
	LocalTotal   decimal.Decimal
	Tolerance    decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("[%s] foreign total %s != local abs %s (tol %s); post fees as a separate non_invoice line or disable require_exact_totals",
		e.BankLineID, e.ForeignTotal, e.LocalTotal, e.Tolerance)
}

// MissingAllocationError means an invoices line carries no allocations, or
// allocations that do not sum to a positive amount.
type MissingAllocationError struct {
	BankLineID string
	Reason     string
}

func (e *MissingAllocationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.BankLineID, e.Reason)
}

// MissingContactError means a spend-money line has no contact; the ledger
// rejects spend transactions without a payee.
type MissingContactError struct {
	BankLineID string
}

func (e *MissingContactError) Error() string {
	return fmt.Sprintf("[%s] contact_id is required for SPEND money transactions", e.BankLineID)
}

// MissingAccountRefError means a non-invoice line names neither an account
// code nor an account id.
type MissingAccountRefError struct {
	BankLineID string
}

func (e *MissingAccountRefError) Error() string {
	return fmt.Sprintf("[%s] provide either account_code or account_id for non_invoice line", e.BankLineID)
}

// UnknownLineTypeError means a line carries a type the orchestrator does not
// understand.
type UnknownLineTypeError struct {
	BankLineID string
	Kind       string
}

func (e *UnknownLineTypeError) Error() string {
	return fmt.Sprintf("[%s] unknown line type: %s", e.BankLineID, e.Kind)
}

// AuthUnavailableError means the credential provider could not supply a
// token or tenant id.
type AuthUnavailableError struct {
	Reason string
	Err    error
}

func (e *AuthUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credentials unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("credentials unavailable: %s", e.Reason)
}

func (e *AuthUnavailableError) Unwrap() error {
	return e.Err
}

// LedgerRejectedError means the external ledger answered a post with a
// non-2xx status. The whole batch is failed and no audit is written.
type LedgerRejectedError struct {
	Endpoint   string
	StatusCode int
	Detail     string
}

func (e *LedgerRejectedError) Error() string {
	return fmt.Sprintf("ledger rejected %s with status %d: %s", e.Endpoint, e.StatusCode, e.Detail)
}
