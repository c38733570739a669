package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTable is a raw tabular bank export: ordered column headers plus rows.
// Column names arrive as the bank produced them; normalization happens later.
type BankTable struct {
	Columns []string
	Rows    [][]string
}

// Cell returns the value of the named column for the given row, or "" if the
// column does not exist or the row is short.
func (t BankTable) Cell(row int, column string) string {
	for i, c := range t.Columns {
		if c == column {
			if row < len(t.Rows) && i < len(t.Rows[row]) {
				return t.Rows[row][i]
			}
			return ""
		}
	}
	return ""
}

// DetectedColumns reports which columns the normalizer resolved for a run.
// AmountColumn is "Debit/Credit" when the amount was synthesized from a
// debit/credit pair.
type DetectedColumns struct {
	DateColumn   string `json:"bank_date_column"`
	AmountColumn string `json:"bank_amount_column"`
	DebitColumn  string `json:"debit_column,omitempty"`
	CreditColumn string `json:"credit_column,omitempty"`
}

// BankRecord is one normalized bank statement row. Date and Amount are nil
// when the underlying cell could not be parsed. Fields carries the original
// row untouched, keyed by cleaned column name.
type BankRecord struct {
	Date   *time.Time
	Amount *decimal.Decimal
	Fields map[string]string

	// Match enrichment, populated by the matching engine.
	Outcome            MatchOutcome
	MatchedReceiptID   string
	MatchedReceiptRef  string
	MatchedReceiptDate string
	MatchedReceiptFile string
	Candidates         []string
}
