package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is one captured payment receipt as stored by the receipt
// repository. Amount and Date are nil when the capture could not extract
// them; such receipts are excluded from matching up front.
type Receipt struct {
	ID         string           `yaml:"id" json:"id"`
	Filename   string           `yaml:"filename" json:"filename"`
	Amount     *decimal.Decimal `yaml:"amount" json:"amount"`
	Date       *time.Time       `yaml:"date" json:"date"`
	Reference  string           `yaml:"reference" json:"reference"`
	RawText    string           `yaml:"raw_text,omitempty" json:"raw_text,omitempty"`
	Source     string           `yaml:"source" json:"source"`
	UploadedAt time.Time        `yaml:"uploaded_at" json:"uploaded_at"`
}

// AbsAmount returns the receipt amount as an absolute value, or nil when the
// receipt has no amount. Matching always compares absolute values.
func (r Receipt) AbsAmount() *decimal.Decimal {
	if r.Amount == nil {
		return nil
	}
	abs := r.Amount.Abs()
	return &abs
}
