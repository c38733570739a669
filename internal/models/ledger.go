package models

// Account is one entry of the external ledger's account directory.
type Account struct {
	ID       string `json:"AccountID"`
	Name     string `json:"Name"`
	Code     string `json:"Code"`
	Type     string `json:"Type"`
	Status   string `json:"Status"`
	Currency string `json:"CurrencyCode"`
}

// InvoiceRef identifies the invoice a payment applies to.
type InvoiceRef struct {
	InvoiceID string `json:"InvoiceID"`
}

// AccountRef identifies the bank account a payment draws on.
type AccountRef struct {
	AccountID string `json:"AccountID"`
}

// ContactRef identifies the counterparty of a bank transaction.
type ContactRef struct {
	ContactID string `json:"ContactID"`
}

// Payment is a ledger-ready invoice payment. Amount is stated in the invoice
// currency; CurrencyRate, when present, makes the local-currency booking match
// the bank movement exactly. Immutable once built.
type Payment struct {
	Invoice      InvoiceRef `json:"Invoice"`
	Account      AccountRef `json:"Account"`
	Date         string     `json:"Date"`
	Amount       float64    `json:"Amount"`
	Reference    string     `json:"Reference,omitempty"`
	CurrencyRate *float64   `json:"CurrencyRate,omitempty"`
}

// Transaction directions understood by the ledger.
const (
	BankTransactionSpend   = "SPEND"
	BankTransactionReceive = "RECEIVE"
)

// LedgerLineItem is one line of a bank transaction. Exactly one of
// AccountCode or AccountID is set.
type LedgerLineItem struct {
	Description string  `json:"Description"`
	Quantity    int     `json:"Quantity"`
	UnitAmount  float64 `json:"UnitAmount"`
	TaxType     string  `json:"TaxType"`
	AccountCode string  `json:"AccountCode,omitempty"`
	AccountID   string  `json:"AccountID,omitempty"`
}

// BankTransaction is a ledger-ready non-invoice movement. Immutable once
// built.
type BankTransaction struct {
	Type        string           `json:"Type"`
	Contact     *ContactRef      `json:"Contact,omitempty"`
	Date        string           `json:"Date"`
	Reference   string           `json:"Reference,omitempty"`
	BankAccount AccountRef       `json:"BankAccount"`
	LineItems   []LedgerLineItem `json:"LineItems"`
}

// Preview item types.
const (
	PreviewTypePayment = "payment"
	PreviewTypeBankTxn = "banktxn"
)

// PreviewItem pairs one built payload with the bank line it came from. The
// preview list drives both the dry-run surface and the audit trail.
type PreviewItem struct {
	BankLineID string `json:"bank_line_id"`
	Type       string `json:"type"`
	Payload    any    `json:"payload"`
}
