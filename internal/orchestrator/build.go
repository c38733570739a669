package orchestrator

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/JB-QBA/bank-recon-agent/internal/currencyutils"
	"github.com/JB-QBA/bank-recon-agent/internal/models"
	"github.com/JB-QBA/bank-recon-agent/internal/reconerror"
)

const maxReferenceLen = 255

// BuildResult holds the ledger artifacts derived from a validated batch.
type BuildResult struct {
	Payments []models.Payment
	BankTxns []models.BankTransaction
	Preview  []models.PreviewItem
}

// ValidateAndBuild checks every line of the batch against its declared kind
// and produces the payments and bank transactions to post. It is pure: no
// network, no clock, no mutation of the input. Validation is all-or-nothing,
// the first failing line aborts the whole batch.
func ValidateAndBuild(batch models.Batch, bankAccountID string) (*BuildResult, error) {
	tol := batch.Config.Tolerance()
	requireExact := batch.Config.RequireExact()

	result := &BuildResult{}
	for _, line := range batch.Lines {
		amount := currencyutils.Round2(line.Amount)
		reference := truncate(strings.TrimSpace(line.Reference), maxReferenceLen)

		switch line.Kind {
		case models.LineKindInvoices:
			payments, err := buildInvoicePayments(line, amount, reference, bankAccountID, requireExact, tol)
			if err != nil {
				return nil, err
			}
			result.Payments = append(result.Payments, payments...)
			for _, p := range payments {
				result.Preview = append(result.Preview, models.PreviewItem{
					BankLineID: line.BankLineID,
					Type:       models.PreviewTypePayment,
					Payload:    p,
				})
			}

		case models.LineKindNonInvoice:
			txn, err := buildBankTransaction(line, amount, reference, bankAccountID)
			if err != nil {
				return nil, err
			}
			result.BankTxns = append(result.BankTxns, txn)
			result.Preview = append(result.Preview, models.PreviewItem{
				BankLineID: line.BankLineID,
				Type:       models.PreviewTypeBankTxn,
				Payload:    txn,
			})

		default:
			return nil, &reconerror.UnknownLineTypeError{BankLineID: line.BankLineID, Kind: string(line.Kind)}
		}
	}
	return result, nil
}

// buildInvoicePayments allocates one bank line across one or more invoices.
// Invoice amounts are in the invoice currency; the bank amount is in the
// account currency, so each payment carries the implied conversion rate.
func buildInvoicePayments(line models.LineItem, amount decimal.Decimal, reference, bankAccountID string, requireExact bool, tol decimal.Decimal) ([]models.Payment, error) {
	if len(line.Invoices) == 0 {
		return nil, &reconerror.MissingAllocationError{
			BankLineID: line.BankLineID,
			Reason:     "no invoice allocations",
		}
	}

	foreignTotal := decimal.Zero
	for _, inv := range line.Invoices {
		foreignTotal = foreignTotal.Add(currencyutils.Round2(inv.Amount))
	}
	foreignTotal = currencyutils.Round2(foreignTotal)
	if !foreignTotal.IsPositive() {
		return nil, &reconerror.MissingAllocationError{
			BankLineID: line.BankLineID,
			Reason:     "invoice allocations must sum to a positive amount",
		}
	}

	localAbs := currencyutils.Round2(amount.Abs())
	if requireExact && localAbs.Sub(foreignTotal).Abs().GreaterThan(tol) {
		return nil, &reconerror.AmountMismatchError{
			BankLineID:   line.BankLineID,
			ForeignTotal: foreignTotal,
			LocalTotal:   localAbs,
			Tolerance:    tol,
		}
	}

	rate := currencyutils.RoundRate6(localAbs.Div(foreignTotal)).InexactFloat64()

	payments := make([]models.Payment, 0, len(line.Invoices))
	for _, inv := range line.Invoices {
		r := rate
		payments = append(payments, models.Payment{
			Invoice:      models.InvoiceRef{InvoiceID: inv.InvoiceID},
			Account:      models.AccountRef{AccountID: bankAccountID},
			Date:         line.Date,
			Amount:       currencyutils.Round2(inv.Amount).InexactFloat64(),
			Reference:    reference,
			CurrencyRate: &r,
		})
	}
	return payments, nil
}

func buildBankTransaction(line models.LineItem, amount decimal.Decimal, reference, bankAccountID string) (models.BankTransaction, error) {
	ni := line.NonInvoice
	if ni == nil || (ni.AccountCode == "" && ni.AccountID == "") {
		return models.BankTransaction{}, &reconerror.MissingAccountRefError{BankLineID: line.BankLineID}
	}

	txnType := models.BankTransactionReceive
	defaultDesc := "Receive Money"
	if ni.IsSpend {
		txnType = models.BankTransactionSpend
		defaultDesc = "Spend Money"
		if ni.ContactID == "" {
			return models.BankTransaction{}, &reconerror.MissingContactError{BankLineID: line.BankLineID}
		}
	}

	description := ni.Description
	if description == "" {
		description = reference
	}
	if description == "" {
		description = defaultDesc
	}

	item := models.LedgerLineItem{
		Description: description,
		Quantity:    1,
		UnitAmount:  amount.Abs().InexactFloat64(),
		TaxType:     "NONE",
	}
	if ni.AccountID != "" {
		item.AccountID = ni.AccountID
	} else {
		item.AccountCode = ni.AccountCode
	}

	txn := models.BankTransaction{
		Type:        txnType,
		Date:        line.Date,
		Reference:   reference,
		BankAccount: models.AccountRef{AccountID: bankAccountID},
		LineItems:   []models.LedgerLineItem{item},
	}
	if ni.ContactID != "" {
		txn.Contact = &models.ContactRef{ContactID: ni.ContactID}
	}
	return txn, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back off to a rune boundary so a multi-byte character is never split.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
