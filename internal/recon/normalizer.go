package recon

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/JB-QBA/bank-recon-agent/internal/currencyutils"
	"github.com/JB-QBA/bank-recon-agent/internal/dateutils"
	"github.com/JB-QBA/bank-recon-agent/internal/models"
	"github.com/JB-QBA/bank-recon-agent/internal/reconerror"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// NormalizeBankTable turns a raw bank export into a uniform record sequence.
// It cleans the headers, auto-detects the date column and either an amount
// column or a debit/credit pair, and parses every row's date and amount.
// Unparseable cells become nil; a missing required column aborts the whole
// call with a MissingColumnError.
func NormalizeBankTable(table models.BankTable) ([]models.BankRecord, models.DetectedColumns, error) {
	columns := CleanColumnNames(table.Columns)

	dateCol, ok := matchFirst(dateRules, columns)
	if !ok {
		return nil, models.DetectedColumns{}, &reconerror.MissingColumnError{Kind: "date"}
	}

	detected := models.DetectedColumns{DateColumn: dateCol}

	amountCol, haveAmount := matchFirst(amountRules, columns)
	var debitCol, creditCol string
	if haveAmount {
		detected.AmountColumn = amountCol
	} else {
		var haveDebit, haveCredit bool
		debitCol, haveDebit = matchFirst(debitRules, columns)
		creditCol, haveCredit = matchFirst(creditRules, columns)
		if !haveDebit && !haveCredit {
			return nil, models.DetectedColumns{}, &reconerror.MissingColumnError{Kind: "amount"}
		}
		detected.AmountColumn = "Debit/Credit"
		detected.DebitColumn = debitCol
		detected.CreditColumn = creditCol
	}

	log.WithFields(logrus.Fields{
		"date_column":   detected.DateColumn,
		"amount_column": detected.AmountColumn,
		"rows":          len(table.Rows),
	}).Debug("Detected bank table columns")

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]models.BankRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		fields := make(map[string]string, len(columns))
		for _, c := range columns {
			fields[c] = cell(row, c)
		}

		rec := models.BankRecord{
			Date:   dateutils.ParseDateSafe(cell(row, dateCol)),
			Fields: fields,
		}

		if haveAmount {
			rec.Amount = currencyutils.ParseAmountSafe(cell(row, amountCol))
		} else {
			rec.Amount = synthesizeAmount(
				currencyutils.ParseAmountSafe(cell(row, debitCol)),
				currencyutils.ParseAmountSafe(cell(row, creditCol)),
			)
		}

		records = append(records, rec)
	}

	return records, detected, nil
}

// synthesizeAmount builds a signed amount from a debit/credit pair:
// amount = credit - debit, a missing side counting as zero. Both sides
// missing means the row has no amount at all.
func synthesizeAmount(debit, credit *decimal.Decimal) *decimal.Decimal {
	if debit == nil && credit == nil {
		return nil
	}
	d, c := decimal.Zero, decimal.Zero
	if debit != nil {
		d = *debit
	}
	if credit != nil {
		c = *credit
	}
	amount := c.Sub(d)
	return &amount
}
