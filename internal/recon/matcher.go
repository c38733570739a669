package recon

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/JB-QBA/bank-recon-agent/internal/dateutils"
	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

// candidate is a receipt prepared for matching: amount resolved to its
// absolute value, amount-less receipts already dropped.
type candidate struct {
	receipt models.Receipt
	amount  decimal.Decimal
}

// MatchReceiptsToBank pairs bank statement rows with captured receipts. The
// table is normalized first; each row then gets exactly one outcome, applied
// in row order:
//
//   - no parseable amount: skipped
//   - no receipt within amount tolerance (and date window, when the row has
//     a date): no receipt found
//   - exactly one fitting receipt not yet consumed in this run: matched, and
//     the receipt is consumed
//   - several unconsumed fits: ambiguity surfaced for review, nothing
//     consumed
//   - fits exist but all were consumed earlier in the run: duplicate use
//     surfaced for review, nothing consumed
//
// A receipt id appears in at most one matched row per run; the consumed set
// only grows and is local to this call.
func MatchReceiptsToBank(table models.BankTable, receipts []models.Receipt, dateWindowDays int, amountTol decimal.Decimal) ([]models.BankRecord, models.MatchSummary, error) {
	records, detected, err := NormalizeBankTable(table)
	if err != nil {
		return nil, models.MatchSummary{}, err
	}

	pool := make([]candidate, 0, len(receipts))
	for _, r := range receipts {
		abs := r.AbsAmount()
		if abs == nil {
			continue
		}
		pool = append(pool, candidate{receipt: r, amount: *abs})
	}

	log.WithFields(logrus.Fields{
		"bank_rows": len(records),
		"receipts":  len(pool),
		"window":    dateWindowDays,
		"tolerance": amountTol,
	}).Info("Matching receipts to bank records")

	used := make(map[string]struct{})
	summary := models.MatchSummary{
		BankRows:     len(records),
		DateColumn:   detected.DateColumn,
		AmountColumn: detected.AmountColumn,
	}

	for i := range records {
		rec := &records[i]

		if rec.Amount == nil {
			rec.Outcome = models.OutcomeNoAmount
			summary.NoCandidates++
			continue
		}

		bankAbs := rec.Amount.Abs()
		fits := make([]candidate, 0, 2)
		for _, c := range pool {
			if bankAbs.Sub(c.amount).Abs().GreaterThan(amountTol) {
				continue
			}
			if rec.Date != nil && c.receipt.Date != nil && !dateutils.WithinDays(*rec.Date, *c.receipt.Date, dateWindowDays) {
				continue
			}
			fits = append(fits, c)
		}

		if len(fits) == 0 {
			rec.Outcome = models.OutcomeNoReceiptFound
			summary.NoCandidates++
			continue
		}

		unused := make([]candidate, 0, len(fits))
		for _, c := range fits {
			if _, consumed := used[c.receipt.ID]; !consumed {
				unused = append(unused, c)
			}
		}

		switch {
		case len(unused) == 1:
			chosen := unused[0]
			used[chosen.receipt.ID] = struct{}{}
			rec.Outcome = models.OutcomeMatched
			rec.MatchedReceiptID = chosen.receipt.ID
			rec.MatchedReceiptRef = chosen.receipt.Reference
			rec.MatchedReceiptFile = chosen.receipt.Filename
			if chosen.receipt.Date != nil {
				rec.MatchedReceiptDate = dateutils.ToISODate(*chosen.receipt.Date)
			}
			summary.Matched++
		case len(unused) > 1:
			rec.Outcome = models.OutcomeMultipleCandidates
			rec.Candidates = candidateIDs(unused)
			summary.MultiCandidates++
		default:
			rec.Outcome = models.OutcomeDuplicateReceiptUse
			rec.Candidates = candidateIDs(fits)
			summary.DuplicateReceiptUse++
		}
	}

	log.WithFields(logrus.Fields{
		"matched":               summary.Matched,
		"no_candidates":         summary.NoCandidates,
		"multi_candidates":      summary.MultiCandidates,
		"duplicate_receipt_use": summary.DuplicateReceiptUse,
	}).Info("Matching run complete")

	return records, summary, nil
}

func candidateIDs(cands []candidate) []string {
	ids := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = c.receipt.ID
	}
	return ids
}
