package recon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func amountPtr(s string) *decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &v
}

func receipt(id, amount string, date *time.Time) models.Receipt {
	return models.Receipt{
		ID:        id,
		Amount:    amountPtr(amount),
		Date:      date,
		Reference: "ref-" + id,
		Filename:  id + ".jpg",
	}
}

func bankTable(rows ...[]string) models.BankTable {
	return models.BankTable{
		Columns: []string{"Date", "Description", "Amount"},
		Rows:    rows,
	}
}

var tol = decimal.NewFromFloat(0.01)

func TestMatch_SingleUnusedCandidate(t *testing.T) {
	// Bank -250.00 on 2025-07-11 vs receipt 250.00 on 2025-07-10, window 3.
	table := bankTable([]string{"11/07/2025", "Supplier", "-250.00"})
	receipts := []models.Receipt{receipt("R1", "250.00", datePtr(2025, 7, 10))}

	records, summary, err := MatchReceiptsToBank(table, receipts, 3, tol)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, models.OutcomeMatched, records[0].Outcome)
	assert.Equal(t, "R1", records[0].MatchedReceiptID)
	assert.Equal(t, "ref-R1", records[0].MatchedReceiptRef)
	assert.Equal(t, "2025-07-10", records[0].MatchedReceiptDate)
	assert.Equal(t, "R1.jpg", records[0].MatchedReceiptFile)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.BankRows)
}

func TestMatch_MultipleCandidatesDefersToReview(t *testing.T) {
	table := bankTable([]string{"11/07/2025", "Supplier", "-250.00"})
	receipts := []models.Receipt{
		receipt("R1", "250.00", datePtr(2025, 7, 10)),
		receipt("R2", "250.00", datePtr(2025, 7, 12)),
	}

	records, summary, err := MatchReceiptsToBank(table, receipts, 3, tol)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeMultipleCandidates, records[0].Outcome)
	assert.Len(t, records[0].Candidates, 2)
	assert.Empty(t, records[0].MatchedReceiptID)
	assert.Equal(t, 0, summary.Matched)
	assert.Equal(t, 1, summary.MultiCandidates)
}

func TestMatch_DuplicateReceiptUse(t *testing.T) {
	// Two bank rows, one receipt: the second row finds only a consumed
	// receipt and is flagged, not matched.
	table := bankTable(
		[]string{"11/07/2025", "First", "-250.00"},
		[]string{"11/07/2025", "Second", "-250.00"},
	)
	receipts := []models.Receipt{receipt("R1", "250.00", datePtr(2025, 7, 11))}

	records, summary, err := MatchReceiptsToBank(table, receipts, 3, tol)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeMatched, records[0].Outcome)
	assert.Equal(t, models.OutcomeDuplicateReceiptUse, records[1].Outcome)
	assert.Equal(t, []string{"R1"}, records[1].Candidates)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.DuplicateReceiptUse)
}

func TestMatch_NoReceiptFound(t *testing.T) {
	table := bankTable([]string{"11/07/2025", "Supplier", "-250.00"})
	receipts := []models.Receipt{receipt("R1", "99.00", datePtr(2025, 7, 11))}

	records, summary, err := MatchReceiptsToBank(table, receipts, 3, tol)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNoReceiptFound, records[0].Outcome)
	assert.Equal(t, 1, summary.NoCandidates)
}

func TestMatch_NoAmountSkips(t *testing.T) {
	table := bankTable([]string{"11/07/2025", "Opening balance", ""})
	receipts := []models.Receipt{receipt("R1", "250.00", nil)}

	records, summary, err := MatchReceiptsToBank(table, receipts, 3, tol)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNoAmount, records[0].Outcome)
	assert.Equal(t, 1, summary.NoCandidates)
}

func TestMatch_DateWindowExcludes(t *testing.T) {
	table := bankTable([]string{"11/07/2025", "Supplier", "-250.00"})
	receipts := []models.Receipt{receipt("R1", "250.00", datePtr(2025, 7, 1))}

	records, _, err := MatchReceiptsToBank(table, receipts, 3, tol)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNoReceiptFound, records[0].Outcome)
}

func TestMatch_DatelessReceiptStaysEligible(t *testing.T) {
	table := bankTable([]string{"11/07/2025", "Supplier", "-250.00"})
	receipts := []models.Receipt{receipt("R1", "250.00", nil)}

	records, _, err := MatchReceiptsToBank(table, receipts, 3, tol)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeMatched, records[0].Outcome)
}

func TestMatch_DatelessBankRowSkipsWindow(t *testing.T) {
	table := bankTable([]string{"garbage-date", "Supplier", "-250.00"})
	receipts := []models.Receipt{receipt("R1", "250.00", datePtr(2020, 1, 1))}

	records, _, err := MatchReceiptsToBank(table, receipts, 3, tol)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeMatched, records[0].Outcome)
}

func TestMatch_AmountlessReceiptsExcludedUpFront(t *testing.T) {
	table := bankTable([]string{"11/07/2025", "Supplier", "-250.00"})
	receipts := []models.Receipt{
		{ID: "NOAMT", Date: datePtr(2025, 7, 11)},
		receipt("R1", "250.00", datePtr(2025, 7, 11)),
	}

	records, _, err := MatchReceiptsToBank(table, receipts, 3, tol)
	require.NoError(t, err)
	assert.Equal(t, "R1", records[0].MatchedReceiptID)
}

func TestMatch_ReceiptAmountComparedAbsolute(t *testing.T) {
	table := bankTable([]string{"11/07/2025", "Refund", "250.00"})
	receipts := []models.Receipt{receipt("R1", "-250.00", datePtr(2025, 7, 11))}

	records, _, err := MatchReceiptsToBank(table, receipts, 3, tol)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeMatched, records[0].Outcome)
}

// No receipt id is attached to more than one matched record in one run, and
// every match respects the amount tolerance and date window.
func TestMatch_Properties(t *testing.T) {
	table := bankTable(
		[]string{"10/07/2025", "a", "-100.00"},
		[]string{"11/07/2025", "b", "-100.00"},
		[]string{"12/07/2025", "c", "-200.00"},
		[]string{"13/07/2025", "d", "-100.005"},
		[]string{"14/07/2025", "e", "bad"},
	)
	receipts := []models.Receipt{
		receipt("R1", "100.00", datePtr(2025, 7, 10)),
		receipt("R2", "100.00", datePtr(2025, 7, 11)),
		receipt("R3", "200.00", datePtr(2025, 7, 12)),
	}

	records, summary, err := MatchReceiptsToBank(table, receipts, 3, tol)
	require.NoError(t, err)

	seen := make(map[string]int)
	window := 3
	byID := make(map[string]models.Receipt)
	for _, r := range receipts {
		byID[r.ID] = r
	}

	for _, rec := range records {
		if rec.Outcome != models.OutcomeMatched {
			continue
		}
		seen[rec.MatchedReceiptID]++

		matched := byID[rec.MatchedReceiptID]
		diff := rec.Amount.Abs().Sub(matched.Amount.Abs()).Abs()
		assert.True(t, diff.LessThanOrEqual(tol), "amount out of tolerance for %s", rec.MatchedReceiptID)
		if rec.Date != nil && matched.Date != nil {
			days := int(rec.Date.Sub(*matched.Date).Hours() / 24)
			if days < 0 {
				days = -days
			}
			assert.LessOrEqual(t, days, window)
		}
	}

	for id, n := range seen {
		assert.Equal(t, 1, n, "receipt %s consumed more than once", id)
	}
	assert.Equal(t, summary.BankRows, len(records))
	assert.Equal(t, summary.Matched, len(seen))
}
