package receipts

import (
	"regexp"
	"strings"

	"github.com/JB-QBA/bank-recon-agent/internal/currencyutils"
	"github.com/JB-QBA/bank-recon-agent/internal/dateutils"
	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

// Extraction patterns for receipt text. Receipt layouts put the grand total
// near the bottom, so the amount extractor keeps the last money-looking token.
var (
	amountPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})*(?:\.\d{2})`)
	datePattern   = regexp.MustCompile(`(?i)\d{1,2}[-/ ]\w{3,9}[-/ ]\d{2,4}`)
)

// ExtractedFields is the raw output of regex extraction over receipt text.
// Empty fields mean the pattern found nothing, not a parse failure.
type ExtractedFields struct {
	Amount    string
	Date      string
	Reference string
}

// ExtractFields pulls the amount, date and reference out of free-form
// receipt text.
func ExtractFields(text string) ExtractedFields {
	fields := ExtractedFields{}

	if matches := amountPattern.FindAllString(text, -1); len(matches) > 0 {
		fields.Amount = matches[len(matches)-1]
	}
	fields.Date = datePattern.FindString(text)

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "Ref") || strings.Contains(strings.ToLower(line), "reference") {
			fields.Reference = strings.TrimSpace(line)
			break
		}
	}
	return fields
}

// FromText builds a receipt from extracted document text. Amount and date
// stay nil when the text yields nothing parseable; such receipts are stored
// but never matched.
func FromText(filename, source, text string) models.Receipt {
	fields := ExtractFields(text)
	return models.Receipt{
		Filename:  filename,
		Amount:    currencyutils.ParseAmountSafe(fields.Amount),
		Date:      dateutils.ParseDateSafe(fields.Date),
		Reference: fields.Reference,
		RawText:   text,
		Source:    source,
	}
}
