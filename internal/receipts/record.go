package receipts

import (
	"time"

	"github.com/JB-QBA/bank-recon-agent/internal/currencyutils"
	"github.com/JB-QBA/bank-recon-agent/internal/dateutils"
	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

// receiptRecord is the persisted form of a receipt, flat scalars only.
// Amount and Date are strings so a receipt with no extracted value survives
// as an empty field instead of a zero value.
type receiptRecord struct {
	ID         string `yaml:"id" csv:"ID"`
	Filename   string `yaml:"filename" csv:"Filename"`
	Amount     string `yaml:"amount" csv:"Amount"`
	Date       string `yaml:"date" csv:"Date"`
	Reference  string `yaml:"reference" csv:"Reference"`
	RawText    string `yaml:"raw_text,omitempty" csv:"-"`
	Source     string `yaml:"source" csv:"Source"`
	UploadedAt string `yaml:"uploaded_at" csv:"UploadedAt"`
}

func toRecord(r models.Receipt) receiptRecord {
	rec := receiptRecord{
		ID:        r.ID,
		Filename:  r.Filename,
		Reference: r.Reference,
		RawText:   r.RawText,
		Source:    r.Source,
	}
	if r.Amount != nil {
		rec.Amount = r.Amount.String()
	}
	if r.Date != nil {
		rec.Date = dateutils.ToISODate(*r.Date)
	}
	if !r.UploadedAt.IsZero() {
		rec.UploadedAt = r.UploadedAt.UTC().Format(time.RFC3339)
	}
	return rec
}

func fromRecord(rec receiptRecord) models.Receipt {
	r := models.Receipt{
		ID:        rec.ID,
		Filename:  rec.Filename,
		Reference: rec.Reference,
		RawText:   rec.RawText,
		Source:    rec.Source,
		Amount:    currencyutils.ParseAmountSafe(rec.Amount),
		Date:      dateutils.ParseDateSafe(rec.Date),
	}
	if t, err := time.Parse(time.RFC3339, rec.UploadedAt); err == nil {
		r.UploadedAt = t
	}
	return r
}
