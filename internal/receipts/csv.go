package receipts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

// WriteCSV exports receipts as CSV. RawText is excluded; the export is meant
// for review in a spreadsheet, not as a backup of the repository.
func WriteCSV(receipts []models.Receipt, w io.Writer) error {
	records := make([]receiptRecord, 0, len(receipts))
	for _, r := range receipts {
		records = append(records, toRecord(r))
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("error writing receipts CSV: %w", err)
	}
	return nil
}

// ExportCSV writes the receipt export to a file, creating parent directories
// as needed.
func ExportCSV(receipts []models.Receipt, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating export file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close export file")
		}
	}()

	if err := WriteCSV(receipts, f); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":     path,
		"receipts": len(receipts),
	}).Info("Exported receipts")
	return nil
}

// ReadCSV imports receipts from a CSV export. Imported receipts carry no raw
// text.
func ReadCSV(r io.Reader) ([]models.Receipt, error) {
	var records []receiptRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("error parsing receipts CSV: %w", err)
	}

	receipts := make([]models.Receipt, 0, len(records))
	for _, rec := range records {
		receipts = append(receipts, fromRecord(rec))
	}
	return receipts, nil
}
