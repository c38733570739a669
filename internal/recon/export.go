package recon

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

// Match columns appended to the enriched export, after the original columns.
var matchColumns = []string{
	"MatchedReceiptID",
	"MatchedReceiptRef",
	"MatchedReceiptDate",
	"MatchedReceiptFile",
	"ReceiptCandidates",
	"ReviewStatus_Receipt",
}

// WriteEnrichedCSV writes the matched record set to a CSV file: the original
// columns in their original order, untouched, followed by the match columns.
func WriteEnrichedCSV(records []models.BankRecord, columns []string, csvFile string) error {
	cleaned := CleanColumnNames(columns)

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	w := csv.NewWriter(file)

	header := append(append([]string{}, cleaned...), matchColumns...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, rec := range records {
		row := make([]string, 0, len(header))
		for _, c := range cleaned {
			row = append(row, rec.Fields[c])
		}
		row = append(row,
			rec.MatchedReceiptID,
			rec.MatchedReceiptRef,
			rec.MatchedReceiptDate,
			rec.MatchedReceiptFile,
			strings.Join(rec.Candidates, ";"),
			string(rec.Outcome),
		)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("error flushing CSV: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file": csvFile,
		"rows": len(records),
	}).Info("Wrote enriched bank CSV")
	return nil
}
