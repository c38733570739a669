package recon

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

// ReadBankTable reads a raw bank export from a CSV stream. Headers come from
// the first row as the bank produced them; gocsv does not fit here because
// the column set is unknowable at compile time.
func ReadBankTable(r io.Reader) (models.BankTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports often have ragged trailing cells

	rows, err := reader.ReadAll()
	if err != nil {
		return models.BankTable{}, fmt.Errorf("error reading bank CSV: %w", err)
	}
	if len(rows) == 0 {
		return models.BankTable{}, fmt.Errorf("bank CSV is empty")
	}

	return models.BankTable{Columns: rows[0], Rows: rows[1:]}, nil
}

// LoadBankTableCSV reads a raw bank export from a CSV file.
func LoadBankTableCSV(path string) (models.BankTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.BankTable{}, fmt.Errorf("error opening bank CSV: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	return ReadBankTable(file)
}
