// Package audit maintains the append-only posting log: one JSON line per
// posted bank line, the sole durable record correlating a bank line to what
// was sent to the ledger.
package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Log appends audit records to a newline-delimited JSON file. Appends from
// concurrent batch submissions interleave whole lines: the file is opened in
// append mode and each record is one write.
type Log struct {
	Path string

	mu sync.Mutex
}

// NewLog creates an audit log writing to the given path.
func NewLog(path string) *Log {
	return &Log{Path: path}
}

// Append writes the records to the log, one JSON line each. Nothing is ever
// rewritten or deleted; ordering is append order.
func (l *Log) Append(records []models.AuditRecord) error {
	if len(records) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.Path), 0750); err != nil {
		return fmt.Errorf("error creating audit directory: %w", err)
	}

	file, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("error opening audit log: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close audit log")
		}
	}()

	for _, r := range records {
		line, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("error encoding audit record for %s: %w", r.BankLineID, err)
		}
		if _, err := file.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("error appending audit record for %s: %w", r.BankLineID, err)
		}
	}

	log.WithFields(logrus.Fields{
		"file":  l.Path,
		"count": len(records),
	}).Info("Appended audit records")
	return nil
}

// Read returns every record in append order. Used by tests and review
// tooling, never by the posting path.
func (l *Log) Read() ([]models.AuditRecord, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading audit log: %w", err)
	}

	var records []models.AuditRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var r models.AuditRecord
		if err := dec.Decode(&r); err != nil {
			return nil, fmt.Errorf("error decoding audit log: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}
