// Package receipts manages the receipt repository: capturing receipts from
// extracted document text and persisting them between sessions.
package receipts

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

var log = logrus.New()

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Store persists receipts to a single YAML file. Safe for concurrent use
// within one process; the file is rewritten whole on every mutation.
type Store struct {
	Path string
	mu   sync.Mutex
}

// NewStore creates a receipt store backed by the given YAML file.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

type receiptsFile struct {
	Receipts []receiptRecord `yaml:"receipts"`
}

// Add assigns the receipt an id and upload timestamp, appends it to the
// repository and returns the stored copy.
func (s *Store) Add(r models.Receipt) (models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return models.Receipt{}, err
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.UploadedAt.IsZero() {
		r.UploadedAt = time.Now().UTC()
	}

	existing = append(existing, r)
	if err := s.save(existing); err != nil {
		return models.Receipt{}, err
	}

	log.WithFields(logrus.Fields{
		"id":       r.ID,
		"filename": r.Filename,
	}).Debug("Stored receipt")
	return r, nil
}

// List returns all stored receipts in insertion order. A missing repository
// file is an empty repository, not an error.
func (s *Store) List() ([]models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Clear removes every stored receipt and returns how many were removed.
func (s *Store) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		return 0, nil
	}
	if err := s.save(nil); err != nil {
		return 0, err
	}
	return len(existing), nil
}

func (s *Store) load() ([]models.Receipt, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading receipts file: %w", err)
	}

	var file receiptsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing receipts file: %w", err)
	}
	receipts := make([]models.Receipt, 0, len(file.Receipts))
	for _, rec := range file.Receipts {
		receipts = append(receipts, fromRecord(rec))
	}
	return receipts, nil
}

func (s *Store) save(receipts []models.Receipt) error {
	records := make([]receiptRecord, 0, len(receipts))
	for _, r := range receipts {
		records = append(records, toRecord(r))
	}
	data, err := yaml.Marshal(receiptsFile{Receipts: records})
	if err != nil {
		return fmt.Errorf("error serializing receipts: %w", err)
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating receipts directory: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0640); err != nil {
		return fmt.Errorf("error writing receipts file: %w", err)
	}
	return nil
}
