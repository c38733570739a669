package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

func record(lineID, kind string) models.AuditRecord {
	return models.AuditRecord{
		TS:         time.Now().UTC(),
		BankLineID: lineID,
		Type:       kind,
		Request:    map[string]string{"Date": "2025-07-11"},
		Posted:     models.PostedFlags{Payments: true},
	}
}

func TestAppendAndRead(t *testing.T) {
	l := NewLog(filepath.Join(t.TempDir(), "exports", "post_log.jsonl"))

	require.NoError(t, l.Append([]models.AuditRecord{
		record("L1", models.PreviewTypePayment),
		record("L2", models.PreviewTypeBankTxn),
	}))
	require.NoError(t, l.Append([]models.AuditRecord{
		record("L3", models.PreviewTypePayment),
	}))

	records, err := l.Read()
	require.NoError(t, err)
	require.Len(t, records, 3)
	// Ordering is append order.
	assert.Equal(t, "L1", records[0].BankLineID)
	assert.Equal(t, "L3", records[2].BankLineID)
	assert.True(t, records[0].Posted.Payments)
}

func TestAppend_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post_log.jsonl")
	l := NewLog(path)

	require.NoError(t, l.Append(nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "empty append must not create the file")
}

func TestAppend_OneLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post_log.jsonl")
	l := NewLog(path)
	require.NoError(t, l.Append([]models.AuditRecord{record("L1", "payment"), record("L2", "banktxn")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "{"))
		assert.True(t, strings.HasSuffix(line, "}"))
	}
}

func TestAppend_ConcurrentWritersDoNotCorrupt(t *testing.T) {
	l := NewLog(filepath.Join(t.TempDir(), "post_log.jsonl"))

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				err := l.Append([]models.AuditRecord{record(fmt.Sprintf("W%d-%d", w, i), "payment")})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	records, err := l.Read()
	require.NoError(t, err)
	assert.Len(t, records, writers*perWriter)

	seen := make(map[string]bool)
	for _, r := range records {
		assert.False(t, seen[r.BankLineID], "duplicate audit line %s", r.BankLineID)
		seen[r.BankLineID] = true
	}
}

func TestRead_MissingFile(t *testing.T) {
	l := NewLog(filepath.Join(t.TempDir(), "absent.jsonl"))
	records, err := l.Read()
	require.NoError(t, err)
	assert.Nil(t, records)
}
