package receipts

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

const sampleReceiptText = `ACME TRADING W.L.L.
Manama, Bahrain
Date: 11/07/2025
Ref: INV-2041
Subtotal 95.00
VAT 5.00
Total 1,250.00`

func TestExtractFields(t *testing.T) {
	t.Run("amount takes the last money token", func(t *testing.T) {
		fields := ExtractFields(sampleReceiptText)
		assert.Equal(t, "1,250.00", fields.Amount)
	})

	t.Run("date and reference", func(t *testing.T) {
		fields := ExtractFields(sampleReceiptText)
		assert.Equal(t, "11/07/2025", fields.Date)
		assert.Equal(t, "Ref: INV-2041", fields.Reference)
	})

	t.Run("month name dates are recognized", func(t *testing.T) {
		fields := ExtractFields("Paid on 3 July 2025\nTotal 10.00")
		assert.Equal(t, "3 July 2025", fields.Date)
	})

	t.Run("empty text yields empty fields", func(t *testing.T) {
		fields := ExtractFields("")
		assert.Empty(t, fields.Amount)
		assert.Empty(t, fields.Date)
		assert.Empty(t, fields.Reference)
	})
}

func TestFromText(t *testing.T) {
	r := FromText("receipt-1.jpg", "upload", sampleReceiptText)

	assert.Equal(t, "receipt-1.jpg", r.Filename)
	assert.Equal(t, "upload", r.Source)
	require.NotNil(t, r.Amount)
	assert.Equal(t, "1250", r.Amount.String())
	require.NotNil(t, r.Date)
	assert.Equal(t, time.Date(2025, time.July, 11, 0, 0, 0, 0, time.UTC), *r.Date)
	assert.Equal(t, "Ref: INV-2041", r.Reference)
	assert.Equal(t, sampleReceiptText, r.RawText)

	t.Run("unextractable amount stays nil", func(t *testing.T) {
		r := FromText("blurry.jpg", "upload", "illegible scan")
		assert.Nil(t, r.Amount)
		assert.Nil(t, r.Date)
	})
}

func TestStore(t *testing.T) {
	newStore := func(t *testing.T) *Store {
		return NewStore(filepath.Join(t.TempDir(), "receipts.yaml"))
	}

	t.Run("add assigns id and timestamp", func(t *testing.T) {
		s := newStore(t)
		stored, err := s.Add(FromText("r1.jpg", "upload", sampleReceiptText))
		require.NoError(t, err)
		assert.NotEmpty(t, stored.ID)
		assert.False(t, stored.UploadedAt.IsZero())
	})

	t.Run("list returns insertion order and survives reopen", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Add(models.Receipt{Filename: "a.jpg"})
		require.NoError(t, err)
		_, err = s.Add(models.Receipt{Filename: "b.jpg"})
		require.NoError(t, err)

		reopened := NewStore(s.Path)
		receipts, err := reopened.List()
		require.NoError(t, err)
		require.Len(t, receipts, 2)
		assert.Equal(t, "a.jpg", receipts[0].Filename)
		assert.Equal(t, "b.jpg", receipts[1].Filename)
		assert.NotEqual(t, receipts[0].ID, receipts[1].ID)
	})

	t.Run("missing file lists empty", func(t *testing.T) {
		s := newStore(t)
		receipts, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, receipts)
	})

	t.Run("clear reports removed count", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Add(models.Receipt{Filename: "a.jpg"})
		require.NoError(t, err)
		_, err = s.Add(models.Receipt{Filename: "b.jpg"})
		require.NoError(t, err)

		n, err := s.Clear()
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		receipts, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, receipts)

		n, err = s.Clear()
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestCSVRoundTrip(t *testing.T) {
	original := []models.Receipt{
		FromText("r1.jpg", "upload", sampleReceiptText),
		{Filename: "manual.jpg", Source: "manual"},
	}
	original[0].ID = "id-1"
	original[1].ID = "id-2"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(original, &buf))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Contains(t, header, "Amount")
	assert.NotContains(t, header, "RawText")

	parsed, err := ReadCSV(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "id-1", parsed[0].ID)
	require.NotNil(t, parsed[0].Amount)
	assert.True(t, parsed[0].Amount.Equal(*original[0].Amount))
	assert.Nil(t, parsed[1].Amount)
}
