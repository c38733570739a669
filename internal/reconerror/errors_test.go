package reconerror

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMissingColumnError(t *testing.T) {
	tests := []struct {
		name     string
		err      *MissingColumnError
		expected string
	}{
		{
			name:     "missing date column",
			err:      &MissingColumnError{Kind: "date"},
			expected: "could not detect a date column in the uploaded table",
		},
		{
			name:     "missing amount column",
			err:      &MissingColumnError{Kind: "amount"},
			expected: "could not detect an Amount or Debit/Credit columns in the uploaded table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAmountMismatchError(t *testing.T) {
	err := &AmountMismatchError{
		BankLineID:   "L-7",
		ForeignTotal: decimal.NewFromFloat(99.00),
		LocalTotal:   decimal.NewFromFloat(100.00),
		Tolerance:    decimal.NewFromFloat(0.01),
	}

	msg := err.Error()
	assert.Contains(t, msg, "L-7")
	assert.Contains(t, msg, "99")
	assert.Contains(t, msg, "100")
	assert.Contains(t, msg, "0.01")
}

func TestMissingContactError(t *testing.T) {
	err := &MissingContactError{BankLineID: "line-42"}
	assert.Contains(t, err.Error(), "line-42")
	assert.Contains(t, err.Error(), "contact_id")
}

func TestUnknownLineTypeError(t *testing.T) {
	err := &UnknownLineTypeError{BankLineID: "line-1", Kind: "transfer"}
	assert.Equal(t, "[line-1] unknown line type: transfer", err.Error())
}

func TestAuthUnavailableError_Unwrap(t *testing.T) {
	underlying := errors.New("token file missing")
	err := &AuthUnavailableError{Reason: "no stored tokens", Err: underlying}

	assert.True(t, errors.Is(err, underlying))
	assert.Contains(t, err.Error(), "no stored tokens")

	bare := &AuthUnavailableError{Reason: "no tenant connected"}
	assert.Nil(t, bare.Unwrap())
	assert.Equal(t, "credentials unavailable: no tenant connected", bare.Error())
}

func TestLedgerRejectedError(t *testing.T) {
	err := &LedgerRejectedError{Endpoint: "Payments", StatusCode: 400, Detail: "validation failed"}
	assert.Equal(t, "ledger rejected Payments with status 400: validation failed", err.Error())
}

func TestErrorTypeAssertions(t *testing.T) {
	var err error = &NoAccountError{Hint: "chf"}

	var target *NoAccountError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "chf", target.Hint)
}
