// Package currencyutils provides amount parsing and the monetary rounding
// rules used throughout the application.
package currencyutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency codes and symbols stripped before parsing. Bank exports in this
// domain frequently embed the currency code in the amount cell ("BHD 250.000").
var currencyToken = regexp.MustCompile(`(?i)\b(BHD|CHF|EUR|USD|GBP|AED|SAR|KWD|QAR|OMR|JPY)\b|[€$£¥]`)

// StandardizeAmount converts an amount cell to a form decimal can parse:
// currency codes and symbols removed, thousands separators dropped,
// non-breaking spaces normalized.
func StandardizeAmount(amountStr string) string {
	s := currencyToken.ReplaceAllString(amountStr, "")
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.TrimSpace(s)
	// Parenthesized negatives: (123.45) -> -123.45
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.Trim(s, "()")
	}
	return s
}

// ParseAmountSafe parses an amount cell. Empty, placeholder and unparseable
// values yield nil rather than an error; per-row amount failures never abort
// a run.
func ParseAmountSafe(val string) *decimal.Decimal {
	s := StandardizeAmount(val)
	if s == "" {
		return nil
	}
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return nil
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &amount
}

// Round2 rounds a monetary value to 2 decimal places, half-up. All monetary
// comparisons and payload amounts go through this first so binary float
// drift never decides an equality check.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// RoundRate6 rounds an FX rate to 6 decimal places, half-up.
func RoundRate6(v decimal.Decimal) decimal.Decimal {
	return v.Round(6)
}

// FormatAmount renders an amount with two decimals and an optional currency
// code prefix.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixed(2)
	if currency == "" {
		return formatted
	}
	return strings.ToUpper(currency) + " " + formatted
}
