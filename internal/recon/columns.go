// Package recon implements the bank record normalizer and the receipt
// matching engine.
package recon

import (
	"regexp"
	"strings"
)

// ColumnRule matches one column out of an ordered header list. Rules are
// evaluated in a fixed order so detection stays auditable: exact-name rules
// first, substring fallbacks second.
type ColumnRule interface {
	// Match returns the first column satisfying the rule.
	Match(columns []string) (string, bool)
}

// ExactRule matches a column whose cleaned name is a member of a known set.
type ExactRule struct {
	Names []string
}

// Match implements ColumnRule.
func (r ExactRule) Match(columns []string) (string, bool) {
	for _, c := range columns {
		for _, n := range r.Names {
			if c == n {
				return c, true
			}
		}
	}
	return "", false
}

// SubstringRule matches the first column whose cleaned name contains the
// term, case-insensitively.
type SubstringRule struct {
	Term string
}

// Match implements ColumnRule.
func (r SubstringRule) Match(columns []string) (string, bool) {
	term := strings.ToLower(r.Term)
	for _, c := range columns {
		if strings.Contains(strings.ToLower(c), term) {
			return c, true
		}
	}
	return "", false
}

var (
	dateRules = []ColumnRule{
		ExactRule{Names: []string{"Date", "Transaction Date", "Posting Date", "Value Date", "Statement Date"}},
		SubstringRule{Term: "date"},
	}

	amountRules = []ColumnRule{
		ExactRule{Names: []string{"Amount", "Transaction Amount", "Amt"}},
		SubstringRule{Term: "amount"},
	}

	debitRules = []ColumnRule{
		ExactRule{Names: []string{"Debit", "Withdrawal", "Withdrawals", "Outflow", "Paid Out", "Money Out"}},
		SubstringRule{Term: "debit"},
		SubstringRule{Term: "withdraw"},
		SubstringRule{Term: "outflow"},
		SubstringRule{Term: "paid out"},
		SubstringRule{Term: "money out"},
	}

	creditRules = []ColumnRule{
		ExactRule{Names: []string{"Credit", "Deposit", "Deposits", "Inflow", "Paid In", "Money In"}},
		SubstringRule{Term: "credit"},
		SubstringRule{Term: "deposit"},
		SubstringRule{Term: "inflow"},
		SubstringRule{Term: "paid in"},
		SubstringRule{Term: "money in"},
	}
)

func matchFirst(rules []ColumnRule, columns []string) (string, bool) {
	for _, rule := range rules {
		if col, ok := rule.Match(columns); ok {
			return col, true
		}
	}
	return "", false
}

var innerSpaces = regexp.MustCompile(`\s+`)

// CleanColumnName normalizes one header cell: whitespace trimmed, leading
// marker characters ('*', '#', bullet glyphs) stripped, internal whitespace
// runs collapsed. "*Date" becomes "Date".
func CleanColumnName(name string) string {
	n := strings.TrimSpace(name)
	for {
		stripped := false
		for _, marker := range []string{"*", "#", "·", "•"} {
			if strings.HasPrefix(n, marker) {
				n = strings.TrimSpace(strings.TrimPrefix(n, marker))
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}
	return innerSpaces.ReplaceAllString(n, " ")
}

// CleanColumnNames normalizes all headers, preserving order.
func CleanColumnNames(columns []string) []string {
	cleaned := make([]string, len(columns))
	for i, c := range columns {
		cleaned[i] = CleanColumnName(c)
	}
	return cleaned
}
