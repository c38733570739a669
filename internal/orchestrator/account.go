// Package orchestrator turns caller-declared reconciliation decisions into
// idempotent, audited ledger postings.
package orchestrator

import (
	"strings"

	"github.com/JB-QBA/bank-recon-agent/internal/models"
	"github.com/JB-QBA/bank-recon-agent/internal/reconerror"
)

// ResolveBankAccount chooses the bank account a batch posts against: the
// first active bank-type account whose name+code contains the hint
// (case-insensitive), or the first active bank-type account in directory
// order when the hint is empty or matches nothing.
func ResolveBankAccount(accounts []models.Account, hint string) (models.Account, error) {
	candidates := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Type == "BANK" && a.Status == "ACTIVE" {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return models.Account{}, &reconerror.NoAccountError{Hint: hint}
	}

	if hint != "" {
		needle := strings.ToLower(hint)
		for _, a := range candidates {
			hay := strings.ToLower(a.Name + " " + a.Code)
			if strings.Contains(hay, needle) {
				return a, nil
			}
		}
	}

	return candidates[0], nil
}
