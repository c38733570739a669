package models

// MatchOutcome is the result recorded against one bank record after a
// matching run.
type MatchOutcome string

const (
	// OutcomeMatched means exactly one unused receipt fit and was consumed.
	OutcomeMatched MatchOutcome = "Matched via Receipt"
	// OutcomeNoReceiptFound means no receipt was within tolerance.
	OutcomeNoReceiptFound MatchOutcome = "No Receipt Found"
	// OutcomeMultipleCandidates means more than one unused receipt fit;
	// nothing was consumed and the candidates are surfaced for review.
	OutcomeMultipleCandidates MatchOutcome = "Multiple Receipt Candidates – Review"
	// OutcomeDuplicateReceiptUse means every fitting receipt was already
	// consumed earlier in the run.
	OutcomeDuplicateReceiptUse MatchOutcome = "Duplicate Receipt Use – Review"
	// OutcomeNoAmount means the bank row had no parseable amount.
	OutcomeNoAmount MatchOutcome = "No Amount – Skip"
)

// MatchSummary aggregates one matching run.
type MatchSummary struct {
	BankRows            int    `json:"bank_rows"`
	Matched             int    `json:"matched"`
	NoCandidates        int    `json:"no_candidates"`
	MultiCandidates     int    `json:"multi_candidates"`
	DuplicateReceiptUse int    `json:"duplicate_receipt_use"`
	DateColumn          string `json:"bank_date_column"`
	AmountColumn        string `json:"bank_amount_column"`
}
