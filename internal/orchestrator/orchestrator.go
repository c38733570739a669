package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JB-QBA/bank-recon-agent/internal/audit"
	"github.com/JB-QBA/bank-recon-agent/internal/ledger"
	"github.com/JB-QBA/bank-recon-agent/internal/models"
)

var log = logrus.New()

// SetLogger sets the logger used by this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Ledger is the subset of the ledger client the orchestrator needs.
type Ledger interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	PostPayments(ctx context.Context, payments []models.Payment, idemKey string) (*ledger.Response, error)
	PostBankTransactions(ctx context.Context, txns []models.BankTransaction, idemKey string) (*ledger.Response, error)
}

// Orchestrator validates payment batches and posts them to the ledger,
// recording an audit trail for every successful post.
type Orchestrator struct {
	Ledger Ledger
	Audit  *audit.Log
}

// New returns an orchestrator backed by the given ledger client and audit log.
func New(l Ledger, auditLog *audit.Log) *Orchestrator {
	return &Orchestrator{Ledger: l, Audit: auditLog}
}

// PreviewResult is the dry-run view of a batch: the resolved account and the
// exact artifacts a post would send, without touching the ledger.
type PreviewResult struct {
	Account  models.Account           `json:"account"`
	Payments []models.Payment         `json:"payments"`
	BankTxns []models.BankTransaction `json:"bank_transactions"`
	Preview  []models.PreviewItem     `json:"preview"`
}

// PostResult reports what a completed post sent and what the ledger answered.
type PostResult struct {
	Account         models.Account   `json:"account"`
	PaymentCount    int              `json:"payment_count"`
	BankTxnCount    int              `json:"bank_txn_count"`
	PaymentsResult  *ledger.Response `json:"payments_result,omitempty"`
	BankTxnsResult  *ledger.Response `json:"bank_txns_result,omitempty"`
	PaymentsIdemKey string           `json:"payments_idem_key,omitempty"`
	BankTxnsIdemKey string           `json:"bank_txns_idem_key,omitempty"`
}

// PreviewBatch resolves the bank account and builds the ledger artifacts for
// the batch without posting anything.
func (o *Orchestrator) PreviewBatch(ctx context.Context, batch models.Batch, accountHint string) (*PreviewResult, error) {
	accounts, err := o.Ledger.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	account, err := ResolveBankAccount(accounts, accountHint)
	if err != nil {
		return nil, err
	}

	built, err := ValidateAndBuild(batch, account.ID)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		Account:  account,
		Payments: built.Payments,
		BankTxns: built.BankTxns,
		Preview:  built.Preview,
	}, nil
}

// PostBatch validates the batch, posts its payments and bank transactions
// with deterministic idempotency keys, and appends the audit records once
// every post has succeeded. A rejected post leaves the audit log untouched.
func (o *Orchestrator) PostBatch(ctx context.Context, batch models.Batch, accountHint string) (*PostResult, error) {
	preview, err := o.PreviewBatch(ctx, batch, accountHint)
	if err != nil {
		return nil, err
	}
	account := preview.Account

	seed := accountHint
	if seed == "" {
		seed = account.Name + "/" + account.ID
	}

	result := &PostResult{
		Account:      account,
		PaymentCount: len(preview.Payments),
		BankTxnCount: len(preview.BankTxns),
	}
	posted := models.PostedFlags{}

	if len(preview.Payments) > 0 {
		body := ledger.PaymentsBody{Payments: preview.Payments}
		canonical, err := ledger.CanonicalJSON(body)
		if err != nil {
			return nil, err
		}
		result.PaymentsIdemKey = ledger.MakeIdemKey(seed, ledger.NamespacePayments, canonical)

		resp, err := o.Ledger.PostPayments(ctx, preview.Payments, result.PaymentsIdemKey)
		if err != nil {
			return nil, err
		}
		result.PaymentsResult = resp
		posted.Payments = true
		log.WithFields(logrus.Fields{
			"account":  account.Name,
			"payments": len(preview.Payments),
		}).Info("Posted payments")
	}

	if len(preview.BankTxns) > 0 {
		body := ledger.BankTransactionsBody{BankTransactions: preview.BankTxns}
		canonical, err := ledger.CanonicalJSON(body)
		if err != nil {
			return nil, err
		}
		result.BankTxnsIdemKey = ledger.MakeIdemKey(seed, ledger.NamespaceBankTxns, canonical)

		resp, err := o.Ledger.PostBankTransactions(ctx, preview.BankTxns, result.BankTxnsIdemKey)
		if err != nil {
			return nil, err
		}
		result.BankTxnsResult = resp
		posted.BankTxns = true
		log.WithFields(logrus.Fields{
			"account":           account.Name,
			"bank_transactions": len(preview.BankTxns),
		}).Info("Posted bank transactions")
	}

	if o.Audit != nil {
		records := make([]models.AuditRecord, 0, len(preview.Preview))
		now := time.Now().UTC()
		for _, item := range preview.Preview {
			records = append(records, models.AuditRecord{
				TS:         now,
				BankLineID: item.BankLineID,
				Type:       item.Type,
				Request:    item.Payload,
				Posted:     posted,
			})
		}
		if err := o.Audit.Append(records); err != nil {
			return nil, fmt.Errorf("failed to write audit log: %w", err)
		}
	}

	return result, nil
}
