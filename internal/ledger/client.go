// Package ledger provides the HTTP client for the external accounting
// ledger (a Xero-style API): account directory, invoice listing, and
// idempotent batch posting of payments and bank transactions.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JB-QBA/bank-recon-agent/internal/auth"
	"github.com/JB-QBA/bank-recon-agent/internal/models"
	"github.com/JB-QBA/bank-recon-agent/internal/reconerror"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Response is the ledger's answer to a batch post.
type Response struct {
	StatusCode int
	Body       map[string]any
}

// Invoice is one unpaid purchase bill from the ledger.
type Invoice struct {
	InvoiceID     string  `json:"InvoiceID"`
	InvoiceNumber string  `json:"InvoiceNumber"`
	ContactName   string  `json:"-"`
	AmountDue     float64 `json:"AmountDue"`
	DueDate       string  `json:"DueDate"`
}

// Client talks to the external ledger. Credentials are an injected
// dependency; the client attaches bearer auth and the tenant header to every
// request.
type Client struct {
	BaseURL     string
	Credentials auth.CredentialSource
	HTTPClient  *http.Client
}

// NewClient creates a ledger client with the given timeout.
func NewClient(baseURL string, creds auth.CredentialSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		Credentials: creds,
		HTTPClient:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, idemKey string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+"/"+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", endpoint, err)
	}

	token, err := c.Credentials.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	tenant, err := c.Credentials.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Xero-tenant-id", tenant)
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, endpoint string) (*Response, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &reconerror.LedgerRejectedError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(body)),
		}
	}

	decoded := make(map[string]any)
	if len(body) > 0 {
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, fmt.Errorf("parsing %s response: %w", endpoint, err)
		}
	}

	return &Response{StatusCode: resp.StatusCode, Body: decoded}, nil
}

// accountsEnvelope matches the directory listing shape.
type accountsEnvelope struct {
	Accounts []models.Account `json:"Accounts"`
}

// ListAccounts fetches the full account directory in directory order.
func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "Accounts", nil, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req, "Accounts")
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("re-encoding accounts response: %w", err)
	}
	var envelope accountsEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("parsing accounts response: %w", err)
	}

	log.WithField("count", len(envelope.Accounts)).Debug("Listed ledger accounts")
	return envelope.Accounts, nil
}

// invoicesEnvelope matches the invoice listing shape.
type invoicesEnvelope struct {
	Invoices []struct {
		InvoiceID     string  `json:"InvoiceID"`
		InvoiceNumber string  `json:"InvoiceNumber"`
		AmountDue     float64 `json:"AmountDue"`
		DueDate       string  `json:"DueDate"`
		Contact       struct {
			Name string `json:"Name"`
		} `json:"Contact"`
	} `json:"Invoices"`
}

// ListUnpaidInvoices fetches authorized purchase bills awaiting payment.
func (c *Client) ListUnpaidInvoices(ctx context.Context) ([]Invoice, error) {
	endpoint := `Invoices?where=Type=="ACCPAY"%26%26Status=="AUTHORISED"`
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req, "Invoices")
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("re-encoding invoices response: %w", err)
	}
	var envelope invoicesEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("parsing invoices response: %w", err)
	}

	invoices := make([]Invoice, 0, len(envelope.Invoices))
	for _, i := range envelope.Invoices {
		invoices = append(invoices, Invoice{
			InvoiceID:     i.InvoiceID,
			InvoiceNumber: i.InvoiceNumber,
			ContactName:   i.Contact.Name,
			AmountDue:     i.AmountDue,
			DueDate:       i.DueDate,
		})
	}
	return invoices, nil
}

// PaymentsBody is the batch envelope for invoice payments.
type PaymentsBody struct {
	Payments []models.Payment `json:"Payments"`
}

// BankTransactionsBody is the batch envelope for non-invoice movements.
type BankTransactionsBody struct {
	BankTransactions []models.BankTransaction `json:"BankTransactions"`
}

// PostPayments submits one batch of payments under the given idempotency
// key. A repeated key is a no-op on the ledger side.
func (c *Client) PostPayments(ctx context.Context, payments []models.Payment, idemKey string) (*Response, error) {
	body, err := json.Marshal(PaymentsBody{Payments: payments})
	if err != nil {
		return nil, fmt.Errorf("encoding payments body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "Payments", bytes.NewReader(body), idemKey)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"count":    len(payments),
		"idem_key": idemKey,
	}).Info("Posting payments batch")
	return c.do(req, "Payments")
}

// PostBankTransactions submits one batch of bank transactions under the
// given idempotency key.
func (c *Client) PostBankTransactions(ctx context.Context, txns []models.BankTransaction, idemKey string) (*Response, error) {
	body, err := json.Marshal(BankTransactionsBody{BankTransactions: txns})
	if err != nil {
		return nil, fmt.Errorf("encoding bank transactions body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "BankTransactions", bytes.NewReader(body), idemKey)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"count":    len(txns),
		"idem_key": idemKey,
	}).Info("Posting bank transactions batch")
	return c.do(req, "BankTransactions")
}
