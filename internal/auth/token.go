// Package auth provides the credential source for the external ledger:
// token persistence, refresh-before-expiry, and tenant resolution. The
// source is an explicit dependency handed to the ledger client, never
// ambient global state.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JB-QBA/bank-recon-agent/internal/reconerror"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Tokens refresh slightly early so an expiring token is never sent.
const expiryBuffer = 60 * time.Second

// CredentialSource supplies a valid access token and the tenant the calls
// run against.
type CredentialSource interface {
	AccessToken(ctx context.Context) (string, error)
	TenantID(ctx context.Context) (string, error)
}

// StaticCredentials is a CredentialSource with fixed values, used in tests
// and for pre-issued tokens.
type StaticCredentials struct {
	Token  string
	Tenant string
}

// AccessToken implements CredentialSource.
func (s StaticCredentials) AccessToken(ctx context.Context) (string, error) {
	if s.Token == "" {
		return "", &reconerror.AuthUnavailableError{Reason: "no access token configured"}
	}
	return s.Token, nil
}

// TenantID implements CredentialSource.
func (s StaticCredentials) TenantID(ctx context.Context) (string, error) {
	if s.Tenant == "" {
		return "", &reconerror.AuthUnavailableError{Reason: "no tenant id configured"}
	}
	return s.Tenant, nil
}

// tokenFile is the persisted token state. The identity provider rotates the
// refresh token on every refresh, so the whole record is rewritten each time.
type tokenFile struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
	TenantID     string `json:"tenant_id,omitempty"`
}

// FileTokenSource is a CredentialSource backed by a token file. It refreshes
// the access token against the identity endpoint when the stored one is
// within the expiry buffer, persisting the rotated refresh token. Tenant
// resolution prefers an explicit override, then the cached file value, then
// a connections lookup whose result is cached.
type FileTokenSource struct {
	Path           string
	ClientID       string
	ClientSecret   string
	IdentityURL    string
	ConnectionsURL string
	TenantOverride string

	HTTPClient *http.Client

	mu sync.Mutex
}

// NewFileTokenSource creates a file-backed credential source.
func NewFileTokenSource(path, clientID, clientSecret, identityURL, connectionsURL string) *FileTokenSource {
	return &FileTokenSource{
		Path:           path,
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		IdentityURL:    identityURL,
		ConnectionsURL: connectionsURL,
		HTTPClient:     &http.Client{Timeout: 60 * time.Second},
	}
}

// AccessToken returns a valid access token, refreshing first when the stored
// token expires within the buffer.
func (s *FileTokenSource) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil {
		return "", &reconerror.AuthUnavailableError{Reason: "no stored tokens; complete authorization first", Err: err}
	}

	if time.Unix(tokens.ExpiresAt, 0).Before(time.Now().Add(expiryBuffer)) {
		log.Debug("Access token expiring, refreshing")
		tokens, err = s.refresh(ctx, tokens)
		if err != nil {
			return "", err
		}
	}

	return tokens.AccessToken, nil
}

// TenantID returns the tenant the ledger calls run against.
func (s *FileTokenSource) TenantID(ctx context.Context) (string, error) {
	if s.TenantOverride != "" {
		return s.TenantOverride, nil
	}

	s.mu.Lock()
	tokens, err := s.load()
	s.mu.Unlock()
	if err == nil && tokens.TenantID != "" {
		return tokens.TenantID, nil
	}

	token, err := s.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	tenantID, err := s.lookupTenant(ctx, token)
	if err != nil {
		return "", err
	}

	// Cache for next calls.
	s.mu.Lock()
	defer s.mu.Unlock()
	if tokens, err := s.load(); err == nil {
		tokens.TenantID = tenantID
		if err := s.save(tokens); err != nil {
			log.WithError(err).Warn("Failed to cache tenant id")
		}
	}

	return tenantID, nil
}

func (s *FileTokenSource) load() (*tokenFile, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tokens tokenFile
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &tokens, nil
}

func (s *FileTokenSource) save(tokens *tokenFile) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	if err := os.WriteFile(s.Path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// refresh exchanges the refresh token for a fresh access token and persists
// the rotated pair. Caller holds the mutex.
func (s *FileTokenSource) refresh(ctx context.Context, tokens *tokenFile) (*tokenFile, error) {
	if tokens.RefreshToken == "" {
		return nil, &reconerror.AuthUnavailableError{Reason: "stored tokens have no refresh token"}
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {tokens.RefreshToken},
		"client_id":     {s.ClientID},
		"client_secret": {s.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.IdentityURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &reconerror.AuthUnavailableError{Reason: "building refresh request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, &reconerror.AuthUnavailableError{Reason: "token refresh request failed", Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &reconerror.AuthUnavailableError{
			Reason: fmt.Sprintf("token refresh rejected with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var refreshed tokenFile
	if err := json.Unmarshal(body, &refreshed); err != nil {
		return nil, &reconerror.AuthUnavailableError{Reason: "parsing refresh response", Err: err}
	}

	if refreshed.ExpiresIn == 0 {
		refreshed.ExpiresIn = 1800
	}
	refreshed.ExpiresAt = time.Now().Unix() + refreshed.ExpiresIn
	// Preserve cached tenant across rotations.
	refreshed.TenantID = tokens.TenantID

	if err := s.save(&refreshed); err != nil {
		return nil, &reconerror.AuthUnavailableError{Reason: "persisting refreshed tokens", Err: err}
	}

	log.Debug("Access token refreshed")
	return &refreshed, nil
}

// connection is one entry of the connections listing.
type connection struct {
	TenantID string `json:"tenantId"`
}

func (s *FileTokenSource) lookupTenant(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ConnectionsURL, nil)
	if err != nil {
		return "", &reconerror.AuthUnavailableError{Reason: "building connections request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", &reconerror.AuthUnavailableError{Reason: "connections request failed", Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &reconerror.AuthUnavailableError{
			Reason: fmt.Sprintf("connections lookup rejected with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var conns []connection
	if err := json.Unmarshal(body, &conns); err != nil {
		return "", &reconerror.AuthUnavailableError{Reason: "parsing connections response", Err: err}
	}
	if len(conns) == 0 {
		return "", &reconerror.AuthUnavailableError{Reason: "no tenant connected to this token"}
	}

	return conns[0].TenantID, nil
}
