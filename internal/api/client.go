// Package api provides the HTTP client for the TallyUps server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tallyups/tally/internal/common"
	"github.com/tallyups/tally/internal/model"
)

// Config holds TallyUps server connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("server base URL is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("server base URL must start with http:// or https://")
	}
	return nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Body   string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
}

// Client talks JSON over HTTP to the TallyUps server. State-changing requests
// carry the anti-forgery token; a rejected token is refreshed and the request
// retried exactly once.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	csrf       *csrfManager
	errLog     *common.ErrorLog
	retryOpts  common.RetryOptions
	baseURL    string
}

// NewClient creates a client for the given server.
func NewClient(cfg Config, errLog *common.ErrorLog) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if errLog == nil {
		errLog = common.NewErrorLog(common.DefaultErrorLogCapacity)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     common.ComponentLogger("api"),
		errLog:     errLog,
		csrf:       newCSRFManager(cfg.BaseURL, httpClient),
		retryOpts: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// Errors exposes the bounded log of recent request failures.
func (c *Client) Errors() *common.ErrorLog {
	return c.errLog
}

// GetTransactions fetches the full canonical transaction list and normalizes
// each record into the typed model.
func (c *Client) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	var raw []map[string]any

	retryErr := common.WithRetry(ctx, func() error {
		raw = nil
		if err := c.do(ctx, http.MethodGet, "/api/transactions", nil, &raw); err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Status < 500 {
				return err
			}
			return &common.RetryableError{Err: err, Retryable: true}
		}
		return nil
	}, c.retryOpts)
	if retryErr != nil {
		c.errLog.Record("load transactions", retryErr)
		return nil, common.NewUserError("could not load transactions", retryErr)
	}

	transactions := make([]model.Transaction, 0, len(raw))
	for _, obj := range raw {
		transactions = append(transactions, model.Normalize(obj))
	}

	c.logger.Info("Loaded transactions", "count", len(transactions))
	return transactions, nil
}

// UpdateRow patches one transaction's fields by id.
func (c *Client) UpdateRow(ctx context.Context, id int, patch map[string]string) error {
	body := map[string]any{
		"_index": id,
		"patch":  patch,
	}
	if err := c.do(ctx, http.MethodPost, "/update_row", body, nil); err != nil {
		c.errLog.Record("update row", err)
		return err
	}
	return nil
}

// MatchResult is the outcome of an AI receipt match.
type MatchResult struct {
	Receipt    string  `json:"receipt"`
	Confidence float64 `json:"confidence"`
	Matched    bool    `json:"matched"`
}

// AIMatch requests an AI receipt match for a transaction.
func (c *Client) AIMatch(ctx context.Context, id int) (MatchResult, error) {
	var result MatchResult
	if err := c.do(ctx, http.MethodPost, "/ai_match", map[string]any{"_index": id}, &result); err != nil {
		c.errLog.Record("ai match", err)
		return MatchResult{}, err
	}
	return result, nil
}

// GenerateNote requests an AI-generated note for a transaction.
func (c *Client) GenerateNote(ctx context.Context, id int) (string, error) {
	var result struct {
		Note string `json:"note"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/notes/generate", map[string]any{"_index": id}, &result); err != nil {
		c.errLog.Record("generate note", err)
		return "", err
	}
	return result.Note, nil
}

// Categorize requests an AI business-type suggestion for a transaction.
func (c *Client) Categorize(ctx context.Context, id int) (string, error) {
	var result struct {
		BusinessType string `json:"business_type"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ai/categorize", map[string]any{"_index": id}, &result); err != nil {
		c.errLog.Record("categorize", err)
		return "", err
	}
	return result.BusinessType, nil
}

// GetBusinessTypes fetches the classification taxonomy.
func (c *Client) GetBusinessTypes(ctx context.Context) ([]model.BusinessType, error) {
	var result struct {
		Types []model.BusinessType `json:"types"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/settings/business-types", nil, &result); err != nil {
		c.errLog.Record("load business types", err)
		return nil, err
	}
	return result.Types, nil
}

// LinkStatus describes the server's bank-link state.
type LinkStatus struct {
	Institution string `json:"institution"`
	Linked      bool   `json:"linked"`
}

// GetLinkStatus reports whether a bank account is linked.
func (c *Client) GetLinkStatus(ctx context.Context) (LinkStatus, error) {
	var status LinkStatus
	if err := c.do(ctx, http.MethodGet, "/api/plaid/status", nil, &status); err != nil {
		return LinkStatus{}, err
	}
	return status, nil
}

// CreateLinkToken asks the server for a new bank-link token.
func (c *Client) CreateLinkToken(ctx context.Context) (string, error) {
	var result struct {
		LinkToken string `json:"link_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/plaid/link-token", map[string]any{}, &result); err != nil {
		return "", err
	}
	return result.LinkToken, nil
}

// ExchangeLinkToken completes the link flow with a public token.
func (c *Client) ExchangeLinkToken(ctx context.Context, publicToken string) error {
	body := map[string]any{"public_token": publicToken}
	return c.do(ctx, http.MethodPost, "/api/plaid/exchange", body, nil)
}

// RemoveLink disconnects the linked bank account.
func (c *Client) RemoveLink(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/plaid/item", nil, nil)
}

// do issues one request. State-changing methods carry the CSRF token; when
// the server rejects the token with a 400, the token is refreshed and the
// request replayed exactly once, never in a loop.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	status, respBody, err := c.send(ctx, method, path, body, false)
	if err != nil {
		return err
	}

	replayed := false
	if status == http.StatusBadRequest && isCSRFRejection(respBody) {
		c.logger.Warn("CSRF token rejected, refreshing once", "path", path)
		replayed = true
		status, respBody, err = c.send(ctx, method, path, body, true)
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		apiErr := &APIError{Status: status, Body: strings.TrimSpace(string(respBody))}
		switch {
		case status == http.StatusNotFound:
			return fmt.Errorf("%w: %w", common.ErrNotFound, apiErr)
		case replayed && status == http.StatusBadRequest && isCSRFRejection(respBody):
			// The fresh token was rejected too; the server session is gone.
			return fmt.Errorf("%w: %w", common.ErrCSRFRejected, apiErr)
		default:
			return apiErr
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", path, err)
		}
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any, refreshToken bool) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if stateChanging(method) {
		token, tokenErr := c.csrf.Token(ctx, refreshToken)
		if tokenErr != nil {
			return 0, nil, fmt.Errorf("failed to obtain csrf token: %w", tokenErr)
		}
		req.Header.Set(csrfHeader, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", common.ErrServerUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

func stateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func isCSRFRejection(body []byte) bool {
	return strings.Contains(strings.ToLower(string(body)), "csrf")
}

// Ensure Client implements the Service interface.
var _ Service = (*Client)(nil)
