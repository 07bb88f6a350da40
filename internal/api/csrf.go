package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

const csrfHeader = "X-CSRF-Token"

// csrfManager caches the anti-forgery token issued by the server and hands it
// out for state-changing requests.
type csrfManager struct {
	httpClient *http.Client
	baseURL    string
	mu         sync.Mutex
	token      string
}

func newCSRFManager(baseURL string, httpClient *http.Client) *csrfManager {
	return &csrfManager{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Token returns the cached token, fetching it on first use. With refresh set,
// the cache is discarded and a fresh token issued.
func (m *csrfManager) Token(ctx context.Context, refresh bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && !refresh {
		return m.token, nil
	}

	token, err := m.fetch(ctx)
	if err != nil {
		return "", err
	}
	m.token = token
	return token, nil
}

func (m *csrfManager) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/api/csrf-token", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build csrf request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("csrf token fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("csrf token endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read csrf response: %w", err)
	}

	var payload struct {
		CSRFToken string `json:"csrf_token"`
		Token     string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode csrf response: %w", err)
	}

	token := payload.CSRFToken
	if token == "" {
		token = payload.Token
	}
	if token == "" {
		return "", fmt.Errorf("csrf token endpoint returned an empty token")
	}

	return token, nil
}
