//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"vcissuer/internal/idalias"
	"vcissuer/pkg/domain"
	"vcissuer/pkg/platform/middleware/caller"
)

const authorityID = "https://identity.e2e.vcissuer.local"

// TestContext holds state between the steps of one scenario.
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	Tokens           *caller.Tokens
	Controller       domain.Principal
	LastResponse     *http.Response
	LastResponseBody []byte

	// RunID keeps principals and event names unique across runs against
	// the same server.
	RunID     string
	Authority *idalias.Authority
	Subject   domain.Principal
	Alias     domain.Principal
	Signed    idalias.SignedIdAlias

	JoinedYear      int
	Events          map[string]string
	Spec            map[string]any
	PreparedContext []byte
	VcJws           string
}

func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL: env("BASE_URL", "http://localhost:8080"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Tokens:     caller.NewTokens(env("E2E_CALLER_TOKEN_KEY", "dev-secret-key-change-in-production"), "", time.Hour),
		Controller: domain.Principal(env("E2E_CONTROLLER", "aaaaa-aa")),
		RunID:      uuid.NewString()[:8],
		Events:     map[string]string{},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// unique scopes a name to this scenario run.
func (tc *TestContext) unique(name string) string {
	return name + "-" + tc.RunID
}

// POST sends body as principal; an empty principal sends no token.
func (tc *TestContext) POST(path string, body any, as domain.Principal) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, tc.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return tc.do(req, as)
}

func (tc *TestContext) GET(path string, as domain.Principal) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return tc.do(req, as)
}

func (tc *TestContext) do(req *http.Request, as domain.Principal) error {
	if as != "" {
		token, err := tc.Tokens.Issue(as, time.Now())
		if err != nil {
			return fmt.Errorf("failed to issue caller token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// decode unmarshals the last response body into v.
func (tc *TestContext) decode(v any) error {
	if err := json.Unmarshal(tc.LastResponseBody, v); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w\nResponse: %s", err, tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) expectStatus(status int) error {
	if tc.LastResponse == nil {
		return fmt.Errorf("no response recorded")
	}
	if tc.LastResponse.StatusCode != status {
		return fmt.Errorf("expected status %d but got %d\nResponse: %s", status, tc.LastResponse.StatusCode, tc.LastResponseBody)
	}
	return nil
}
