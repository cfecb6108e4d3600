package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/pkg/dto"
)

// TestJWTService creates a JWTService with test configuration
func TestJWTService() *services.JWTService {
	return services.NewJWTService(
		"test-secret-key-for-testing-only",
		15*time.Minute,
		24*time.Hour,
	)
}

// APIClient drives an http.Handler the way a signed-in browser would.
type APIClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func NewAPIClient(t *testing.T, handler http.Handler) *APIClient {
	return &APIClient{t: t, handler: handler}
}

// As returns a client for the same handler that sends token as a bearer.
func (c *APIClient) As(token string) *APIClient {
	return &APIClient{t: c.t, handler: c.handler, token: token}
}

func (c *APIClient) Do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("failed to marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

// SignIn posts credentials to path and returns a client carrying the new
// access token along with the session.
func (c *APIClient) SignIn(path, email, password string) (*APIClient, dto.SessionResponse) {
	c.t.Helper()

	rec := c.Do(http.MethodPost, path, dto.SignInRequest{Email: email, Password: password})
	AssertStatus(c.t, rec, http.StatusOK)

	var session dto.SessionResponse
	ParseJSON(c.t, rec, &session)
	return c.As(session.AccessToken), session
}

// ParseJSON parses the response body as JSON
func ParseJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to parse response JSON: %v", err)
	}
}

// AssertStatus fails the test now when the status differs, printing the body.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rec.Code != expected {
		t.Fatalf("expected status %d, got %d. Body: %s", expected, rec.Code, rec.Body.String())
	}
}

// AccessAs builds the effective access of a stored role and permission grant
// with no overrides.
func AccessAs(role access.Role, perms ...access.Permission) access.Effective {
	return access.Compute(access.Resolution{Role: role, Permissions: access.NewPermissionSet(perms...)}, access.Overrides{})
}
