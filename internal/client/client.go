// ABOUTME: HTTP client for the FileBox API backend
// ABOUTME: Attaches the stored bearer token and intercepts 401 responses globally

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Credentials is the client's view of the session store: a token to
// attach to outgoing requests, and a way to wipe the session when the
// server rejects that token.
type Credentials interface {
	Token() string
	Clear() error
}

// API is the operation surface of the FileBox backend. The concrete
// Client implements it; consumers accept this interface so tests can
// substitute fakes.
type API interface {
	IssueToken(ctx context.Context, username, password string) (*TokenResponse, error)
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	CurrentUser(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, update *ProfileUpdate) (*User, error)
	ChangePassword(ctx context.Context, current, next string) error
	WithToken(token string) API
}

// Client is the single point of outbound HTTP communication with the
// FileBox backend. All endpoints live under the fixed /api prefix.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	override   string // candidate token used during login confirmation
}

// New creates a client bound to the given base URL and credential store.
// creds may be nil for a client that only performs unauthenticated calls.
func New(baseURL string, creds Credentials) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithToken returns a client that authenticates with the given token
// instead of the stored one. The session controller uses this to confirm
// a freshly issued token before persisting it.
func (c *Client) WithToken(token string) API {
	clone := *c
	clone.override = token
	return &clone
}

// IssueToken exchanges credentials for a bearer token.
// The server expects a form-encoded body, not JSON.
func (c *Client) IssueToken(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token TokenResponse
	err := c.do(ctx, http.MethodPost, "/api/token",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Register creates a new account via POST /api/register
func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CurrentUser fetches the authenticated user's profile via GET /api/users/me
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", "", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile submits the editable profile fields via PUT /api/users/me
// and returns the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, update *ProfileUpdate) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodPut, "/api/users/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword submits a password change via PUT /api/users/me/password
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := PasswordChange{CurrentPassword: current, NewPassword: next}
	return c.doJSON(ctx, http.MethodPut, "/api/users/me/password", body, nil)
}

// doJSON marshals the payload and issues a JSON request
func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(body), out)
}

// do issues a request, attaching the bearer token when one is available.
// Any 401 response clears the credential store before the error is
// returned to the caller; there is no per-endpoint opt-out.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.creds != nil {
			_ = c.creds.Clear()
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: decodeDetail(resp.Body)}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{StatusCode: resp.StatusCode, Detail: decodeDetail(resp.Body)}
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// token picks the candidate token when set, the stored one otherwise
func (c *Client) token() string {
	if c.override != "" {
		return c.override
	}
	if c.creds != nil {
		return c.creds.Token()
	}
	return ""
}

// handleRequestError converts transport errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to FileBox at %s: %w", c.baseURL, err)
}

// decodeDetail extracts the server's detail message from an error body.
// The backend reports errors as {"detail": "..."}.
func decodeDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	return body.Detail
}
