// ABOUTME: Tests for the FileBox API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeCreds records token lookups and clear calls
type fakeCreds struct {
	token   string
	cleared bool
}

func (f *fakeCreds) Token() string { return f.token }
func (f *fakeCreds) Clear() error {
	f.cleared = true
	f.token = ""
	return nil
}

func TestIssueToken_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/token" {
			t.Errorf("expected path /api/token, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form-encoded request, got %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "secret" {
			t.Errorf("unexpected form values: %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok123", TokenType: "bearer"})
	}))
	defer server.Close()

	c := New(server.URL, &fakeCreds{})
	token, err := c.IssueToken(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.AccessToken != "tok123" {
		t.Errorf("expected token tok123, got %s", token.AccessToken)
	}
	if token.TokenType != "bearer" {
		t.Errorf("expected token type bearer, got %s", token.TokenType)
	}
}

func TestIssueToken_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer server.Close()

	c := New(server.URL, &fakeCreds{})
	_, err := c.IssueToken(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if got := Detail(err, "fallback"); got != "Incorrect username or password" {
		t.Errorf("expected server detail, got %q", got)
	}
}

func TestCurrentUser_AttachesBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/me" {
			t.Errorf("expected path /api/users/me, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok123" {
			t.Errorf("expected bearer token header, got %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(User{Username: "alice", FullName: "Alice A"})
	}))
	defer server.Close()

	c := New(server.URL, &fakeCreds{token: "tok123"})
	user, err := c.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected username alice, got %s", user.Username)
	}
}

func TestCurrentUser_NoToken_NoAuthorizationHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("expected no authorization header, got %q", auth)
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
	}))
	defer server.Close()

	c := New(server.URL, &fakeCreds{})
	if _, err := c.CurrentUser(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestUnauthorized_ClearsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid authentication credentials"})
	}))
	defer server.Close()

	creds := &fakeCreds{token: "expired"}
	c := New(server.URL, creds)
	_, err := c.CurrentUser(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !creds.cleared {
		t.Error("expected credentials to be cleared on 401")
	}
}

func TestUnauthorized_AppliesToEveryEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "expired"})
	}))
	defer server.Close()

	calls := []func(c *Client) error{
		func(c *Client) error { _, err := c.CurrentUser(context.Background()); return err },
		func(c *Client) error {
			_, err := c.UpdateProfile(context.Background(), &ProfileUpdate{Email: "a@b.c"})
			return err
		},
		func(c *Client) error { return c.ChangePassword(context.Background(), "old", "new") },
	}

	for i, call := range calls {
		creds := &fakeCreds{token: "expired"}
		err := call(New(server.URL, creds))
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("call %d: expected ErrUnauthorized, got %v", i, err)
		}
		if !creds.cleared {
			t.Errorf("call %d: expected credentials cleared", i)
		}
	}
}

func TestWithToken_OverridesStoredToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer candidate" {
			t.Errorf("expected candidate token, got %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(User{Username: "alice"})
	}))
	defer server.Close()

	c := New(server.URL, &fakeCreds{token: "stored"})
	if _, err := c.WithToken("candidate").CurrentUser(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateProfile_ValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "invalid email"})
	}))
	defer server.Close()

	c := New(server.URL, &fakeCreds{token: "tok123"})
	_, err := c.UpdateProfile(context.Background(), &ProfileUpdate{Email: "bad"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "invalid email" {
		t.Errorf("expected detail %q, got %q", "invalid email", apiErr.Detail)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("422 must not match ErrUnauthorized")
	}
}

func TestUpdateProfile_SendsClearedFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		// Every editable field travels, empty or not, so clearing works
		for _, field := range []string{"full_name", "email", "profile_image", "description"} {
			if _, ok := body[field]; !ok {
				t.Errorf("field %q missing from request body", field)
			}
		}
		if body["description"] != "" {
			t.Errorf("cleared description must be sent as empty, got %v", body["description"])
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(User{Username: "alice", FullName: "Alice A", Email: "a@b.c"})
	}))
	defer server.Close()

	c := New(server.URL, &fakeCreds{token: "tok123"})
	_, err := c.UpdateProfile(context.Background(), &ProfileUpdate{
		FullName: "Alice A", Email: "a@b.c", Description: "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChangePassword_SendsOnlyCurrentAndNew(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/me/password" {
			t.Errorf("expected path /api/users/me/password, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["current_password"] != "old" || body["new_password"] != "new" {
			t.Errorf("unexpected body: %v", body)
		}
		if _, ok := body["confirm_password"]; ok {
			t.Error("confirmation must never be sent to the server")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, &fakeCreds{token: "tok123"})
	if err := c.ChangePassword(context.Background(), "old", "new"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegister_SendsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/register" {
			t.Errorf("expected path /api/register, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON request, got %s", ct)
		}
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if req.Username != "bob" || req.FullName != "Bob B" {
			t.Errorf("unexpected request: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(RegisterResponse{
			AccessToken: "tok456", TokenType: "bearer", Username: "bob",
		})
	}))
	defer server.Close()

	c := New(server.URL, &fakeCreds{})
	resp, err := c.Register(context.Background(), &RegisterRequest{
		Username: "bob", Password: "pw", FullName: "Bob B", Email: "bob@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Username != "bob" {
		t.Errorf("expected username bob, got %s", resp.Username)
	}
}

func TestCurrentUser_ConnectionError(t *testing.T) {
	c := New("http://localhost:1", &fakeCreds{token: "tok123"})
	if _, err := c.CurrentUser(context.Background()); err == nil {
		t.Error("expected connection error, got nil")
	}
}

func TestDetail_Fallback(t *testing.T) {
	if got := Detail(errors.New("dial tcp: refused"), "generic message"); got != "generic message" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := Detail(&APIError{StatusCode: 500}, "generic message"); got != "generic message" {
		t.Errorf("expected fallback for empty detail, got %q", got)
	}
}
