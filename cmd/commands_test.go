// ABOUTME: Tests for the filebox CLI commands
// ABOUTME: Runs command helpers against an httptest backend with an isolated config dir

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"filebox-cli/internal/client"
	"filebox-cli/internal/session"
)

// testEnv points the command wiring at the given backend and an
// isolated config directory, and returns a store over that directory.
func testEnv(t *testing.T, backendURL string) *session.Store {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FILEBOX_API_URL", backendURL)
	return session.NewStore(session.NewFileStore(session.DefaultConfigDir()))
}

// fakeBackend serves the token and profile endpoints for a single account
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token":
			r.ParseForm()
			if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
				return
			}
			json.NewEncoder(w).Encode(client.TokenResponse{AccessToken: "tok123", TokenType: "bearer"})
		case "/api/users/me":
			if r.Header.Get("Authorization") != "Bearer tok123" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
				return
			}
			json.NewEncoder(w).Encode(client.User{Username: "alice", FullName: "Alice A", Email: "alice@example.com"})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Not Found"})
		}
	}))
}

func TestGetAPIURL_Precedence(t *testing.T) {
	t.Setenv("FILEBOX_API_URL", "")
	if got := GetAPIURL(); got != defaultAPIURL {
		t.Errorf("expected default URL, got %s", got)
	}

	t.Setenv("FILEBOX_API_URL", "http://env:9000")
	if got := GetAPIURL(); got != "http://env:9000" {
		t.Errorf("expected env URL, got %s", got)
	}

	apiURL = "http://flag:9000"
	defer func() { apiURL = "" }()
	if got := GetAPIURL(); got != "http://flag:9000" {
		t.Errorf("flag must win over env, got %s", got)
	}
}

func TestRunLogin_PersistsSession(t *testing.T) {
	server := fakeBackend(t)
	defer server.Close()
	store := testEnv(t, server.URL)

	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf, "alice", "secret"); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Signed in as alice") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	sess := store.Load()
	if sess.Token != "tok123" || sess.Username != "alice" {
		t.Errorf("session not persisted: %+v", sess)
	}
}

func TestRunLogin_WrongPassword(t *testing.T) {
	server := fakeBackend(t)
	defer server.Close()
	store := testEnv(t, server.URL)

	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf, "alice", "wrong"); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if store.Load().Active() {
		t.Error("failed login must not persist a session")
	}
}

func TestRunLogout(t *testing.T) {
	store := testEnv(t, "http://unused:1")
	if err := store.Save("tok123", "alice"); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	var buf bytes.Buffer
	if code := runLogout(&buf); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "Signed out") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	if store.Load().Active() {
		t.Error("logout must clear the session")
	}
}

func TestRunWhoami_NotSignedIn(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()
	testEnv(t, server.URL)

	var buf bytes.Buffer
	if code := runWhoami(context.Background(), &buf); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(buf.String(), "Not signed in") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	if requests != 0 {
		t.Error("the guard must prevent any network request")
	}
}

func TestRunWhoami_SignedIn(t *testing.T) {
	server := fakeBackend(t)
	defer server.Close()
	store := testEnv(t, server.URL)
	if err := store.Save("tok123", "alice"); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	var buf bytes.Buffer
	if code := runWhoami(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "alice@example.com") {
		t.Errorf("expected profile in output: %s", buf.String())
	}
}

func TestRunWhoami_ExpiredTokenClearsSession(t *testing.T) {
	server := fakeBackend(t)
	defer server.Close()
	store := testEnv(t, server.URL)
	if err := store.Save("stale", "alice"); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	var buf bytes.Buffer
	if code := runWhoami(context.Background(), &buf); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if store.Load().Active() {
		t.Error("a rejected token must clear the stored session")
	}
}

func TestRunRegister_MismatchNeverReachesNetwork(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()
	testEnv(t, server.URL)

	req := &client.RegisterRequest{Username: "bob", Password: "pw", FullName: "Bob B", Email: "bob@example.com"}
	var buf bytes.Buffer
	if code := runRegister(context.Background(), &buf, req, "different"); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "passwords do not match") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	if requests != 0 {
		t.Error("a local mismatch must not send any request")
	}
}

func TestRunRegister_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(client.RegisterResponse{AccessToken: "tok456", TokenType: "bearer", Username: "bob"})
	}))
	defer server.Close()
	store := testEnv(t, server.URL)

	req := &client.RegisterRequest{Username: "bob", Password: "pw", FullName: "Bob B", Email: "bob@example.com"}
	var buf bytes.Buffer
	if code := runRegister(context.Background(), &buf, req, "pw"); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Account bob created") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	if store.Load().Active() {
		t.Error("registration must not establish a session")
	}
}

func TestRunProfile_ClearedFieldReachesServer(t *testing.T) {
	var putBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/users/me" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(client.User{
				Username: "alice", FullName: "Alice A", Email: "alice@example.com",
				Description: "old description", ProfileImage: "http://img",
			})
		case r.URL.Path == "/api/users/me" && r.Method == http.MethodPut:
			json.NewDecoder(r.Body).Decode(&putBody)
			json.NewEncoder(w).Encode(client.User{Username: "alice"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	store := testEnv(t, server.URL)
	if err := store.Save("tok123", "alice"); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	edits := &profileEdits{description: "", setDescription: true}
	var buf bytes.Buffer
	if code := runProfile(context.Background(), &buf, edits); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}

	if got, ok := putBody["description"]; !ok || got != "" {
		t.Errorf("cleared description must be sent as empty, got %q (present=%v)", got, ok)
	}
	// Untouched fields carry the server's current values, not blanks
	if putBody["full_name"] != "Alice A" || putBody["email"] != "alice@example.com" {
		t.Errorf("untouched fields must be preserved: %v", putBody)
	}
	if putBody["profile_image"] != "http://img" {
		t.Errorf("untouched image must be preserved: %v", putBody)
	}
}

func TestRunProfile_NotSignedIn(t *testing.T) {
	testEnv(t, "http://unused:1")

	var buf bytes.Buffer
	if code := runProfile(context.Background(), &buf, &profileEdits{}); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}

func TestRunPasswd_NotSignedIn(t *testing.T) {
	testEnv(t, "http://unused:1")

	var buf bytes.Buffer
	if code := runPasswd(context.Background(), &buf, "old", "new", "new"); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(buf.String(), "Not signed in") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRunPasswd_Mismatch(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()
	store := testEnv(t, server.URL)
	if err := store.Save("tok123", "alice"); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	var buf bytes.Buffer
	if code := runPasswd(context.Background(), &buf, "old", "new", "different"); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if requests != 0 {
		t.Error("a local mismatch must not send any request")
	}
}

func TestFormatUserHuman(t *testing.T) {
	out := formatUserHuman(&client.User{Username: "alice", FullName: "Alice A", Email: "alice@example.com"})
	if !strings.Contains(out, "Username:    alice") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestFormatUserJSON(t *testing.T) {
	out := formatUserJSON(&client.User{Username: "alice"})
	var decoded client.User
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Username != "alice" {
		t.Errorf("unexpected decoded user: %+v", decoded)
	}
}
