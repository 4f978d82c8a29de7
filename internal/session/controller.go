// ABOUTME: Session controller orchestrating login, registration, and logout
// ABOUTME: Owns all transitions of the credential store's contents

package session

import (
	"context"
	"fmt"
	"sync"

	"filebox-cli/internal/client"
)

// State is the controller's authentication state
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

// String returns the state name for logs and diagnostics
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Controller drives the session lifecycle. The authenticated/anonymous
// distinction is derived from the credential store, so a 401-triggered
// clear performed by the gateway is reflected here immediately.
type Controller struct {
	mu             sync.Mutex
	api            client.API
	store          *Store
	authenticating bool
}

// NewController creates a controller over the given gateway and store
func NewController(api client.API, store *Store) *Controller {
	return &Controller{api: api, store: store}
}

// State returns the current authentication state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.authenticating {
		return StateAuthenticating
	}
	if c.store.Load().Active() {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Authenticated reports whether a session is established. Screens and
// commands that need a session use this as their mount guard.
func (c *Controller) Authenticated() bool {
	return c.State() == StateAuthenticated
}

// Current returns the stored session, possibly absent
func (c *Controller) Current() Session {
	return c.store.Load()
}

// Login exchanges credentials for a token, confirms it by fetching the
// user's identity, and only then persists the session. If the identity
// fetch fails the token is discarded: a token is never left persisted
// without a confirmed username.
func (c *Controller) Login(ctx context.Context, username, password string) (Session, error) {
	c.setAuthenticating(true)
	defer c.setAuthenticating(false)

	token, err := c.api.IssueToken(ctx, username, password)
	if err != nil {
		return Session{}, err
	}

	user, err := c.api.WithToken(token.AccessToken).CurrentUser(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("could not confirm identity: %w", err)
	}

	if err := c.store.Save(token.AccessToken, user.Username); err != nil {
		return Session{}, fmt.Errorf("could not persist session: %w", err)
	}

	return Session{Token: token.AccessToken, Username: user.Username}, nil
}

// Register creates a new account. It never establishes a session: the
// token the server returns alongside the new account is discarded, and
// the user signs in explicitly afterwards.
func (c *Controller) Register(ctx context.Context, req *client.RegisterRequest) error {
	c.setAuthenticating(true)
	defer c.setAuthenticating(false)

	_, err := c.api.Register(ctx, req)
	return err
}

// Logout clears the credential store. Purely local: no server round-trip.
func (c *Controller) Logout() error {
	return c.store.Clear()
}

func (c *Controller) setAuthenticating(v bool) {
	c.mu.Lock()
	c.authenticating = v
	c.mu.Unlock()
}
