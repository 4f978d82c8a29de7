// ABOUTME: Profile manager for fetching and mutating the current user's profile
// ABOUTME: Validates password confirmation locally before any network call

package profile

import (
	"context"
	"errors"

	"filebox-cli/internal/client"
)

// ErrPasswordMismatch is a local validation failure: the confirmation
// did not match the new password. No request is sent in this case.
var ErrPasswordMismatch = errors.New("passwords do not match")

// API is the slice of the gateway the profile manager needs
type API interface {
	CurrentUser(ctx context.Context) (*client.User, error)
	UpdateProfile(ctx context.Context, update *client.ProfileUpdate) (*client.User, error)
	ChangePassword(ctx context.Context, current, next string) error
}

// Manager reads and mutates the authenticated user's profile. It keeps
// no cache: callers re-fetch after every successful mutation.
type Manager struct {
	api API
}

// NewManager creates a profile manager over the given gateway
func NewManager(api API) *Manager {
	return &Manager{api: api}
}

// FetchCurrent returns the authenticated user's profile fresh from the
// server. On failure the caller keeps whatever it was displaying.
func (m *Manager) FetchCurrent(ctx context.Context) (*client.User, error) {
	return m.api.CurrentUser(ctx)
}

// Update submits the editable profile fields and returns the updated
// profile. Callers should re-fetch on success to refresh their display.
func (m *Manager) Update(ctx context.Context, update *client.ProfileUpdate) (*client.User, error) {
	return m.api.UpdateProfile(ctx, update)
}

// ChangePassword validates the confirmation locally, then submits the
// current and new password. A mismatch never reaches the network.
func (m *Manager) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	return m.api.ChangePassword(ctx, current, next)
}
