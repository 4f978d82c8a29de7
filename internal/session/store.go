// ABOUTME: Credential store holding the current session token and username
// ABOUTME: Guarantees both entries are persisted together or not at all

package session

import (
	"errors"
)

// Persisted keys. These two entries are the only client-side durable state.
const (
	keyToken    = "token"
	keyUsername = "username"
)

// ErrNotFound is returned by KeyValueStore backends for missing keys
var ErrNotFound = errors.New("key not found")

// KeyValueStore is the persistence capability behind the credential
// store. Backends may be file-based, in-memory, or anything else that
// survives (or deliberately doesn't survive) a process restart.
type KeyValueStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Session is the client-held pairing of token and username that
// represents "logged in" state.
type Session struct {
	Token    string
	Username string
}

// Active reports whether the session represents an authenticated user.
// A token without a username (or vice versa) is not a session.
func (s Session) Active() bool {
	return s.Token != "" && s.Username != ""
}

// Store persists the current session across restarts.
// It implements client.Credentials so the gateway can attach the token
// to outgoing requests and wipe it on authorization failure.
type Store struct {
	kv KeyValueStore
}

// NewStore creates a credential store over the given backend
func NewStore(kv KeyValueStore) *Store {
	return &Store{kv: kv}
}

// Save persists token and username. The username is written first so
// that no observer can ever load a token without its confirmed username.
func (s *Store) Save(token, username string) error {
	if err := s.kv.Set(keyUsername, username); err != nil {
		return err
	}
	if err := s.kv.Set(keyToken, token); err != nil {
		// Roll back so a half-written session is never left behind
		_ = s.kv.Delete(keyUsername)
		return err
	}
	return nil
}

// Load returns the current session. A partially stored or unreadable
// session is reported as fully absent.
func (s *Store) Load() Session {
	token, err := s.kv.Get(keyToken)
	if err != nil {
		return Session{}
	}
	username, err := s.kv.Get(keyUsername)
	if err != nil {
		return Session{}
	}
	sess := Session{Token: token, Username: username}
	if !sess.Active() {
		return Session{}
	}
	return sess
}

// Clear removes both entries. The token goes first: once it is gone the
// session is dead regardless of what happens to the username entry.
func (s *Store) Clear() error {
	if err := s.kv.Delete(keyToken); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := s.kv.Delete(keyUsername); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Token returns the stored bearer token, or "" when logged out
func (s *Store) Token() string {
	return s.Load().Token
}
