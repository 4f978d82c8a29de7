// ABOUTME: File-backed KeyValueStore under the XDG config directory
// ABOUTME: Stores session entries in a single mode-0600 JSON file

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists key/value entries as a JSON object in a single
// file. The whole file is rewritten on every change, so readers always
// see a consistent snapshot.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file store rooted at the given config directory
func NewFileStore(configDir string) *FileStore {
	return &FileStore{path: filepath.Join(configDir, "session.json")}
}

// DefaultConfigDir returns the config directory following the XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "filebox")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "filebox")
}

// Get reads a single entry, returning ErrNotFound for missing keys
func (f *FileStore) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return "", err
	}
	value, ok := entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set writes a single entry
func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	entries[key] = value
	return f.write(entries)
}

// Delete removes an entry. Deleting a missing key is not an error.
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return f.write(entries)
}

// read loads the entry map, treating a missing or corrupt file as empty
func (f *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		// Corrupt session file: start fresh rather than locking the user out
		return map[string]string{}, nil
	}
	return entries, nil
}

// write persists the entry map. The file holds a bearer token, so it is
// readable by the owner only.
func (f *FileStore) write(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}
