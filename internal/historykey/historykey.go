// Package historykey manages the symmetric key internal/history uses to
// encrypt persisted history entries when secureHistory is enabled
// (SPEC_FULL.md §3.2). It is narrowed from the teacher's general-purpose
// internal/secrets namespaced secret store down to a single named key,
// resolved through the same per-OS backend detection.
package historykey

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"runtime"
)

const (
	service = "minishell"
	keyName = "history-encryption-key"

	// keySize is the AES-256 key length in bytes.
	keySize = 32
)

// ErrNotFound is returned by a Backend when the named key has never been
// stored.
var ErrNotFound = errors.New("historykey: key not found")

// Backend is the platform-specific storage implementation a Manager sits
// on top of.
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Manager resolves and persists the history encryption key through
// whichever Backend the host platform supports.
type Manager struct {
	backend Backend
}

// Option configures a Manager built by NewManager.
type Option func(*Manager)

// WithBackend overrides platform auto-detection with an explicit backend —
// used by tests that want the file-backed fallback regardless of what the
// host platform offers.
func WithBackend(b Backend) Option {
	return func(m *Manager) { m.backend = b }
}

// NewFallbackBackend returns the encrypted on-disk backend directly,
// independent of platform, for use with WithBackend.
func NewFallbackBackend() Backend {
	return newFallbackBackend()
}

// NewManager selects a backend for the current platform, falling back to
// an encrypted on-disk file when the platform has no native backend.
// Whether the native credential store is reachable is not checked: on a
// host where it is not running (headless CI, a stripped-down container),
// Key and Rotate return the native backend's error.
func NewManager(opts ...Option) *Manager {
	backend, err := detectBackend()
	if err != nil {
		backend = newFallbackBackend()
	}
	m := &Manager{backend: backend}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key returns the persisted history encryption key, generating and storing
// a fresh random one on first use.
func (m *Manager) Key() ([]byte, error) {
	encoded, err := m.backend.Get(keyName)
	if errors.Is(err, ErrNotFound) {
		return m.Rotate()
	}
	if err != nil {
		return nil, fmt.Errorf("historykey: %w", err)
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// Rotate generates a new random key, persists it, and returns it. Any
// history entries encrypted under the previous key become unreadable.
func (m *Manager) Rotate() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("historykey: generate key: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(key)
	if err := m.backend.Set(keyName, encoded); err != nil {
		return nil, fmt.Errorf("historykey: store key: %w", err)
	}
	return key, nil
}

func detectBackend() (Backend, error) {
	switch runtime.GOOS {
	case "darwin":
		return newKeychainBackend()
	case "windows":
		return newCredentialBackend()
	case "linux":
		return newSecretServiceBackend()
	default:
		return nil, fmt.Errorf("historykey: no native backend for %s", runtime.GOOS)
	}
}
