// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for rowbase.
// This module manages all interactions with the OS keychain/credential store,
// providing a unified interface for storing and retrieving sensitive data such as
// the API key and persisted account state.
//
// The package supports macOS Keychain, Windows Credential Manager, and the
// freedesktop Secret Service / pass on Linux, with thread-safe operations.
// In CI the keychain is never touched; the API key arrives via the action input.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "rowbase"

// Keys used for storing secrets in the OS keychain.
const (
	KeyAPIKey       = "api_key"
	KeyAccountState = "account_state"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}

	return &Manager{
		ring: ring,
	}, nil
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}

	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends only.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Try macOS Keychain first, then pass (password store) as fallback.
		// Pass requires 'pass' installed: brew install pass
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
		}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux":
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.PassBackend,
		}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
	}

	// Hint prefixes where supported to minimize namespace collisions
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}

	return ring, nil
}

// SaveAPIKey stores the API key in the OS keychain.
// This method is thread-safe.
func (m *Manager) SaveAPIKey(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(KeyAPIKey, key)
	}
	return m.ring.Set(keyring.Item{Key: KeyAPIKey, Data: []byte(key)})
}

// LoadAPIKey retrieves the API key from the keychain.
// This method is thread-safe.
func (m *Manager) LoadAPIKey() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		key, err := m.backend.Get(KeyAPIKey)
		if err != nil {
			return "", err
		}
		if key == "" {
			return "", errors.New("empty api key")
		}
		return key, nil
	}

	it, err := m.ring.Get(KeyAPIKey)
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", errors.New("empty api key")
	}
	return string(it.Data), nil
}

// SaveAccountState stores serialized account state in the keychain.
// This method is thread-safe.
func (m *Manager) SaveAccountState(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(KeyAccountState, string(data))
	}
	return m.ring.Set(keyring.Item{Key: KeyAccountState, Data: data})
}

// LoadAccountState retrieves serialized account state from the keychain.
// This method is thread-safe.
func (m *Manager) LoadAccountState() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		data, err := m.backend.Get(KeyAccountState)
		if err != nil {
			return nil, err
		}
		return []byte(data), nil
	}

	it, err := m.ring.Get(KeyAccountState)
	if err != nil {
		return nil, err
	}
	return it.Data, nil
}

// ClearAll removes all rowbase secrets from the keychain.
// This method is thread-safe.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		_ = m.backend.Delete(KeyAPIKey)
		_ = m.backend.Delete(KeyAccountState)
		return nil
	}

	_ = m.ring.Remove(KeyAPIKey)
	_ = m.ring.Remove(KeyAccountState)
	return nil
}
