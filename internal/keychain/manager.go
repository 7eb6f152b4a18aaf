// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for moa-admin.
// It owns the single durable record that holds the admin session
// ({token, user, isAuthenticated} as JSON) under a fixed key, so the session
// survives process restarts without ever touching a plain-text file.
//
// macOS uses the native `security` command when available, falling back to the
// keyring library (Keychain, pass). Windows uses the Credential Manager, Linux
// the Secret Service, KWallet or keyctl. When none of those is reachable and
// MOA_KEYRING_PASSWORD is set, an encrypted file keyring under the XDG state
// dir is used instead.
package keychain

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
	"go.uber.org/zap"

	"moa/admin/internal/xdg"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ErrNotFound is returned by backends when an item does not exist.
var ErrNotFound = errors.New("keychain item not found")

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "moa-admin"

// KeySession is the fixed storage name of the persisted session record.
const KeySession = "moa-admin-auth"

// EnvFilePassword unlocks the encrypted file keyring fallback.
const EnvFilePassword = "MOA_KEYRING_PASSWORD"

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

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager(log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend(log)
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		log.Debug("security command unavailable, using keyring library", zap.Error(err))
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewManagerWithRing wraps an already opened keyring. Tests pass
// keyring.NewArrayKeyring(nil) to get an in-memory store.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager(log *zap.Logger) (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager(log)
	if globalError != nil {
		globalManager = nil
		return nil, globalError
	}
	return globalManager, nil
}

func openRing() (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName:              ServiceName,
		PassPrefix:               ServiceName,
		WinCredPrefix:            ServiceName,
		KeychainTrustApplication: true,
		LibSecretCollectionName:  "login",
		KWalletAppID:             ServiceName,
		KWalletFolder:            ServiceName,
		KeyCtlScope:              "user",
	}

	switch runtime.GOOS {
	case "darwin":
		cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		cfg.AllowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.KeyCtlBackend,
		}
	}

	if pw := os.Getenv(EnvFilePassword); pw != "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		cfg.FileDir = filepath.Join(dir, "keyring")
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(pw)
		cfg.AllowedBackends = append(cfg.AllowedBackends, keyring.FileBackend)
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if errors.Is(err, keyring.ErrNoAvailImpl) {
			return nil, errors.New("no secure credential store available; set " + EnvFilePassword + " to use an encrypted file keyring")
		}
		return nil, err
	}
	return ring, nil
}

// SaveSession stores the serialized session record.
// This method is thread-safe.
func (m *Manager) SaveSession(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(KeySession, string(data))
	}
	return m.ring.Set(keyring.Item{
		Key:         KeySession,
		Data:        data,
		Label:       "MOA admin session",
		Description: "moa-admin session token and identity",
	})
}

// LoadSession returns the serialized session record. A missing record yields (nil, nil).
// This method is thread-safe.
func (m *Manager) LoadSession() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		data, err := m.backend.Get(KeySession)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return []byte(data), nil
	}

	it, err := m.ring.Get(KeySession)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return it.Data, nil
}

// ClearSession removes the session record. Removing a missing record succeeds.
// This method is thread-safe.
func (m *Manager) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Delete(KeySession)
	}
	if err := m.ring.Remove(KeySession); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
