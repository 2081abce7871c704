package cryptox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length of the raw key stored on disk.
const KeySize = chacha20poly1305.KeySize

// KeyStore manages the key file at a fixed path.
type KeyStore struct {
	path string
}

func NewKeyStore(path string) *KeyStore {
	return &KeyStore{path: path}
}

// Path returns the key file location.
func (k *KeyStore) Path() string {
	return k.path
}

// CreateSymmetricKey generates a new random symmetric key.
func CreateSymmetricKey() []byte {
	return common.GenerateRandByteArray(KeySize)
}

// EnsureKey generates and writes a key if none exists yet. It reports whether
// a key was created. Safe to call on every start.
func (k *KeyStore) EnsureKey() (bool, error) {
	if _, err := os.Stat(k.path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, common.WithKind(common.KindConfig, fmt.Errorf("stat key %s: %w", k.path, err))
	}

	if err := os.MkdirAll(filepath.Dir(k.path), 0o700); err != nil {
		return false, common.WithKind(common.KindConfig, fmt.Errorf("create key directory: %w", err))
	}

	key := CreateSymmetricKey()
	defer common.WipeByteArray(key)

	// O_EXCL: a key written by a concurrent start wins and is never overwritten.
	f, err := os.OpenFile(k.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, common.WithKind(common.KindConfig, fmt.Errorf("create key %s: %w", k.path, err))
	}

	if _, err := f.Write(key); err != nil {
		_ = f.Close()
		_ = os.Remove(k.path)
		return false, common.WithKind(common.KindConfig, fmt.Errorf("write key: %w", err))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(k.path)
		return false, common.WithKind(common.KindConfig, fmt.Errorf("close key: %w", err))
	}

	return true, nil
}

// LoadKey reads the key bytes. The caller should wipe them when done.
func (k *KeyStore) LoadKey() ([]byte, error) {
	key, err := os.ReadFile(k.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", common.ErrKeyNotFound, k.path)
	}
	if err != nil {
		return nil, common.WithKind(common.KindConfig, fmt.Errorf("read key %s: %w", k.path, err))
	}
	if len(key) != KeySize {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", common.ErrInvalidKey, KeySize, len(key))
	}
	return key, nil
}

// Codec loads the key and returns a ready codec. The key is re-read on every
// call rather than cached across operations.
func (k *KeyStore) Codec() (*Codec, error) {
	key, err := k.LoadKey()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)
	return NewCodec(key)
}
