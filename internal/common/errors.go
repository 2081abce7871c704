// Package common defines shared sentinel errors, error kinds and small helpers
// used across the vault layers. Callers should use errors.Is to match the
// sentinel values and KindOf to classify an arbitrary error chain.
package common

import (
	"errors"
	"io/fs"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Key lifecycle errors.
	ErrKeyNotFound = errors.New("encryption key not found")
	ErrInvalidKey  = errors.New("invalid encryption key")

	// Envelope errors: authentication failure, wrong key or malformed input.
	ErrDecryption = errors.New("decryption failed")

	// Validation errors.
	ErrUnknownEntityType = errors.New("unknown entity type")
	ErrFileTooLarge      = errors.New("file too large")
)

// Kind classifies a failure for the boundary layer.
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindIntegrity
	KindIO
	KindConfig
	KindDatabase
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindIntegrity:
		return "integrity"
	case KindIO:
		return "io"
	case KindConfig:
		return "config"
	case KindDatabase:
		return "database"
	case KindInvalid:
		return "invalid"
	}
	return "unknown"
}

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// WithKind tags err with kind. A nil err stays nil.
func WithKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// KindOf reports the kind of err. Explicit tags win over sentinel matching;
// anything unrecognised is treated as an I/O fault.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, ErrDecryption):
		return KindIntegrity
	case errors.Is(err, ErrKeyNotFound), errors.Is(err, ErrInvalidKey):
		return KindConfig
	case errors.Is(err, ErrUnknownEntityType), errors.Is(err, ErrFileTooLarge):
		return KindInvalid
	}
	return KindIO
}
