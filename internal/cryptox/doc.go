// Package cryptox owns the vault's single symmetric key and the authenticated
// encryption envelope used for documents at rest.
//
// # Key lifecycle
//
// KeyStore generates a 32-byte random key on first use (EnsureKey) and stores
// the raw bytes at a fixed path. LoadKey never generates: a missing key file is
// reported as common.ErrKeyNotFound. There is no rotation and no second key; if
// the key file is lost every encrypted document is unrecoverable.
//
// # Envelope
//
// Codec seals data with XChaCha20-Poly1305:
//
//	version (1 byte) || nonce (24 bytes) || ciphertext || tag (16 bytes)
//
// The version byte is bound as additional data, so any single-byte change of the
// envelope makes Decrypt fail with common.ErrDecryption.
package cryptox
