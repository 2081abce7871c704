package cryptox

import (
	"crypto/cipher"
	"fmt"
	"os"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/filex"
	"golang.org/x/crypto/chacha20poly1305"
)

const envelopeVersion byte = 1

// Overhead is the number of bytes Encrypt adds to a plaintext.
const Overhead = 1 + chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead

// Codec encrypts and decrypts with one key. It holds no other state.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec builds a codec for a KeySize-byte key. The key slice is not retained.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", common.ErrInvalidKey, KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidKey, err)
	}
	return &Codec{aead: aead}, nil
}

// Encrypt seals plaintext into a self-describing envelope.
func (c *Codec) Encrypt(plaintext []byte) []byte {
	nonce := common.GenerateRandByteArray(c.aead.NonceSize())

	out := make([]byte, 0, Overhead+len(plaintext))
	out = append(out, envelopeVersion)
	out = append(out, nonce...)

	return c.aead.Seal(out, nonce, plaintext, []byte{envelopeVersion})
}

// Decrypt opens an envelope produced by Encrypt. Any tampering, truncation or
// wrong key yields common.ErrDecryption; partial plaintext is never returned.
func (c *Codec) Decrypt(envelope []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	if len(envelope) < 1+ns+c.aead.Overhead() {
		return nil, fmt.Errorf("%w: envelope too short (%d bytes)", common.ErrDecryption, len(envelope))
	}
	if envelope[0] != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported envelope version %d", common.ErrDecryption, envelope[0])
	}

	nonce := envelope[1 : 1+ns]
	plaintext, err := c.aead.Open(nil, nonce, envelope[1+ns:], []byte{envelopeVersion})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// EncryptFile reads src whole, encrypts it and writes dst atomically.
func (c *Codec) EncryptFile(src, dst string) error {
	plaintext, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	defer common.WipeByteArray(plaintext)

	if err := filex.WriteFileAtomic(dst, c.Encrypt(plaintext), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// DecryptFile reads the envelope at src and writes the plaintext to dst
// atomically. dst is left untouched when authentication fails.
func (c *Codec) DecryptFile(src, dst string) error {
	envelope, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	plaintext, err := c.Decrypt(envelope)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	defer common.WipeByteArray(plaintext)

	// #nosec G306 -- previews are opened by external viewers
	if err := filex.WriteFileAtomic(dst, plaintext, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// Encrypt seals plaintext with key.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	c, err := NewCodec(key)
	if err != nil {
		return nil, err
	}
	return c.Encrypt(plaintext), nil
}

// Decrypt opens an envelope with key.
func Decrypt(envelope, key []byte) ([]byte, error) {
	c, err := NewCodec(key)
	if err != nil {
		return nil, err
	}
	return c.Decrypt(envelope)
}
