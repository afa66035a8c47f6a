package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/alchemorsel/cookbook/internal/ports/outbound"
)

// cipherKeyInfo domain-separates the derived AES key from any other
// secret HKDF might someday derive off the same config key material.
const cipherKeyInfo = "cookbook-credential-cipher"

// AESGCMCipher implements outbound.Cipher, grounded on the teacher's
// EncryptionService (internal/infrastructure/security/encryption.go):
// AES-256-GCM with a random nonce prepended to the ciphertext. Unlike
// the teacher's service, the key is derived via HKDF-SHA256 rather than
// Argon2 — this build has no password to stretch, only opaque
// config-provided key material to domain-separate.
type AESGCMCipher struct {
	gcm cipher.AEAD
}

func NewAESGCMCipher(keyMaterial []byte) (*AESGCMCipher, error) {
	derived := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, keyMaterial, nil, []byte(cipherKeyInfo)), derived); err != nil {
		return nil, fmt.Errorf("security: failed to derive cipher key: %w", err)
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("security: failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("security: failed to create GCM mode: %w", err)
	}
	return &AESGCMCipher{gcm: gcm}, nil
}

func (c *AESGCMCipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("security: failed to generate nonce: %w", err)
	}
	return c.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *AESGCMCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := c.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("security: ciphertext shorter than nonce")
	}
	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return c.gcm.Open(nil, nonce, sealed, nil)
}

var _ outbound.Cipher = (*AESGCMCipher)(nil)
