package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// The salt is fixed so every client derives the same key from the shared
// secret. This is not real key management; it matches the original app's
// shared-secret scheme.
var keySalt = []byte("cloudtalk.message.v1")

// Cipher encrypts message bodies before they enter the document. The sync
// engine itself treats message text as opaque; this is the display layer's
// collaborator.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives an AES-256-GCM cipher from a shared secret.
func NewCipher(secret string) (*Cipher, error) {
	key, err := scrypt.Key([]byte(secret), keySalt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals text and returns it base64-encoded with the nonce prefixed.
func (c *Cipher) Encrypt(text string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(text), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a sealed message. Anything that fails to decode or
// authenticate is returned unchanged; old documents contain plaintext
// messages and they should still display.
func (c *Cipher) Decrypt(text string) string {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil || len(raw) < c.aead.NonceSize() {
		return text
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return text
	}
	return string(plain)
}
