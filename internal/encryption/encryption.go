// Package encryption seals free-text fields before they are written to disk.
package encryption

import (
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
)

// Cipher seals and opens short text values.
type Cipher interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// New returns a Fernet cipher for the given key, or a passthrough cipher when
// the key is empty.
func New(key string) (Cipher, error) {
	if key == "" {
		return Plain{}, nil
	}
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	return &Fernet{keys: []*fernet.Key{k}}, nil
}

// GenerateKey returns a new base64-encoded Fernet key.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return k.Encode(), nil
}

// Fernet encrypts with the first key and decrypts with any of them.
type Fernet struct {
	keys []*fernet.Key
}

// Seal encrypts plaintext. The empty string is stored as-is.
func (f *Fernet) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	tok, err := fernet.EncryptAndSign([]byte(plaintext), f.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to encrypt: %w", err)
	}
	return string(tok), nil
}

// Open decrypts a token. Records never expire, so the TTL check is disabled.
func (f *Fernet) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	msg := fernet.VerifyAndDecrypt([]byte(sealed), -1*time.Second, f.keys)
	if msg == nil {
		return "", fmt.Errorf("failed to decrypt: token invalid or signed with another key")
	}
	return string(msg), nil
}

// Plain stores values as-is.
type Plain struct{}

func (Plain) Seal(plaintext string) (string, error) { return plaintext, nil }
func (Plain) Open(sealed string) (string, error)    { return sealed, nil }
