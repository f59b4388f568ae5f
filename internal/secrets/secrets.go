// Package secrets handles bot token encryption at rest and webhook secret
// generation. Tokens are sealed with AES-256-GCM; the auth tag travels
// appended to the ciphertext, the IV separately, both base64-encoded.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
)

const (
	keySize   = 32
	nonceSize = 12
)

var ErrDecrypt = errors.New("decrypt failed")

// Box seals and opens secrets with a fixed key derived from the configured
// encryption secret.
type Box struct {
	key []byte
}

// NewBox derives the AES key: the secret is padded with '0' to 32 bytes and
// truncated to 32, matching how previously stored tokens were sealed.
func NewBox(encryptionSecret string) *Box {
	key := make([]byte, keySize)
	for i := range key {
		key[i] = '0'
	}
	copy(key, []byte(encryptionSecret))
	return &Box{key: key}
}

// Encrypt seals plaintext and returns base64 ciphertext (with tag) and IV.
func (b *Box) Encrypt(plaintext string) (cipherTextB64, ivB64 string, err error) {
	block, err := aes.NewCipher(b.key)
	if err != nil {
		return "", "", fmt.Errorf("new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", fmt.Errorf("new gcm: %w", err)
	}

	iv := make([]byte, nonceSize)
	if _, err := rand.Read(iv); err != nil {
		return "", "", fmt.Errorf("read iv: %w", err)
	}

	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), base64.StdEncoding.EncodeToString(iv), nil
}

// Decrypt opens a sealed secret.
func (b *Box) Decrypt(cipherTextB64, ivB64 string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(cipherTextB64)
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext encoding", ErrDecrypt)
	}
	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil {
		return "", fmt.Errorf("%w: bad iv encoding", ErrDecrypt)
	}

	block, err := aes.NewCipher(b.key)
	if err != nil {
		return "", fmt.Errorf("new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("new gcm: %w", err)
	}

	plain, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

const secretAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomSecret returns a random alphanumeric string for use as a per-bot
// webhook secret.
func RandomSecret(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(secretAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		out[i] = secretAlphabet[n.Int64()]
	}
	return string(out), nil
}
