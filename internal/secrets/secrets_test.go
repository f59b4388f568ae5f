package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	box := NewBox("my-encryption-secret")

	ct, iv, err := box.Encrypt("123456:ABC-DEF1234ghIkl")
	require.NoError(t, err)
	require.NotEmpty(t, ct)
	require.NotEmpty(t, iv)

	plain, err := box.Decrypt(ct, iv)
	require.NoError(t, err)
	assert.Equal(t, "123456:ABC-DEF1234ghIkl", plain)
}

func TestDecryptWrongKey(t *testing.T) {
	ct, iv, err := NewBox("key-one").Encrypt("token")
	require.NoError(t, err)

	_, err = NewBox("key-two").Decrypt(ct, iv)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	box := NewBox("my-encryption-secret")
	ct, iv, err := box.Encrypt("token")
	require.NoError(t, err)

	tampered := "A" + ct[1:]
	if tampered == ct {
		tampered = "B" + ct[1:]
	}
	_, err = box.Decrypt(tampered, iv)
	assert.Error(t, err)
}

func TestEncryptUniqueIVs(t *testing.T) {
	box := NewBox("my-encryption-secret")

	_, iv1, err := box.Encrypt("token")
	require.NoError(t, err)
	_, iv2, err := box.Encrypt("token")
	require.NoError(t, err)

	assert.NotEqual(t, iv1, iv2)
}

func TestRandomSecret(t *testing.T) {
	s1, err := RandomSecret(32)
	require.NoError(t, err)
	assert.Len(t, s1, 32)

	s2, err := RandomSecret(32)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)

	for _, r := range s1 {
		assert.Contains(t, secretAlphabet, string(r))
	}
}
