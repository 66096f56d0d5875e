package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestNewCipherRejectsBadKeyLength(t *testing.T) {
	_, err := NewCipher([]byte("too short"))
	assert.Error(t, err)

	_, err = NewCipher(testKey)
	assert.NoError(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	plain := "Today I finally kept my streak going."
	enc, err := c.Encrypt(plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, enc)
	assert.False(t, strings.Contains(enc, "streak"))

	dec, err := c.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, plain, dec)
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	a, err := c.Encrypt("same text")
	require.NoError(t, err)
	b, err := c.Encrypt("same text")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEmptyStringPassesThrough(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	enc, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", enc)

	dec, err := c.Decrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", dec)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	_, err = c.Decrypt("not base64 at all!!!")
	assert.Error(t, err)

	_, err = c.Decrypt("c2hvcnQ=") // valid base64, shorter than a nonce
	assert.Error(t, err)
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	c1, err := NewCipher(testKey)
	require.NoError(t, err)
	c2, err := NewCipher([]byte("another-32-byte-key-for-testing!"))
	require.NoError(t, err)

	enc, err := c1.Encrypt("secret reflection")
	require.NoError(t, err)

	_, err = c2.Decrypt(enc)
	assert.Error(t, err)
}
