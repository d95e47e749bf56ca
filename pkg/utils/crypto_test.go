package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cryptoKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecrypt(t *testing.T) {
	encrypted, err := Encrypt([]byte("platform-access-token"), cryptoKey)
	require.NoError(t, err)
	assert.NotEqual(t, "platform-access-token", encrypted)

	plaintext, err := Decrypt(encrypted, cryptoKey)
	require.NoError(t, err)
	assert.Equal(t, "platform-access-token", plaintext)
}

func TestDecryptWrongKey(t *testing.T) {
	encrypted, err := Encrypt([]byte("platform-access-token"), cryptoKey)
	require.NoError(t, err)

	otherKey := []byte("ffffffffffffffffffffffffffffffff")
	_, err = Decrypt(encrypted, otherKey)
	assert.Error(t, err)
}

func TestDecryptTamperedData(t *testing.T) {
	_, err := Decrypt("bm90IHJlYWxseSBjaXBoZXJ0ZXh0IGF0IGFsbA==", cryptoKey)
	assert.Error(t, err)
}
