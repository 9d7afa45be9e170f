package pii

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault_RoundTrip(t *testing.T) {
	v, err := NewVault(strings.Repeat("0f", 32))
	require.NoError(t, err)

	c1, err := v.Encrypt("123-45-6789")
	require.NoError(t, err)
	c2, err := v.Encrypt("123-45-6789")
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2, "cada cifrado usa un nonce distinto")
	assert.NotContains(t, c1, "6789")

	plain, err := v.Decrypt(c1)
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", plain)
}

func TestVault_ClaveIncorrecta(t *testing.T) {
	a, _ := NewVault(strings.Repeat("0f", 32))
	b, _ := NewVault(strings.Repeat("a1", 32))
	c, _ := a.Encrypt("912-70-1234")
	_, err := b.Decrypt(c)
	assert.Error(t, err)
}

func TestNewVault_ClaveInvalida(t *testing.T) {
	_, err := NewVault("zz")
	assert.Error(t, err)
	_, err = NewVault(strings.Repeat("ab", 16))
	assert.Error(t, err)
}
