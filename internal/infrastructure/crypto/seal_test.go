package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	plaintext := []byte(`{"users":[{"id":"1"}]}`)

	sealed, err := Seal("rahasia", plaintext)
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, string(sealed), "users")

	got, err := Open("rahasia", sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestOpen_Errors(t *testing.T) {
	sealed, err := Seal("rahasia", []byte("data"))
	require.NoError(t, err)

	_, err = Open("salah", sealed)
	assert.ErrorIs(t, err, ErrWrongPassphrase)

	_, err = Open("rahasia", []byte(`{"plain":true}`))
	assert.ErrorIs(t, err, ErrNotSealed)

	_, err = Open("rahasia", sealed[:len(magic)+4])
	assert.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestSeal_FreshSaltEachTime(t *testing.T) {
	a, err := Seal("p", []byte("x"))
	require.NoError(t, err)
	b, err := Seal("p", []byte("x"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
