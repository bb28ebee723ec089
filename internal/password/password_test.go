package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashNeverEqualsPlaintext(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
}

func TestHashRejectsEmptyPlaintext(t *testing.T) {
	_, err := Hash("")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)

	assert.True(t, Verify(hash, "secret1"))
	assert.False(t, Verify(hash, "secret2"))
	assert.False(t, Verify("", "secret1"))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := Hash("secret1")
	require.NoError(t, err)
	h2, err := Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
