package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbushq/nimbusflags/pkg/token"
)

func TestNew(t *testing.T) {
	t.Parallel()

	key, err := token.New("nf_live_")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "nf_live_"))
	assert.Greater(t, len(key), len("nf_live_")+32)

	other, err := token.New("nf_live_")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	bare, err := token.New("")
	require.NoError(t, err)
	assert.NotEmpty(t, bare)
}

func TestHash(t *testing.T) {
	t.Parallel()

	h := token.Hash("nf_live_abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, token.Hash("nf_live_abc"))
	assert.NotEqual(t, h, token.Hash("nf_live_abd"))
}
