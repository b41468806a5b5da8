package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	a, err := Generate(PrefixFetch)
	require.NoError(t, err)
	b := MustGenerate(PrefixFetch)

	assert.True(t, strings.HasPrefix(a, "fetch-"))
	assert.Len(t, a, len("fetch-")+21)
	assert.NotEqual(t, a, b)
}
