package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"users", "products", "prompts", "stacks", "collections", "agents"} {
		kind, err := ParseKind(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, kind.String())
	}

	_, err := ParseKind("widgets")
	require.ErrorIs(t, err, ErrValidation)

	_, err = ParseKind("")
	require.ErrorIs(t, err, ErrValidation)

	// Kind strings are case-sensitive.
	_, err = ParseKind("Users")
	require.ErrorIs(t, err, ErrValidation)
}

func TestContentKinds_ExcludeUsers(t *testing.T) {
	t.Parallel()

	kinds := ContentKinds()
	assert.Len(t, kinds, 5)
	assert.NotContains(t, kinds, KindUser)
}
