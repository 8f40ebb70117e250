package domainerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKind(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("gateway: %w", ErrNotFound)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAlreadyExists))
	assert.True(t, IsNotFound(err))
}

func TestError_InvalidSentinelMatchesAnyReason(t *testing.T) {
	t.Parallel()

	err := Invalid("Usuario")

	assert.True(t, errors.Is(err, ErrInvalid))
	assert.True(t, errors.Is(err, Invalid("Usuario")))
	assert.False(t, errors.Is(err, Invalid("Cliente")))
	assert.Equal(t, "invalid: Usuario", err.Error())
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	kind, ok := KindOf(fmt.Errorf("wrap: %w", Invalidf("column %q", "cpf")))
	require.True(t, ok)
	assert.Equal(t, KindInvalid, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "empty", ErrEmpty.Error())
	assert.Equal(t, "non positive", ErrNonPositive.Error())
	assert.Equal(t, "unauthorized", ErrUnauthorized.Error())
	assert.Equal(t, "unknown", Kind(99).String())
}
