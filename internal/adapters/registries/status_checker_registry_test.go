package registries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/transferproc/internal/adapters/registries"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

func TestStatusCheckerRegistry_ResolveReturnsRegisteredChecker(t *testing.T) {
	r := registries.NewStatusCheckerRegistry()
	r.Register("FILE", func(process *transfer.Process, resource transfer.ProvisionedResource) (bool, error) {
		return true, nil
	})

	checker, ok := r.Resolve("FILE")

	require.True(t, ok)
	ready, err := checker(&transfer.Process{}, transfer.ProvisionedResource{})
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestStatusCheckerRegistry_ResolveUnregisteredReturnsFalse(t *testing.T) {
	r := registries.NewStatusCheckerRegistry()

	_, ok := r.Resolve("UNKNOWN")

	assert.False(t, ok)
}
