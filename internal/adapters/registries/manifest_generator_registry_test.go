package registries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/transferproc/internal/adapters/registries"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

func TestManifestGeneratorRegistry_DispatchesByDestinationType(t *testing.T) {
	r := registries.NewManifestGeneratorRegistry()
	r.Register("S3", func(ctx context.Context, process *transfer.Process) (transfer.ResourceManifest, error) {
		return transfer.ResourceManifest{Definitions: []transfer.ResourceDefinition{{ID: "d1", ResourceType: "FILE"}}}, nil
	})
	process := &transfer.Process{DataRequest: transfer.DataRequest{DestinationType: "S3"}}

	manifest, err := r.GenerateResourceManifest(context.Background(), process)

	require.NoError(t, err)
	require.Len(t, manifest.Definitions, 1)
	assert.Equal(t, "FILE", manifest.Definitions[0].ResourceType)
}

func TestManifestGeneratorRegistry_NoGeneratorRegisteredErrors(t *testing.T) {
	r := registries.NewManifestGeneratorRegistry()
	process := &transfer.Process{DataRequest: transfer.DataRequest{DestinationType: "UNKNOWN"}}

	_, err := r.GenerateResourceManifest(context.Background(), process)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNKNOWN")
}
