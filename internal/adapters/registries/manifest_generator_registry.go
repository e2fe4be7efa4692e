package registries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// GeneratorFunc builds a resource manifest for a process.
type GeneratorFunc func(ctx context.Context, process *transfer.Process) (transfer.ResourceManifest, error)

// ManifestGeneratorRegistry dispatches manifest generation by
// dataRequest.destinationType, keyed-table style.
type ManifestGeneratorRegistry struct {
	generators map[string]GeneratorFunc
}

// NewManifestGeneratorRegistry creates an empty registry.
func NewManifestGeneratorRegistry() *ManifestGeneratorRegistry {
	return &ManifestGeneratorRegistry{generators: make(map[string]GeneratorFunc)}
}

var _ transfer.ResourceManifestGenerator = (*ManifestGeneratorRegistry)(nil)

// Register binds destinationType to fn.
func (r *ManifestGeneratorRegistry) Register(destinationType string, fn GeneratorFunc) {
	r.generators[destinationType] = fn
}

// GenerateResourceManifest dispatches to the generator registered for the
// process's destination type.
func (r *ManifestGeneratorRegistry) GenerateResourceManifest(ctx context.Context, process *transfer.Process) (transfer.ResourceManifest, error) {
	fn, ok := r.generators[process.DataRequest.DestinationType]
	if !ok {
		return transfer.ResourceManifest{}, fmt.Errorf("registries: no manifest generator for destination type %q", process.DataRequest.DestinationType)
	}
	return fn(ctx, process)
}
