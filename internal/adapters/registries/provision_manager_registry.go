package registries

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// ProvisionerFunc provisions one resource definition,
// synchronously from the goroutine the registry starts for it.
type ProvisionerFunc func(ctx context.Context, process *transfer.Process, definition transfer.ResourceDefinition) (transfer.ProvisionResponse, error)

// DeprovisionerFunc tears down one previously-provisioned resource.
type DeprovisionerFunc func(ctx context.Context, process *transfer.Process, resource transfer.ProvisionedResource) (transfer.DeprovisionResponse, error)

// ProvisionManagerRegistry is a keyed-dispatch-table ProvisionManager:
// resource type maps to the provisioner/deprovisioner function that knows
// how to bring that kind of resource up or down. Each call fans the
// manifest (or provisioned set) out over goroutines and reports the
// aggregate result to onComplete exactly once.
type ProvisionManagerRegistry struct {
	provisioners   map[string]ProvisionerFunc
	deprovisioners map[string]DeprovisionerFunc
}

// NewProvisionManagerRegistry creates an empty registry.
func NewProvisionManagerRegistry() *ProvisionManagerRegistry {
	return &ProvisionManagerRegistry{
		provisioners:   make(map[string]ProvisionerFunc),
		deprovisioners: make(map[string]DeprovisionerFunc),
	}
}

var _ transfer.ProvisionManager = (*ProvisionManagerRegistry)(nil)

// RegisterProvisioner binds resourceType to a provisioner.
func (r *ProvisionManagerRegistry) RegisterProvisioner(resourceType string, fn ProvisionerFunc) {
	r.provisioners[resourceType] = fn
}

// RegisterDeprovisioner binds resourceType to a deprovisioner.
func (r *ProvisionManagerRegistry) RegisterDeprovisioner(resourceType string, fn DeprovisionerFunc) {
	r.deprovisioners[resourceType] = fn
}

// Provision starts one goroutine per manifest definition and invokes
// onComplete once every definition has resolved; if any failed, it reports
// the first error in manifest order and no responses.
func (r *ProvisionManagerRegistry) Provision(ctx context.Context, process *transfer.Process, onComplete func([]transfer.ProvisionResponse, error)) {
	definitions := process.ResourceManifest.Definitions
	go func() {
		responses := make([]transfer.ProvisionResponse, len(definitions))
		errs := make([]error, len(definitions))

		var wg sync.WaitGroup
		for i, def := range definitions {
			fn, ok := r.provisioners[def.ResourceType]
			if !ok {
				errs[i] = fmt.Errorf("registries: no provisioner for resource type %q", def.ResourceType)
				continue
			}
			wg.Add(1)
			go func(i int, def transfer.ResourceDefinition, fn ProvisionerFunc) {
				defer wg.Done()
				resp, err := fn(ctx, process, def)
				responses[i] = resp
				errs[i] = err
			}(i, def, fn)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				onComplete(nil, err)
				return
			}
		}
		onComplete(responses, nil)
	}()
}

// Deprovision mirrors Provision over the process's already-provisioned
// resources.
func (r *ProvisionManagerRegistry) Deprovision(ctx context.Context, process *transfer.Process, onComplete func([]transfer.DeprovisionResponse, error)) {
	resources := process.ProvisionedResourceSet.Resources
	go func() {
		responses := make([]transfer.DeprovisionResponse, len(resources))
		errs := make([]error, len(resources))

		var wg sync.WaitGroup
		for i, res := range resources {
			fn, ok := r.deprovisioners[res.ResourceType]
			if !ok {
				errs[i] = fmt.Errorf("registries: no deprovisioner for resource type %q", res.ResourceType)
				continue
			}
			wg.Add(1)
			go func(i int, res transfer.ProvisionedResource, fn DeprovisionerFunc) {
				defer wg.Done()
				resp, err := fn(ctx, process, res)
				responses[i] = resp
				errs[i] = err
			}(i, res, fn)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				onComplete(nil, err)
				return
			}
		}
		onComplete(responses, nil)
	}()
}
