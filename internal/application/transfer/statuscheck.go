package transfer

import "github.com/andrescamacho/transferproc/internal/domain/transfer"

// evaluateStatus implements the §4.3 checker matrix.
//
// ready reports whether a decision could be made at all: false means "no
// transition" because a checker is missing (managed resources) or no
// destination resource exists yet (unmanaged). done, only meaningful when
// ready is true, reports whether every resource's checker is satisfied.
func evaluateStatus(process *transfer.Process, registry transfer.StatusCheckerRegistry) (done bool, ready bool, err error) {
	resources := process.ProvisionedResourceSet.Resources

	if process.ManagedResources() {
		if len(resources) == 0 {
			return false, false, nil
		}
		allComplete := true
		for _, r := range resources {
			checker, found := registry.Resolve(r.ResourceType)
			if !found {
				return false, false, nil
			}
			complete, cerr := checker(process, r)
			if cerr != nil {
				return false, false, cerr
			}
			if !complete {
				allComplete = false
			}
		}
		return allComplete, true, nil
	}

	if !process.ProvisionedResourceSet.HasDestinationResource() {
		return false, false, nil
	}
	allComplete := true
	for _, r := range resources {
		checker, found := registry.Resolve(r.ResourceType)
		if !found {
			// Missing checker counts as done for that resource.
			continue
		}
		complete, cerr := checker(process, r)
		if cerr != nil {
			return false, false, cerr
		}
		if !complete {
			allComplete = false
		}
	}
	return allComplete, true, nil
}
