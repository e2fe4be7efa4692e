package registries

import "github.com/andrescamacho/transferproc/internal/domain/transfer"

// StatusCheckerRegistry is a keyed-dispatch-table implementation of
// transfer.StatusCheckerRegistry: resource type maps straight to a
// checker function, no inheritance hierarchy.
type StatusCheckerRegistry struct {
	checkers map[string]transfer.StatusChecker
}

// NewStatusCheckerRegistry creates an empty registry.
func NewStatusCheckerRegistry() *StatusCheckerRegistry {
	return &StatusCheckerRegistry{checkers: make(map[string]transfer.StatusChecker)}
}

var _ transfer.StatusCheckerRegistry = (*StatusCheckerRegistry)(nil)

// Register binds resourceType to checker.
func (r *StatusCheckerRegistry) Register(resourceType string, checker transfer.StatusChecker) {
	r.checkers[resourceType] = checker
}

// Resolve looks up the checker for resourceType.
func (r *StatusCheckerRegistry) Resolve(resourceType string) (transfer.StatusChecker, bool) {
	checker, ok := r.checkers[resourceType]
	return checker, ok
}
