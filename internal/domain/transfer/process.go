package transfer

import "time"

// Type distinguishes which side of a transfer a process drives.
type Type string

const (
	TypeConsumer Type = "CONSUMER"
	TypeProvider Type = "PROVIDER"
)

// TransferType carries the finite/non-finite fork that decides whether a
// process moves to IN_PROGRESS or STREAMING once requested.
type TransferType struct {
	IsFinite bool `json:"isFinite"`
}

// DataRequest is the immutable request that spawned a process. Connector,
// protocol and destination descriptors are opaque to the scheduler; they
// round-trip through the store without interpretation.
type DataRequest struct {
	// ID is the transfer id: distinct from the process id, used for
	// idempotent initiation.
	ID               string       `json:"id"`
	DestinationType  string       `json:"destinationType"`
	TransferType     TransferType `json:"transferType"`
	ManagedResources bool         `json:"managedResources"`

	Connector   map[string]string `json:"connector,omitempty"`
	Protocol    map[string]string `json:"protocol,omitempty"`
	Destination map[string]string `json:"destination,omitempty"`
}

// ResourceDefinition is one entry of a process's resource manifest:
// declares a resource that must be provisioned before the transfer can
// proceed.
type ResourceDefinition struct {
	ID           string `json:"id"`
	ResourceType string `json:"resourceType"`
}

// ResourceManifest is the ordered set of ResourceDefinitions produced by
// the manifest generator; fixed once assigned to a process.
type ResourceManifest struct {
	Definitions []ResourceDefinition `json:"definitions"`
}

// Empty reports whether the manifest has no definitions, letting INITIAL
// skip straight to PROVISIONED.
func (m ResourceManifest) Empty() bool {
	return len(m.Definitions) == 0
}

// ProvisionedResource is a concrete, externally-allocated endpoint attached
// to a process. IsDestination tags the variant the scheduler treats as a
// ProvisionedDataDestinationResource; no other polymorphism is needed.
type ProvisionedResource struct {
	ID                   string `json:"id"`
	ResourceDefinitionID string `json:"resourceDefinitionId"`
	ResourceType         string `json:"resourceType"`
	IsDestination        bool   `json:"isDestination"`

	// SecretToken, when present, is an opaque credential handed back by the
	// provisioner alongside the resource.
	SecretToken *string `json:"secretToken,omitempty"`
}

// ProvisionedResourceSet is the ordered set of ProvisionedResources
// attached to a process, keyed by resource id.
type ProvisionedResourceSet struct {
	Resources []ProvisionedResource `json:"resources"`
}

// HasDestinationResource reports whether any resource in the set is a
// ProvisionedDataDestinationResource.
func (s ProvisionedResourceSet) HasDestinationResource() bool {
	for _, r := range s.Resources {
		if r.IsDestination {
			return true
		}
	}
	return false
}

// Add appends r to the set.
func (s *ProvisionedResourceSet) Add(r ProvisionedResource) {
	s.Resources = append(s.Resources, r)
}

// Process is the unit of work driven by the scheduler: a persisted state
// machine instance tracking one data-transfer job.
type Process struct {
	ID    string `json:"id"`
	Type  Type   `json:"type"`
	State State  `json:"state"`

	DataRequest            DataRequest            `json:"dataRequest"`
	ResourceManifest       ResourceManifest       `json:"resourceManifest"`
	ProvisionedResourceSet ProvisionedResourceSet `json:"provisionedResourceSet"`

	ErrorDetail string `json:"errorDetail,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New constructs a process in its initial state. Callers (the idempotent
// initiation use case) assign id and type.
func New(id string, typ Type, dataRequest DataRequest, now time.Time) *Process {
	return &Process{
		ID:          id,
		Type:        typ,
		State:       StateInitial,
		DataRequest: dataRequest,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TransitionTo moves p to state, stamping UpdatedAt. It does not validate
// the transition against the handler graph — that validation lives in the
// state handlers themselves, which only ever call TransitionTo with a
// target they have already decided is legal.
func (p *Process) TransitionTo(state State, now time.Time) {
	p.State = state
	p.UpdatedAt = now
}

// Fail transitions p to ERROR with detail set from cause, per §7's
// provisioning/deprovisioning failure taxonomy.
func (p *Process) Fail(detail string, now time.Time) {
	p.ErrorDetail = detail
	p.TransitionTo(StateError, now)
}

// ManagedResources reports whether the local side provisions and later
// deprovisions resources for this process.
func (p *Process) ManagedResources() bool {
	return p.DataRequest.ManagedResources
}
