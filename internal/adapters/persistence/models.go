package persistence

import (
	"encoding/json"
	"time"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// ProcessModel is the gorm row backing transfer.Process. dataRequest,
// resourceManifest and provisionedResources are opaque to the scheduler,
// so they round-trip as JSON columns rather than normalized tables — the
// store never needs a join to reconstruct a process.
type ProcessModel struct {
	ID    string        `gorm:"primaryKey;column:id"`
	Type  string        `gorm:"column:type;not null"`
	State transfer.State `gorm:"column:state;not null;index"`

	DataRequestTransferID string `gorm:"column:data_request_transfer_id;uniqueIndex;not null"`
	DataRequest           []byte `gorm:"column:data_request;type:text"`
	ResourceManifest      []byte `gorm:"column:resource_manifest;type:text"`
	ProvisionedResources  []byte `gorm:"column:provisioned_resources;type:text"`

	ErrorDetail string `gorm:"column:error_detail"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

// TableName pins the table name regardless of gorm's pluralization rules.
func (ProcessModel) TableName() string {
	return "transfer_processes"
}

func toModel(p *transfer.Process) (*ProcessModel, error) {
	dataRequest, err := json.Marshal(p.DataRequest)
	if err != nil {
		return nil, err
	}
	manifest, err := json.Marshal(p.ResourceManifest)
	if err != nil {
		return nil, err
	}
	resources, err := json.Marshal(p.ProvisionedResourceSet)
	if err != nil {
		return nil, err
	}

	return &ProcessModel{
		ID:                    p.ID,
		Type:                  string(p.Type),
		State:                 p.State,
		DataRequestTransferID: p.DataRequest.ID,
		DataRequest:           dataRequest,
		ResourceManifest:      manifest,
		ProvisionedResources:  resources,
		ErrorDetail:           p.ErrorDetail,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}, nil
}

func fromModel(m *ProcessModel) (*transfer.Process, error) {
	p := &transfer.Process{
		ID:          m.ID,
		Type:        transfer.Type(m.Type),
		State:       m.State,
		ErrorDetail: m.ErrorDetail,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if len(m.DataRequest) > 0 {
		if err := json.Unmarshal(m.DataRequest, &p.DataRequest); err != nil {
			return nil, err
		}
	}
	if len(m.ResourceManifest) > 0 {
		if err := json.Unmarshal(m.ResourceManifest, &p.ResourceManifest); err != nil {
			return nil, err
		}
	}
	if len(m.ProvisionedResources) > 0 {
		if err := json.Unmarshal(m.ProvisionedResources, &p.ProvisionedResourceSet); err != nil {
			return nil, err
		}
	}
	return p, nil
}
