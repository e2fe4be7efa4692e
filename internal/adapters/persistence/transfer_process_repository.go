package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// TransferProcessRepositoryGORM is the reference TransferProcessStore
// adapter, backed by PostgreSQL or SQLite via gorm.
type TransferProcessRepositoryGORM struct {
	db *gorm.DB
}

// NewTransferProcessRepository wraps an already-connected *gorm.DB.
func NewTransferProcessRepository(db *gorm.DB) *TransferProcessRepositoryGORM {
	return &TransferProcessRepositoryGORM{db: db}
}

var _ transfer.Store = (*TransferProcessRepositoryGORM)(nil)

// NextForState returns up to batchSize processes currently in state,
// ordered by UpdatedAt so the oldest-waiting processes are served first.
func (r *TransferProcessRepositoryGORM) NextForState(ctx context.Context, state transfer.State, batchSize int) ([]*transfer.Process, error) {
	var models []ProcessModel
	if err := r.db.WithContext(ctx).
		Where("state = ?", state).
		Order("updated_at ASC").
		Limit(batchSize).
		Find(&models).Error; err != nil {
		return nil, err
	}

	processes := make([]*transfer.Process, 0, len(models))
	for i := range models {
		p, err := fromModel(&models[i])
		if err != nil {
			return nil, err
		}
		processes = append(processes, p)
	}
	return processes, nil
}

// Find returns the process with id, or transfer.ErrProcessNotFound.
func (r *TransferProcessRepositoryGORM) Find(ctx context.Context, id string) (*transfer.Process, error) {
	var model ProcessModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transfer.ErrProcessNotFound
		}
		return nil, err
	}
	return fromModel(&model)
}

// Create persists a new process, rejecting duplicate ids.
func (r *TransferProcessRepositoryGORM) Create(ctx context.Context, process *transfer.Process) error {
	model, err := toModel(process)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return transfer.ErrDuplicateProcess
		}
		return err
	}
	return nil
}

// Update persists a mutated process, running the Save within a transaction.
// Only the write is inside that transaction: the Find that a handler's async
// callback performs before mutating (§5's race policy) is a separate read, so
// the read-modify-write as a whole is not atomic at the store boundary.
func (r *TransferProcessRepositoryGORM) Update(ctx context.Context, process *transfer.Process) error {
	model, err := toModel(process)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Save(model).Error
	})
}

// ProcessIDForTransferID looks up the process backing a transfer id.
func (r *TransferProcessRepositoryGORM) ProcessIDForTransferID(ctx context.Context, transferID string) (string, error) {
	var model ProcessModel
	if err := r.db.WithContext(ctx).
		Select("id").
		First(&model, "data_request_transfer_id = ?", transferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", transfer.ErrProcessNotFound
		}
		return "", err
	}
	return model.ID, nil
}

func isUniqueViolation(err error) bool {
	// gorm surfaces driver-specific unique-violation errors; string
	// matching keeps this adapter independent of which driver
	// (postgres/sqlite) is in play.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "duplicate key value")
}
