package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/audit"
	"github.com/truckticketing/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEntityChangeRepository implements the audit ChangeRepository using GORM
type GormEntityChangeRepository struct {
	db *gorm.DB
}

// NewGormEntityChangeRepository creates a new GormEntityChangeRepository
func NewGormEntityChangeRepository(db *gorm.DB) *GormEntityChangeRepository {
	return &GormEntityChangeRepository{db: db}
}

// SaveAll persists a batch of audit rows in one insert
func (r *GormEntityChangeRepository) SaveAll(ctx context.Context, changes []audit.EntityChange) error {
	if len(changes) == 0 {
		return nil
	}

	changeModels := make([]models.EntityChangeModel, len(changes))
	for i, change := range changes {
		changeModels[i].FromDomain(change)
	}
	return r.db.WithContext(ctx).Create(&changeModels).Error
}

// FindByEntity lists the audit trail for an entity, newest first
func (r *GormEntityChangeRepository) FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]audit.EntityChange, error) {
	var changeModels []models.EntityChangeModel
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("recorded_at DESC").
		Find(&changeModels).Error; err != nil {
		return nil, err
	}

	changes := make([]audit.EntityChange, len(changeModels))
	for i, model := range changeModels {
		changes[i] = model.ToDomain()
	}
	return changes, nil
}

// Ensure GormEntityChangeRepository implements ChangeRepository
var _ audit.ChangeRepository = (*GormEntityChangeRepository)(nil)
