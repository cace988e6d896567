package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/organization"
	"github.com/truckticketing/backend/internal/domain/shared"
	"github.com/truckticketing/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLegalEntityRepository implements LegalEntityRepository using GORM
type GormLegalEntityRepository struct {
	db *gorm.DB
}

// NewGormLegalEntityRepository creates a new GormLegalEntityRepository
func NewGormLegalEntityRepository(db *gorm.DB) *GormLegalEntityRepository {
	return &GormLegalEntityRepository{db: db}
}

// FindByID finds a legal entity by its ID
func (r *GormLegalEntityRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.LegalEntity, error) {
	var model models.LegalEntityModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBusinessStream finds all legal entities under a business stream
func (r *GormLegalEntityRepository) FindByBusinessStream(ctx context.Context, businessStreamID uuid.UUID) ([]organization.LegalEntity, error) {
	var entityModels []models.LegalEntityModel
	if err := r.db.WithContext(ctx).
		Where("business_stream_id = ?", businessStreamID).
		Order("name ASC").
		Find(&entityModels).Error; err != nil {
		return nil, err
	}

	entities := make([]organization.LegalEntity, len(entityModels))
	for i, model := range entityModels {
		entities[i] = *model.ToDomain()
	}
	return entities, nil
}

// FindAll finds all legal entities matching the filter
func (r *GormLegalEntityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]organization.LegalEntity, error) {
	var entityModels []models.LegalEntityModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.LegalEntityModel{}), filter, "name ASC")

	if err := query.Find(&entityModels).Error; err != nil {
		return nil, err
	}

	entities := make([]organization.LegalEntity, len(entityModels))
	for i, model := range entityModels {
		entities[i] = *model.ToDomain()
	}
	return entities, nil
}

// Save creates or updates a legal entity
func (r *GormLegalEntityRepository) Save(ctx context.Context, entity *organization.LegalEntity) error {
	model := &models.LegalEntityModel{}
	model.FromDomain(entity)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a legal entity
func (r *GormLegalEntityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LegalEntityModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormLegalEntityRepository implements LegalEntityRepository
var _ organization.LegalEntityRepository = (*GormLegalEntityRepository)(nil)
