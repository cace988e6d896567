package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/organization"
	"github.com/truckticketing/backend/internal/domain/shared"
	"github.com/truckticketing/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBusinessStreamRepository implements BusinessStreamRepository using GORM
type GormBusinessStreamRepository struct {
	db *gorm.DB
}

// NewGormBusinessStreamRepository creates a new GormBusinessStreamRepository
func NewGormBusinessStreamRepository(db *gorm.DB) *GormBusinessStreamRepository {
	return &GormBusinessStreamRepository{db: db}
}

// FindByID finds a business stream by its ID
func (r *GormBusinessStreamRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.BusinessStream, error) {
	var model models.BusinessStreamModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a business stream by its code
func (r *GormBusinessStreamRepository) FindByCode(ctx context.Context, code string) (*organization.BusinessStream, error) {
	var model models.BusinessStreamModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all business streams matching the filter
func (r *GormBusinessStreamRepository) FindAll(ctx context.Context, filter shared.Filter) ([]organization.BusinessStream, error) {
	var streamModels []models.BusinessStreamModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.BusinessStreamModel{}), filter, "name ASC")

	if err := query.Find(&streamModels).Error; err != nil {
		return nil, err
	}

	streams := make([]organization.BusinessStream, len(streamModels))
	for i, model := range streamModels {
		streams[i] = *model.ToDomain()
	}
	return streams, nil
}

// Save creates or updates a business stream
func (r *GormBusinessStreamRepository) Save(ctx context.Context, stream *organization.BusinessStream) error {
	model := &models.BusinessStreamModel{}
	model.FromDomain(stream)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a business stream
func (r *GormBusinessStreamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BusinessStreamModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBusinessStreamRepository implements BusinessStreamRepository
var _ organization.BusinessStreamRepository = (*GormBusinessStreamRepository)(nil)
