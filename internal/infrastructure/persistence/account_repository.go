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

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccountNumber finds an account by its account number
func (r *GormAccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*organization.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLegalEntity finds all accounts under a legal entity
func (r *GormAccountRepository) FindByLegalEntity(ctx context.Context, legalEntityID uuid.UUID) ([]organization.Account, error) {
	var accountModels []models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("legal_entity_id = ?", legalEntityID).
		Order("account_number ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]organization.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// FindAll finds all accounts matching the filter
func (r *GormAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]organization.Account, error) {
	var accountModels []models.AccountModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.AccountModel{}), filter, "account_number ASC")

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]organization.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *organization.Account) error {
	model := &models.AccountModel{}
	model.FromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an account
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AccountModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAccountRepository implements AccountRepository
var _ organization.AccountRepository = (*GormAccountRepository)(nil)
