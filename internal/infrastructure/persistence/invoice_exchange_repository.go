package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/invoiceexchange"
	"github.com/truckticketing/backend/internal/domain/shared"
	"github.com/truckticketing/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceExchangeRepository implements the invoice-exchange Repository
// using GORM. The level finders exclude soft-deleted rows and order by
// creation time so duplicate rows at one level always resolve to the oldest.
type GormInvoiceExchangeRepository struct {
	db *gorm.DB
}

// NewGormInvoiceExchangeRepository creates a new GormInvoiceExchangeRepository
func NewGormInvoiceExchangeRepository(db *gorm.DB) *GormInvoiceExchangeRepository {
	return &GormInvoiceExchangeRepository{db: db}
}

// FindByID finds a config by its ID
func (r *GormInvoiceExchangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, error) {
	var model models.InvoiceExchangeConfigModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a config
func (r *GormInvoiceExchangeRepository) Save(ctx context.Context, config *invoiceexchange.InvoiceExchangeConfig) error {
	model := &models.InvoiceExchangeConfigModel{}
	model.FromDomain(config)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindGlobal returns the oldest non-deleted Global config for a platform, or
// nil when the platform has no base config.
func (r *GormInvoiceExchangeRepository) FindGlobal(ctx context.Context, platformCode string) (*invoiceexchange.InvoiceExchangeConfig, error) {
	return r.findOldest(ctx, r.db.WithContext(ctx).
		Where("platform_code = ? AND level = ?", platformCode, invoiceexchange.LevelGlobal))
}

// FindBusinessStreamConfig returns the oldest non-deleted BusinessStream level
// config on the given ancestry path, or nil.
func (r *GormInvoiceExchangeRepository) FindBusinessStreamConfig(ctx context.Context, platformCode string, rootID, businessStreamID uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, error) {
	return r.findOldest(ctx, r.db.WithContext(ctx).
		Where("platform_code = ? AND level = ?", platformCode, invoiceexchange.LevelBusinessStream).
		Where("root_invoice_exchange_id = ? AND business_stream_id = ?", rootID, businessStreamID))
}

// FindLegalEntityConfig returns the oldest non-deleted LegalEntity level
// config on the given ancestry path, or nil.
func (r *GormInvoiceExchangeRepository) FindLegalEntityConfig(ctx context.Context, platformCode string, rootID, businessStreamID, legalEntityID uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, error) {
	return r.findOldest(ctx, r.db.WithContext(ctx).
		Where("platform_code = ? AND level = ?", platformCode, invoiceexchange.LevelLegalEntity).
		Where("root_invoice_exchange_id = ? AND business_stream_id = ? AND legal_entity_id = ?",
			rootID, businessStreamID, legalEntityID))
}

// FindCustomerConfig returns the oldest non-deleted Customer level config on
// the given ancestry path, or nil.
func (r *GormInvoiceExchangeRepository) FindCustomerConfig(ctx context.Context, platformCode string, rootID, businessStreamID, legalEntityID, billingAccountID uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, error) {
	return r.findOldest(ctx, r.db.WithContext(ctx).
		Where("platform_code = ? AND level = ?", platformCode, invoiceexchange.LevelCustomer).
		Where("root_invoice_exchange_id = ? AND business_stream_id = ? AND legal_entity_id = ? AND billing_account_id = ?",
			rootID, businessStreamID, legalEntityID, billingAccountID))
}

// findOldest applies the shared non-deleted + oldest-wins constraints and
// maps an empty result to nil rather than an error.
func (r *GormInvoiceExchangeRepository) findOldest(ctx context.Context, query *gorm.DB) (*invoiceexchange.InvoiceExchangeConfig, error) {
	var model models.InvoiceExchangeConfigModel
	err := query.
		Where("is_deleted = ?", false).
		Order("created_at ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormInvoiceExchangeRepository implements Repository
var _ invoiceexchange.Repository = (*GormInvoiceExchangeRepository)(nil)
