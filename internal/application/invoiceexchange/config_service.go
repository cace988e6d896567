package invoiceexchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/invoiceexchange"
	"github.com/truckticketing/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ValidationError carries the full set of hierarchy violations for a rejected
// write. The handler layer maps it to a 422 with the violation list.
type ValidationError struct {
	Result shared.ValidationResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed with %d violation(s)", len(e.Result.Violations))
}

// ConfigService manages invoice-exchange config nodes: structural validation
// against the hierarchy rules, persistence and soft deletion.
type ConfigService struct {
	configRepo invoiceexchange.Repository
	logger     *zap.Logger
}

// NewConfigService creates a new ConfigService
func NewConfigService(configRepo invoiceexchange.Repository, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		configRepo: configRepo,
		logger:     logger,
	}
}

// GetConfig returns a config node by ID
func (s *ConfigService) GetConfig(ctx context.Context, id uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, error) {
	return s.configRepo.FindByID(ctx, id)
}

// ValidateConfig runs the full hierarchy rule set against the target without
// persisting anything. The parent and, for updates, the previous state are
// loaded here so the domain rules stay free of repository concerns.
func (s *ConfigService) ValidateConfig(ctx context.Context, target *invoiceexchange.InvoiceExchangeConfig, operation invoiceexchange.Operation) (shared.ValidationResult, error) {
	vctx := invoiceexchange.ValidationContext{
		Target:    target,
		Operation: operation,
	}

	if target.RootInvoiceExchangeID != nil {
		parent, err := s.configRepo.FindByID(ctx, *target.RootInvoiceExchangeID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return shared.ValidationResult{}, err
		}
		vctx.Parent = parent
	}

	if operation == invoiceexchange.OperationUpdate {
		original, err := s.configRepo.FindByID(ctx, target.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return shared.ValidationResult{}, err
		}
		vctx.Original = original
	}

	return invoiceexchange.Validate(vctx), nil
}

// CreateConfig validates and persists a new config node
func (s *ConfigService) CreateConfig(ctx context.Context, target *invoiceexchange.InvoiceExchangeConfig) error {
	result, err := s.ValidateConfig(ctx, target, invoiceexchange.OperationInsert)
	if err != nil {
		return err
	}
	if !result.Valid() {
		return &ValidationError{Result: result}
	}

	if err := s.configRepo.Save(ctx, target); err != nil {
		return err
	}
	s.logger.Info("Invoice exchange config created",
		zap.String("config_id", target.ID.String()),
		zap.String("platform_code", target.PlatformCode),
		zap.String("level", target.Level.String()))
	return nil
}

// UpdateConfig validates and persists changes to an existing config node
func (s *ConfigService) UpdateConfig(ctx context.Context, target *invoiceexchange.InvoiceExchangeConfig) error {
	result, err := s.ValidateConfig(ctx, target, invoiceexchange.OperationUpdate)
	if err != nil {
		return err
	}
	if !result.Valid() {
		return &ValidationError{Result: result}
	}

	target.UpdatedAt = time.Now()
	target.IncrementVersion()
	if err := s.configRepo.Save(ctx, target); err != nil {
		return err
	}
	s.logger.Info("Invoice exchange config updated",
		zap.String("config_id", target.ID.String()),
		zap.String("platform_code", target.PlatformCode))
	return nil
}

// DeleteConfig soft-deletes a config node. Deleted nodes stop participating in
// resolution but stay in place for audit history.
func (s *ConfigService) DeleteConfig(ctx context.Context, id uuid.UUID) error {
	config, err := s.configRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	config.IsDeleted = true
	config.UpdatedAt = time.Now()
	config.IncrementVersion()
	if err := s.configRepo.Save(ctx, config); err != nil {
		return err
	}
	s.logger.Info("Invoice exchange config deleted",
		zap.String("config_id", id.String()),
		zap.String("platform_code", config.PlatformCode))
	return nil
}
