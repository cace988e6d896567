package invoiceexchange

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/truckticketing/backend/internal/domain/invoiceexchange"
	"github.com/truckticketing/backend/internal/domain/organization"
	"github.com/truckticketing/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ConfigCache caches resolved effective configurations per platform+customer.
// Implementations live in infrastructure/cache; a nil cache disables caching.
type ConfigCache interface {
	Get(ctx context.Context, platformCode string, customerID uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, bool, error)
	Set(ctx context.Context, platformCode string, customerID uuid.UUID, config *invoiceexchange.InvoiceExchangeConfig, ttl time.Duration) error
}

// ResolverService resolves the single effective invoice-exchange delivery
// configuration for a platform and customer by walking the four-level
// hierarchy and merging field mappings top-down.
type ResolverService struct {
	configRepo         invoiceexchange.Repository
	accountRepo        organization.AccountRepository
	legalEntityRepo    organization.LegalEntityRepository
	businessStreamRepo organization.BusinessStreamRepository
	cache              ConfigCache
	cacheTTL           time.Duration
	logger             *zap.Logger
}

// NewResolverService creates a new ResolverService
func NewResolverService(
	configRepo invoiceexchange.Repository,
	accountRepo organization.AccountRepository,
	legalEntityRepo organization.LegalEntityRepository,
	businessStreamRepo organization.BusinessStreamRepository,
	logger *zap.Logger,
) *ResolverService {
	return &ResolverService{
		configRepo:         configRepo,
		accountRepo:        accountRepo,
		legalEntityRepo:    legalEntityRepo,
		businessStreamRepo: businessStreamRepo,
		cacheTTL:           5 * time.Minute,
		logger:             logger,
	}
}

// WithCache enables caching of resolved configurations
func (s *ResolverService) WithCache(cache ConfigCache, ttl time.Duration) *ResolverService {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
	return s
}

// ResolveEffectiveConfig returns the effective delivery configuration for the
// platform and customer, or nil when no delivery path exists (missing
// ancestry or no Global base config). A nil result is an expected outcome,
// not an error; errors are reserved for infrastructure failures and fatal
// merge conditions.
func (s *ResolverService) ResolveEffectiveConfig(ctx context.Context, platformCode string, customerID uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, error) {
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, platformCode, customerID); err != nil {
			s.logger.Warn("Config cache lookup failed",
				zap.String("platform_code", platformCode),
				zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	ancestry, err := s.resolveAncestry(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if ancestry == nil {
		s.logger.Debug("No ancestry path for customer",
			zap.String("platform_code", platformCode),
			zap.String("customer_id", customerID.String()))
		return nil, nil
	}

	global, err := s.configRepo.FindGlobal(ctx, platformCode)
	if err != nil {
		return nil, err
	}
	if global == nil {
		s.logger.Debug("No global config for platform", zap.String("platform_code", platformCode))
		return nil, nil
	}

	bsConfig, err := s.configRepo.FindBusinessStreamConfig(ctx, platformCode, global.ID, ancestry.businessStream.ID)
	if err != nil {
		return nil, err
	}
	leConfig, err := s.configRepo.FindLegalEntityConfig(ctx, platformCode, global.ID, ancestry.businessStream.ID, ancestry.legalEntity.ID)
	if err != nil {
		return nil, err
	}
	custConfig, err := s.configRepo.FindCustomerConfig(ctx, platformCode, global.ID, ancestry.businessStream.ID, ancestry.legalEntity.ID, ancestry.account.ID)
	if err != nil {
		return nil, err
	}

	merged, err := invoiceexchange.MergeConfigs([]*invoiceexchange.InvoiceExchangeConfig{custConfig, leConfig, bsConfig, global})
	if err != nil {
		return nil, err
	}

	if s.cache != nil && merged != nil {
		if err := s.cache.Set(ctx, platformCode, customerID, merged, s.cacheTTL); err != nil {
			s.logger.Warn("Config cache store failed",
				zap.String("platform_code", platformCode),
				zap.Error(err))
		}
	}
	return merged, nil
}

type customerAncestry struct {
	account        *organization.Account
	legalEntity    *organization.LegalEntity
	businessStream *organization.BusinessStream
}

// resolveAncestry walks customer -> legal entity -> business stream. A broken
// link anywhere means no delivery path; that is reported as a nil ancestry,
// not an error.
func (s *ResolverService) resolveAncestry(ctx context.Context, customerID uuid.UUID) (*customerAncestry, error) {
	account, err := s.accountRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	legalEntity, err := s.legalEntityRepo.FindByID(ctx, account.LegalEntityID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	businessStream, err := s.businessStreamRepo.FindByID(ctx, legalEntity.BusinessStreamID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &customerAncestry{
		account:        account,
		legalEntity:    legalEntity,
		businessStream: businessStream,
	}, nil
}
