package invoiceexchange

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ix "github.com/truckticketing/backend/internal/domain/invoiceexchange"
	"github.com/truckticketing/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type storeConfigRepo struct {
	fakeConfigRepo
	byID map[uuid.UUID]*ix.InvoiceExchangeConfig
}

func newStoreConfigRepo() *storeConfigRepo {
	return &storeConfigRepo{byID: make(map[uuid.UUID]*ix.InvoiceExchangeConfig)}
}

func (r *storeConfigRepo) FindByID(_ context.Context, id uuid.UUID) (*ix.InvoiceExchangeConfig, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *storeConfigRepo) Save(_ context.Context, config *ix.InvoiceExchangeConfig) error {
	r.byID[config.ID] = config
	return nil
}

func validGlobalConfig() *ix.InvoiceExchangeConfig {
	return &ix.InvoiceExchangeConfig{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Level:             ix.LevelGlobal,
		PlatformCode:      "OPENINVOICE",
		InvoiceDelivery:   ix.DeliveryConfiguration{MessageAdapterType: ix.AdapterCsv},
	}
}

func TestConfigService_CreateConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("valid global config is persisted", func(t *testing.T) {
		repo := newStoreConfigRepo()
		service := NewConfigService(repo, zap.NewNop())

		cfg := validGlobalConfig()
		require.NoError(t, service.CreateConfig(ctx, cfg))

		stored, err := repo.FindByID(ctx, cfg.ID)
		require.NoError(t, err)
		assert.Equal(t, "OPENINVOICE", stored.PlatformCode)
	})

	t.Run("violations reject the write", func(t *testing.T) {
		repo := newStoreConfigRepo()
		service := NewConfigService(repo, zap.NewNop())

		cfg := validGlobalConfig()
		cfg.PlatformCode = ""
		err := service.CreateConfig(ctx, cfg)
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Result.HasCode(ix.CodePlatformCodeRequired))
		assert.Empty(t, repo.byID)
	})

	t.Run("dangling root reference is a violation, not an error", func(t *testing.T) {
		repo := newStoreConfigRepo()
		service := NewConfigService(repo, zap.NewNop())

		missing := uuid.New()
		bsID := uuid.New()
		cfg := validGlobalConfig()
		cfg.Level = ix.LevelBusinessStream
		cfg.RootInvoiceExchangeID = &missing
		cfg.BusinessStreamID = &bsID

		err := service.CreateConfig(ctx, cfg)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Result.HasCode(ix.CodeRootNotFound))
	})

	t.Run("child matching its root passes", func(t *testing.T) {
		repo := newStoreConfigRepo()
		service := NewConfigService(repo, zap.NewNop())

		root := validGlobalConfig()
		require.NoError(t, service.CreateConfig(ctx, root))

		bsID := uuid.New()
		child := validGlobalConfig()
		child.Level = ix.LevelBusinessStream
		child.RootInvoiceExchangeID = &root.ID
		child.BusinessStreamID = &bsID
		require.NoError(t, service.CreateConfig(ctx, child))
	})
}

func TestConfigService_DeleteConfig(t *testing.T) {
	ctx := context.Background()
	repo := newStoreConfigRepo()
	service := NewConfigService(repo, zap.NewNop())

	cfg := validGlobalConfig()
	require.NoError(t, service.CreateConfig(ctx, cfg))
	require.NoError(t, service.DeleteConfig(ctx, cfg.ID))

	stored, err := repo.FindByID(ctx, cfg.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.Equal(t, 2, stored.Version)

	assert.ErrorIs(t, service.DeleteConfig(ctx, uuid.New()), shared.ErrNotFound)
}
