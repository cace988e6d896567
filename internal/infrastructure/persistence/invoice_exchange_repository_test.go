package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truckticketing/backend/internal/domain/invoiceexchange"
	"github.com/truckticketing/backend/internal/domain/shared"
	"github.com/truckticketing/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInvoiceExchangeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.InvoiceExchangeConfigModel{})
	require.NoError(t, err)

	return db
}

func newConfig(level invoiceexchange.ConfigLevel, platformCode string) *invoiceexchange.InvoiceExchangeConfig {
	return &invoiceexchange.InvoiceExchangeConfig{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Level:             level,
		PlatformCode:      platformCode,
		InvoiceDelivery: invoiceexchange.DeliveryConfiguration{
			MessageAdapterType: invoiceexchange.AdapterCsv,
			Mappings: invoiceexchange.FieldMappings{
				{ID: uuid.New(), DestinationHeaderTitle: "Amount"},
			},
		},
	}
}

func TestGormInvoiceExchangeRepository_SaveAndFindByID(t *testing.T) {
	db := setupInvoiceExchangeTestDB(t)
	repo := NewGormInvoiceExchangeRepository(db)
	ctx := context.Background()

	cfg := newConfig(invoiceexchange.LevelGlobal, "OPENINVOICE")
	require.NoError(t, repo.Save(ctx, cfg))

	found, err := repo.FindByID(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, found.ID)
	assert.Equal(t, invoiceexchange.LevelGlobal, found.Level)
	// JSONB round trip keeps the mappings.
	require.Len(t, found.InvoiceDelivery.Mappings, 1)
	assert.Equal(t, "Amount", found.InvoiceDelivery.Mappings[0].DestinationHeaderTitle)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvoiceExchangeRepository_FindGlobal(t *testing.T) {
	db := setupInvoiceExchangeTestDB(t)
	repo := NewGormInvoiceExchangeRepository(db)
	ctx := context.Background()

	t.Run("missing global yields nil without error", func(t *testing.T) {
		found, err := repo.FindGlobal(ctx, "UNKNOWN")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("oldest config wins on duplicates", func(t *testing.T) {
		older := newConfig(invoiceexchange.LevelGlobal, "OPENINVOICE")
		older.CreatedAt = time.Now().Add(-time.Hour)
		newer := newConfig(invoiceexchange.LevelGlobal, "OPENINVOICE")

		require.NoError(t, repo.Save(ctx, newer))
		require.NoError(t, repo.Save(ctx, older))

		found, err := repo.FindGlobal(ctx, "OPENINVOICE")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, older.ID, found.ID)
	})

	t.Run("soft-deleted configs are excluded", func(t *testing.T) {
		deleted := newConfig(invoiceexchange.LevelGlobal, "CORTEX")
		deleted.IsDeleted = true
		require.NoError(t, repo.Save(ctx, deleted))

		found, err := repo.FindGlobal(ctx, "CORTEX")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestGormInvoiceExchangeRepository_LevelFinders(t *testing.T) {
	db := setupInvoiceExchangeTestDB(t)
	repo := NewGormInvoiceExchangeRepository(db)
	ctx := context.Background()

	global := newConfig(invoiceexchange.LevelGlobal, "OPENINVOICE")
	require.NoError(t, repo.Save(ctx, global))

	bsID := uuid.New()
	leID := uuid.New()
	accountID := uuid.New()

	bsCfg := newConfig(invoiceexchange.LevelBusinessStream, "OPENINVOICE")
	bsCfg.RootInvoiceExchangeID = &global.ID
	bsCfg.BusinessStreamID = &bsID
	require.NoError(t, repo.Save(ctx, bsCfg))

	custCfg := newConfig(invoiceexchange.LevelCustomer, "OPENINVOICE")
	custCfg.RootInvoiceExchangeID = &global.ID
	custCfg.BusinessStreamID = &bsID
	custCfg.LegalEntityID = &leID
	custCfg.BillingAccountID = &accountID
	require.NoError(t, repo.Save(ctx, custCfg))

	t.Run("business stream finder narrows by ancestry", func(t *testing.T) {
		found, err := repo.FindBusinessStreamConfig(ctx, "OPENINVOICE", global.ID, bsID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, bsCfg.ID, found.ID)

		found, err = repo.FindBusinessStreamConfig(ctx, "OPENINVOICE", global.ID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("legal entity finder yields nil when level absent", func(t *testing.T) {
		found, err := repo.FindLegalEntityConfig(ctx, "OPENINVOICE", global.ID, bsID, leID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("customer finder requires the full path", func(t *testing.T) {
		found, err := repo.FindCustomerConfig(ctx, "OPENINVOICE", global.ID, bsID, leID, accountID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, custCfg.ID, found.ID)

		found, err = repo.FindCustomerConfig(ctx, "OPENINVOICE", global.ID, bsID, leID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
