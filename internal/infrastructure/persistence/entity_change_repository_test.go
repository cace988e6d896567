package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truckticketing/backend/internal/domain/audit"
	"github.com/truckticketing/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupEntityChangeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.EntityChangeModel{})
	require.NoError(t, err)

	return db
}

func strPtr(s string) *string { return &s }

func TestGormEntityChangeRepository_SaveAllAndFindByEntity(t *testing.T) {
	db := setupEntityChangeTestDB(t)
	repo := NewGormEntityChangeRepository(db)
	ctx := context.Background()

	entityID := uuid.New()

	first := audit.NewEntityChange("TruckTicket", entityID, "INSERT", audit.FieldChange{
		FieldName:     "status",
		FieldLocation: "status",
		Operation:     audit.ChangeAdded,
		ValueAfter:    strPtr(`"OPEN"`),
	})
	first.RecordedAt = time.Now().Add(-time.Hour)

	second := audit.NewEntityChange("TruckTicket", entityID, "UPDATE", audit.FieldChange{
		FieldName:     "status",
		FieldLocation: "status",
		Operation:     audit.ChangeUpdated,
		ValueBefore:   strPtr(`"OPEN"`),
		ValueAfter:    strPtr(`"APPROVED"`),
	})

	require.NoError(t, repo.SaveAll(ctx, []audit.EntityChange{first}))
	require.NoError(t, repo.SaveAll(ctx, []audit.EntityChange{second}))

	changes, err := repo.FindByEntity(ctx, "TruckTicket", entityID)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	// Newest first.
	assert.Equal(t, second.ID, changes[0].ID)
	assert.Equal(t, "UPDATE", changes[0].Operation)
	require.NotNil(t, changes[0].ValueBefore)
	assert.Equal(t, `"OPEN"`, *changes[0].ValueBefore)

	assert.Equal(t, first.ID, changes[1].ID)
	assert.Equal(t, audit.ChangeAdded, changes[1].FieldChange.Operation)
	assert.Nil(t, changes[1].ValueBefore)
}

func TestGormEntityChangeRepository_FindByEntity_ScopesByTypeAndID(t *testing.T) {
	db := setupEntityChangeTestDB(t)
	repo := NewGormEntityChangeRepository(db)
	ctx := context.Background()

	ticketID := uuid.New()
	configID := uuid.New()

	rows := []audit.EntityChange{
		audit.NewEntityChange("TruckTicket", ticketID, "INSERT", audit.FieldChange{
			FieldName: "remark", FieldLocation: "remark", Operation: audit.ChangeAdded,
		}),
		audit.NewEntityChange("InvoiceExchangeConfig", configID, "UPDATE", audit.FieldChange{
			FieldName: "platform_code", FieldLocation: "platform_code", Operation: audit.ChangeUpdated,
		}),
	}
	require.NoError(t, repo.SaveAll(ctx, rows))

	changes, err := repo.FindByEntity(ctx, "TruckTicket", ticketID)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "remark", changes[0].FieldName)

	changes, err = repo.FindByEntity(ctx, "TruckTicket", configID)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestGormEntityChangeRepository_SaveAll_EmptyBatch(t *testing.T) {
	db := setupEntityChangeTestDB(t)
	repo := NewGormEntityChangeRepository(db)

	assert.NoError(t, repo.SaveAll(context.Background(), nil))
}
