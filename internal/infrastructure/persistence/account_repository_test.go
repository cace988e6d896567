package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truckticketing/backend/internal/domain/organization"
	"github.com/truckticketing/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockAccountRepository creates a GormAccountRepository with a mocked SQL connection
func newMockAccountRepository(t *testing.T) (*GormAccountRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormAccountRepository(gormDB), mock, mockDB
}

func TestGormAccountRepository_FindByID(t *testing.T) {
	t.Run("finds existing account", func(t *testing.T) {
		repo, mock, mockDB := newMockAccountRepository(t)
		defer mockDB.Close()

		accountID := uuid.New()
		legalEntityID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "legal_entity_id", "account_number", "name", "status"}).
			AddRow(accountID, legalEntityID, "ACC-1001", "Pioneer Resources", "ACTIVE")

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(accountID, 1).
			WillReturnRows(rows)

		account, err := repo.FindByID(context.Background(), accountID)

		assert.NoError(t, err)
		assert.NotNil(t, account)
		assert.Equal(t, accountID, account.ID)
		assert.Equal(t, "ACC-1001", account.AccountNumber)
		assert.Equal(t, organization.AccountStatusActive, account.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent account", func(t *testing.T) {
		repo, mock, mockDB := newMockAccountRepository(t)
		defer mockDB.Close()

		accountID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(accountID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		account, err := repo.FindByID(context.Background(), accountID)

		assert.Error(t, err)
		assert.Nil(t, account)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccountRepository_FindByAccountNumber(t *testing.T) {
	t.Run("finds account by number", func(t *testing.T) {
		repo, mock, mockDB := newMockAccountRepository(t)
		defer mockDB.Close()

		accountID := uuid.New()
		legalEntityID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "legal_entity_id", "account_number", "name", "status"}).
			AddRow(accountID, legalEntityID, "ACC-1001", "Pioneer Resources", "ACTIVE")

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE account_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ACC-1001", 1).
			WillReturnRows(rows)

		account, err := repo.FindByAccountNumber(context.Background(), "ACC-1001")

		assert.NoError(t, err)
		assert.NotNil(t, account)
		assert.Equal(t, accountID, account.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown number", func(t *testing.T) {
		repo, mock, mockDB := newMockAccountRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE account_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ACC-9999", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		account, err := repo.FindByAccountNumber(context.Background(), "ACC-9999")

		assert.Error(t, err)
		assert.Nil(t, account)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccountRepository_FindByLegalEntity(t *testing.T) {
	t.Run("lists accounts ordered by account number", func(t *testing.T) {
		repo, mock, mockDB := newMockAccountRepository(t)
		defer mockDB.Close()

		legalEntityID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "legal_entity_id", "account_number", "name", "status"}).
			AddRow(uuid.New(), legalEntityID, "ACC-1001", "Pioneer Resources", "ACTIVE").
			AddRow(uuid.New(), legalEntityID, "ACC-1002", "Summit Energy", "INACTIVE")

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE legal_entity_id = \$1 ORDER BY account_number ASC`).
			WithArgs(legalEntityID).
			WillReturnRows(rows)

		accounts, err := repo.FindByLegalEntity(context.Background(), legalEntityID)

		assert.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "ACC-1001", accounts[0].AccountNumber)
		assert.Equal(t, organization.AccountStatusInactive, accounts[1].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
