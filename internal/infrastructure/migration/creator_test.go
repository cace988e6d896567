package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add truck tickets table", "add_truck_tickets_table"},
		{"Add-Truck-Tickets", "add_truck_tickets"},
		{"ADD_FIELD_CHANGES", "add_field_changes"},
		{"add__void__columns", "add_void_columns"},
		{"Widen Weight 123", "widen_weight_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add truck tickets table", "Create truck_tickets with status and load columns")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// Version is a YYYYMMDDHHMMSS timestamp
	assert.Len(t, mf.Version, 14)

	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add truck tickets table")
	assert.Contains(t, string(upContent), "Create truck_tickets with status and load columns")
	assert.Contains(t, string(upContent), "Write your UP migration SQL here")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Rollback")
	assert.Contains(t, string(downContent), "Write your DOWN migration SQL here")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(nested, "add accounts", "Create accounts table")
	require.NoError(t, err)
	require.NotNil(t, mf)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	writeFiles := func(t *testing.T, dir string, names ...string) {
		t.Helper()
		for _, name := range names {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0644))
		}
	}

	t.Run("lists unique migration names", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir,
			"000001_create_organization_tables.up.sql",
			"000001_create_organization_tables.down.sql",
			"000002_create_truck_tickets.up.sql",
			"000002_create_truck_tickets.down.sql",
			"000003_create_field_changes.up.sql",
			"000003_create_field_changes.down.sql",
		)

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Len(t, migrations, 3)
		assert.Contains(t, migrations, "000001_create_organization_tables")
		assert.Contains(t, migrations, "000002_create_truck_tickets")
		assert.Contains(t, migrations, "000003_create_field_changes")
	})

	t.Run("empty directory", func(t *testing.T) {
		migrations, err := ListMigrations(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		migrations, err := ListMigrations("/nonexistent/path/to/migrations")
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("ignores non-migration files", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir,
			"000001_create_accounts.up.sql",
			"000001_create_accounts.down.sql",
			"README.md",
			"config.yaml",
			".gitkeep",
		)

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Len(t, migrations, 1)
		assert.Contains(t, migrations, "000001_create_accounts")
	})

	t.Run("ignores directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir,
			"000001_create_accounts.up.sql",
			"000001_create_accounts.down.sql",
		)
		require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.up.sql"), 0755))

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Len(t, migrations, 1)
	})
}
