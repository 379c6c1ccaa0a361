package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrationDirsArePaired(t *testing.T) {
	require.NoError(t, ValidatePair(filepath.Join("migrations", "postgres"), filepath.Join("migrations", "sqlite")))
}

func TestPostgresMigrationsContainSchema(t *testing.T) {
	checks := map[string][]string{
		"*_create_users_table.sql": {
			"CREATE TYPE user_role AS ENUM",
			"CONSTRAINT users_email_key UNIQUE (email)",
		},
		"*_create_products_table.sql": {
			"CREATE TYPE product_category AS ENUM",
			"price NUMERIC(12,2) NOT NULL CHECK (price >= 0)",
			"tags TEXT[] NOT NULL",
			"CREATE INDEX IF NOT EXISTS idx_products_tags ON products USING GIN (tags)",
		},
		"*_create_carts_table.sql": {
			"CONSTRAINT carts_user_id_key UNIQUE (user_id)",
		},
		"*_create_orders_table.sql": {
			"CREATE TYPE order_status AS ENUM ('pending', 'processing', 'shipped', 'delivered', 'cancelled')",
			"CONSTRAINT orders_order_number_key UNIQUE (order_number)",
		},
	}

	for pattern, subs := range checks {
		matches, err := filepath.Glob(filepath.Join("migrations", "postgres", pattern))
		require.NoError(t, err)
		require.Len(t, matches, 1, pattern)

		data, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		for _, sub := range subs {
			assert.Contains(t, string(data), sub, pattern)
		}
	}
}

func TestUpAppliesSQLiteSchema(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_up?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)

	require.NoError(t, Up(context.Background(), sqlDB, config.DriverSQLite))

	for _, table := range []string{"users", "products", "carts", "orders"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}

	// re-running is a no-op
	require.NoError(t, Up(context.Background(), sqlDB, config.DriverSQLite))
}

func TestCreateSQLMigrationWritesPair(t *testing.T) {
	root := t.TempDir()
	pgDir := filepath.Join(root, "postgres")
	liteDir := filepath.Join(root, "sqlite")
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	paths, err := CreateSQLMigration(pgDir, liteDir, "Add Product Reviews!", now)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, p := range paths {
		assert.True(t, strings.HasSuffix(p, "20260302100000_add_product_reviews.sql"), p)
	}
	require.NoError(t, ValidatePair(pgDir, liteDir))

	_, err = CreateSQLMigration(pgDir, liteDir, "add product reviews", now)
	assert.Error(t, err)

	_, err = CreateSQLMigration(pgDir, liteDir, "!!!", now)
	assert.Error(t, err)
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	_, err := ValidateDir(dir)
	assert.Error(t, err)

	_, err = ValidateDir(t.TempDir())
	assert.Error(t, err)
}
