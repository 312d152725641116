//go:build integration
// +build integration

package store_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/01moynul/inventory-tracker/internal/config"
	"github.com/01moynul/inventory-tracker/internal/database"
	"github.com/01moynul/inventory-tracker/internal/models"
	"github.com/01moynul/inventory-tracker/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// openSQLStore connects through database.OpenDB, the same path main uses,
// and migrates the schema.
func openSQLStore(t *testing.T, driver, dsn string) *store.SQLStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenDB(config.Database{
		Driver:          driver,
		DSN:             dsn,
		MaxOpenConns:    10,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dialect, err := store.ParseDialect(driver)
	require.NoError(t, err)

	s := store.NewSQLStore(db, dialect)
	require.NoError(t, s.EnsureSchema(ctx))
	// Running it twice must be harmless.
	require.NoError(t, s.EnsureSchema(ctx))
	return s
}

// setupPostgresStore starts a PostgreSQL container and returns a migrated store.
func setupPostgresStore(t *testing.T) *store.SQLStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("inventory"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return openSQLStore(t, "postgres", connStr)
}

// setupMySQLStore starts a MySQL container and returns a migrated store.
// The DSN carries no parseTime flag; OpenDB has to add it.
func setupMySQLStore(t *testing.T) *store.SQLStore {
	t.Helper()
	ctx := context.Background()

	myContainer, err := tcmysql.Run(ctx,
		"mysql:8.0",
		tcmysql.WithDatabase("inventory"),
		tcmysql.WithUsername("testuser"),
		tcmysql.WithPassword("testpass"),
	)
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := myContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := myContainer.ConnectionString(ctx)
	require.NoError(t, err)
	return openSQLStore(t, "mysql", dsn)
}

func TestSQLStorePostgres(t *testing.T) {
	runSQLStoreSuite(t, setupPostgresStore(t))
}

func TestSQLStoreMySQL(t *testing.T) {
	runSQLStoreSuite(t, setupMySQLStore(t))
}

func runSQLStoreSuite(t *testing.T, s *store.SQLStore) {
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	laptop, err := s.CreateItem(ctx, models.NewItem{
		Name: "Laptop Computer", SKU: "LAPTOP-001", Description: "High-performance laptop",
		Price: decimal.RequireFromString("999.99"), Quantity: 5,
	})
	require.NoError(t, err)
	assert.Positive(t, laptop.ID)
	assert.False(t, laptop.CreatedAt.IsZero())
	assert.True(t, decimal.RequireFromString("999.99").Equal(laptop.Price))

	cable, err := s.CreateItem(ctx, models.NewItem{
		Name: "USB-C Cable", SKU: "USB_C-001", Description: "Fast charging 100% copper", Quantity: 100,
	})
	require.NoError(t, err)
	assert.Greater(t, cable.ID, laptop.ID)

	t.Run("duplicate sku", func(t *testing.T) {
		_, err := s.CreateItem(ctx, models.NewItem{Name: "Other", SKU: "LAPTOP-001", Quantity: 1})
		assert.ErrorIs(t, err, store.ErrDuplicateSKU)
	})

	t.Run("list and search", func(t *testing.T) {
		all, err := s.ListItems(ctx, models.ItemQuery{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, cable.ID, all[0].ID)

		byDesc, err := s.ListItems(ctx, models.ItemQuery{Text: "high-performance"})
		require.NoError(t, err)
		require.Len(t, byDesc, 1)
		assert.Equal(t, laptop.ID, byDesc[0].ID)

		literal, err := s.ListItems(ctx, models.ItemQuery{Text: "100%"})
		require.NoError(t, err)
		require.Len(t, literal, 1)
		assert.Equal(t, cable.ID, literal[0].ID)

		underscore, err := s.ListItems(ctx, models.ItemQuery{Text: "b_c"})
		require.NoError(t, err)
		assert.Len(t, underscore, 1)
	})

	t.Run("adjust", func(t *testing.T) {
		_, err := s.AdjustQuantity(ctx, laptop.ID, -10)
		assert.ErrorIs(t, err, store.ErrNegativeQuantity)

		item, err := s.AdjustQuantity(ctx, laptop.ID, -5)
		require.NoError(t, err)
		assert.Equal(t, 0, item.Quantity)

		_, err = s.AdjustQuantity(ctx, 424242, 1)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("adjust at column limit", func(t *testing.T) {
		item, err := s.CreateItem(ctx, models.NewItem{Name: "Bolt", SKU: "BOLT-1", Quantity: models.MaxQuantity})
		require.NoError(t, err)

		_, err = s.AdjustQuantity(ctx, item.ID, 1)
		assert.ErrorIs(t, err, store.ErrQuantityTooLarge)

		_, err = s.AdjustQuantity(ctx, item.ID, -models.MaxQuantity-1)
		assert.ErrorIs(t, err, store.ErrNegativeQuantity)

		got, err := s.AdjustQuantity(ctx, item.ID, -models.MaxQuantity)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Quantity)

		got, err = s.AdjustQuantity(ctx, item.ID, models.MaxQuantity)
		require.NoError(t, err)
		assert.Equal(t, models.MaxQuantity, got.Quantity)

		require.NoError(t, s.DeleteItem(ctx, item.ID))
	})

	t.Run("concurrent adjust", func(t *testing.T) {
		item, err := s.CreateItem(ctx, models.NewItem{Name: "Widget", SKU: "W-1", Quantity: 20})
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 40; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.AdjustQuantity(ctx, item.ID, -1)
				if err != nil && !errors.Is(err, store.ErrNegativeQuantity) {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		got, err := s.GetItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Quantity)
	})

	t.Run("update", func(t *testing.T) {
		price := decimal.RequireFromString("899.50")
		qty := 3
		item, err := s.UpdateItem(ctx, laptop.ID, models.ItemPatch{Price: &price, Quantity: &qty})
		require.NoError(t, err)
		assert.True(t, price.Equal(item.Price))
		assert.Equal(t, 3, item.Quantity)
		assert.Equal(t, "Laptop Computer", item.Name)

		same, err := s.UpdateItem(ctx, laptop.ID, models.ItemPatch{})
		require.NoError(t, err)
		assert.Equal(t, 3, same.Quantity)

		taken := "USB_C-001"
		_, err = s.UpdateItem(ctx, laptop.ID, models.ItemPatch{SKU: &taken})
		assert.ErrorIs(t, err, store.ErrDuplicateSKU)

		_, err = s.UpdateItem(ctx, 424242, models.ItemPatch{Quantity: &qty})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("column limits", func(t *testing.T) {
		name := strings.Repeat("é", models.MaxNameLength)
		sku := strings.Repeat("S", models.MaxSKULength)
		item, err := s.CreateItem(ctx, models.NewItem{Name: name, SKU: sku, Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, name, item.Name)
		assert.Equal(t, sku, item.SKU)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteItem(ctx, cable.ID))
		assert.ErrorIs(t, s.DeleteItem(ctx, cable.ID), store.ErrNotFound)

		_, err := s.GetItem(ctx, cable.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
