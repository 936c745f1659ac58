// internal/adapters/db/store_test.go
package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcanales/floreria-be/internal/adapters/db"
	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/test/helpers"
)

func setupPostgresStore(t *testing.T) *db.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	tdb := helpers.SetupTestDB(t)
	return db.NewStore(tdb.Database, helpers.TestLogger())
}

func TestPostgresStore_Products(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	products, err := store.Products().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	catalog := helpers.CreateTestCatalog()
	catalog[0].OpeningStock = helpers.IntPtr(catalog[0].Stock)
	require.NoError(t, store.Products().ReplaceAll(ctx, catalog))

	products, err = store.Products().List(ctx)
	require.NoError(t, err)
	require.Len(t, products, len(catalog))
	// posicion preserves catalog order across the replace.
	assert.Equal(t, "Rosa Roja", products[0].Name)
	assert.Equal(t, "Ramo Mediano", products[3].Name)
	require.NotNil(t, products[0].OpeningStock)
	assert.Equal(t, 50, *products[0].OpeningStock)

	require.NoError(t, store.Products().ReplaceAll(ctx, catalog[:1]))
	products, err = store.Products().List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestPostgresStore_MovementsAndSales(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	rose := helpers.CreateTestProduct()
	require.NoError(t, store.Products().ReplaceAll(ctx, []domain.Product{*rose}))

	movement := domain.Movement{
		ID:          "m1",
		Kind:        domain.MovementRestock,
		ProductID:   rose.ID,
		ProductName: rose.Name,
		Quantity:    20,
		Timestamp:   time.Now(),
	}
	require.NoError(t, store.Movements().Append(ctx, movement))

	movements, err := store.Movements().List(ctx)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementRestock, movements[0].Kind)
	assert.Equal(t, rose.Name, movements[0].ProductName)

	sale := helpers.CreateTestSale(rose, 3)
	require.NoError(t, store.Sales().Append(ctx, *sale))

	delivery := helpers.CreateTestSale(rose, 2, func(s *domain.Sale) {
		s.IsDelivery = true
		s.PrepareForStorage()
	})
	require.NoError(t, store.Sales().Append(ctx, *delivery))

	sales, err := store.Sales().List(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "75", sales[0].Total.String())
	require.NotNil(t, sales[0].PaymentMethod)
	assert.Equal(t, domain.PaymentCash, *sales[0].PaymentMethod)
	assert.Equal(t, rose.ID, sales[0].Items[0].ProductID)
	assert.True(t, sales[1].IsDelivery)
	assert.Nil(t, sales[1].PaymentMethod)
	assert.True(t, sales[1].Total.IsZero())
}

func TestPostgresStore_Shift(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	state, err := store.Shift().Get(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsOpen)
	assert.Nil(t, state.OpenedAt)

	openedAt := time.Now().Truncate(time.Second)
	require.NoError(t, store.Shift().Set(ctx, domain.ShiftState{IsOpen: true, OpenedAt: &openedAt}))

	state, err = store.Shift().Get(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsOpen)
	require.NotNil(t, state.OpenedAt)
	assert.True(t, openedAt.Equal(*state.OpenedAt))

	closedAt := time.Now().Truncate(time.Second)
	require.NoError(t, store.Shift().Set(ctx, domain.ShiftState{
		IsOpen: false, OpenedAt: &openedAt, ClosedAt: &closedAt,
	}))

	state, err = store.Shift().Get(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsOpen)
	require.NotNil(t, state.ClosedAt)
}
