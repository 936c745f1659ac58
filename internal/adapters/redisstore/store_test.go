// internal/adapters/redisstore/store_test.go
package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcanales/floreria-be/internal/adapters/redisstore"
	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/test/helpers"
)

func setupStore(t *testing.T) *redisstore.Store {
	t.Helper()
	tr := helpers.SetupTestRedis(t)
	return redisstore.NewStore(tr.Client, helpers.TestLogger())
}

func TestStore_Products_MissingKeyReadsEmpty(t *testing.T) {
	store := setupStore(t)

	products, err := store.Products().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestStore_Products_ReplaceAllRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	rose := helpers.CreateTestProduct()
	tulip := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Name = "Tulipán"
		p.Stock = 25
	})
	require.NoError(t, store.Products().ReplaceAll(ctx, []domain.Product{*rose, *tulip}))

	products, err := store.Products().List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, rose.ID, products[0].ID)
	assert.Equal(t, "Tulipán", products[1].Name)
	assert.Equal(t, 25, products[1].Stock)

	// A replace is total: dropped items do not linger.
	require.NoError(t, store.Products().ReplaceAll(ctx, []domain.Product{*rose}))
	products, err = store.Products().List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestStore_Movements_Append(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first := domain.Movement{ID: "m1", ProductID: "p1", Kind: domain.MovementRestock, Quantity: 10, Timestamp: time.Now()}
	second := domain.Movement{ID: "m2", ProductID: "p1", Kind: domain.MovementLoss, Quantity: 2, Timestamp: time.Now()}
	require.NoError(t, store.Movements().Append(ctx, first))
	require.NoError(t, store.Movements().Append(ctx, second))

	movements, err := store.Movements().List(ctx)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, "m1", movements[0].ID, "append preserves log order")
	assert.Equal(t, "m2", movements[1].ID)
}

func TestStore_Shift_NeverOpened(t *testing.T) {
	store := setupStore(t)

	state, err := store.Shift().Get(context.Background())
	require.NoError(t, err)
	assert.False(t, state.IsOpen)
	assert.Nil(t, state.OpenedAt)
	assert.Nil(t, state.ClosedAt)
}

func TestStore_Shift_SetGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	openedAt := time.Now().Truncate(time.Second)
	require.NoError(t, store.Shift().Set(ctx, domain.ShiftState{IsOpen: true, OpenedAt: &openedAt}))

	state, err := store.Shift().Get(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsOpen)
	require.NotNil(t, state.OpenedAt)
	assert.True(t, openedAt.Equal(*state.OpenedAt))
}

func TestStore_Ping(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	store := redisstore.NewStore(tr.Client, helpers.TestLogger())

	require.NoError(t, store.Ping(context.Background()))

	tr.Server.Close()
	require.Error(t, store.Ping(context.Background()))
}
