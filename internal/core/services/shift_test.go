// internal/core/services/shift_test.go
package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mcanales/floreria-be/internal/adapters/excel"
	"github.com/mcanales/floreria-be/internal/adapters/redisstore"
	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
	"github.com/mcanales/floreria-be/internal/core/services"
	"github.com/mcanales/floreria-be/test/helpers"
	"github.com/mcanales/floreria-be/test/mocks"
)

func setupShiftService(t *testing.T) (*services.ShiftService, ports.Store) {
	t.Helper()
	tr := helpers.SetupTestRedis(t)
	store := redisstore.NewStore(tr.Client, helpers.TestLogger())
	codec := excel.NewCodec(helpers.TestLogger())
	reports := services.NewReportService(store, codec, helpers.TestLogger())
	return services.NewShiftService(store, reports, helpers.TestLogger()), store
}

func TestShiftService_Open_EmptyCatalog(t *testing.T) {
	svc, _ := setupShiftService(t)

	_, err := svc.Open(context.Background())
	require.ErrorIs(t, err, domain.ErrEmptyCatalog)
}

func TestShiftService_Open_SnapshotsOpeningStock(t *testing.T) {
	svc, store := setupShiftService(t)
	ctx := context.Background()

	rose := helpers.CreateTestProduct(func(p *domain.Product) { p.Stock = 42 })
	require.NoError(t, store.Products().ReplaceAll(ctx, []domain.Product{*rose}))

	state, err := svc.Open(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsOpen)
	require.NotNil(t, state.OpenedAt)

	products, err := store.Products().List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.NotNil(t, products[0].OpeningStock)
	assert.Equal(t, 42, *products[0].OpeningStock)
}

// Reopening an already open shift re-baselines the snapshot instead of
// failing: the stock at reopen time becomes the new opening.
func TestShiftService_Open_Rebaselines(t *testing.T) {
	svc, store := setupShiftService(t)
	ctx := context.Background()

	rose := helpers.CreateTestProduct(func(p *domain.Product) { p.Stock = 42 })
	require.NoError(t, store.Products().ReplaceAll(ctx, []domain.Product{*rose}))

	_, err := svc.Open(ctx)
	require.NoError(t, err)

	products, err := store.Products().List(ctx)
	require.NoError(t, err)
	products[0].Stock = 30
	require.NoError(t, store.Products().ReplaceAll(ctx, products))

	_, err = svc.Open(ctx)
	require.NoError(t, err)

	products, err = store.Products().List(ctx)
	require.NoError(t, err)
	require.NotNil(t, products[0].OpeningStock)
	assert.Equal(t, 30, *products[0].OpeningStock)
}

func TestShiftService_Close(t *testing.T) {
	svc, store := setupShiftService(t)
	ctx := context.Background()

	rose := helpers.CreateTestProduct(func(p *domain.Product) { p.Stock = 42 })
	require.NoError(t, store.Products().ReplaceAll(ctx, []domain.Product{*rose}))

	opened, err := svc.Open(ctx)
	require.NoError(t, err)

	file, err := svc.Close(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Name, "Cierre_Turno_"))
	assert.Contains(t, file.Name, opened.OpenedAt.Format("2006-01-02"))
	assert.NotEmpty(t, file.Data)

	state, err := svc.State(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsOpen)
	require.NotNil(t, state.ClosedAt)
	require.NotNil(t, state.OpenedAt, "closed state keeps the opening timestamp")
}

// The workbook gates the close: when encoding fails the shift must stay open.
func TestShiftService_Close_EncodeFailureKeepsShiftOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := helpers.SetupTestRedis(t)
	store := redisstore.NewStore(tr.Client, helpers.TestLogger())
	codec := mocks.NewMockReportCodec(ctrl)
	reports := services.NewReportService(store, codec, helpers.TestLogger())
	svc := services.NewShiftService(store, reports, helpers.TestLogger())
	ctx := context.Background()

	rose := helpers.CreateTestProduct()
	require.NoError(t, store.Products().ReplaceAll(ctx, []domain.Product{*rose}))
	_, err := svc.Open(ctx)
	require.NoError(t, err)

	codec.EXPECT().Encode(gomock.Any()).Return(nil, errors.New("disk full"))

	_, err = svc.Close(ctx)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrCodec)

	state, err := svc.State(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsOpen, "a failed close must not flip the shift state")
	assert.Nil(t, state.ClosedAt)
}

func TestShiftService_Close_WindowExcludesNextShift(t *testing.T) {
	svc, store := setupShiftService(t)
	ctx := context.Background()

	rose := helpers.CreateTestProduct()
	require.NoError(t, store.Products().ReplaceAll(ctx, []domain.Product{*rose}))

	opened, err := svc.Open(ctx)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = svc.Close(ctx)
	require.NoError(t, err)

	state, err := svc.State(ctx)
	require.NoError(t, err)
	require.NotNil(t, state.ClosedAt)
	assert.True(t, state.ClosedAt.After(*opened.OpenedAt))
}
