// internal/core/services/report_test.go
package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcanales/floreria-be/internal/adapters/excel"
	"github.com/mcanales/floreria-be/internal/adapters/redisstore"
	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
	"github.com/mcanales/floreria-be/internal/core/services"
	"github.com/mcanales/floreria-be/test/helpers"
)

type reportFixture struct {
	store     ports.Store
	inventory *services.InventoryService
	sales     *services.SalesService
	reports   *services.ReportService
	shift     *services.ShiftService
}

func setupReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	tr := helpers.SetupTestRedis(t)
	store := redisstore.NewStore(tr.Client, helpers.TestLogger())
	codec := excel.NewCodec(helpers.TestLogger())
	reports := services.NewReportService(store, codec, helpers.TestLogger())
	return &reportFixture{
		store:     store,
		inventory: services.NewInventoryService(store.Products(), store.Movements(), helpers.TestLogger()),
		sales:     services.NewSalesService(store.Products(), store.Sales(), helpers.TestLogger()),
		reports:   reports,
		shift:     services.NewShiftService(store, reports, helpers.TestLogger()),
	}
}

// Runs a full shift against live services and checks the ledger identity
// on the resulting report: 50 open + 20 restock - 10 sold - 5 lost = 55.
func TestReportService_BuildShiftReport_LedgerIdentity(t *testing.T) {
	f := setupReportFixture(t)
	ctx := context.Background()

	rose := helpers.CreateTestProduct(func(p *domain.Product) { p.Stock = 50 })
	require.NoError(t, f.inventory.AddProduct(ctx, rose))

	_, err := f.shift.Open(ctx)
	require.NoError(t, err)

	_, err = f.inventory.RegisterMovement(ctx, ports.MovementRequest{
		ProductID: rose.ID, Kind: domain.MovementRestock, Quantity: 20,
	})
	require.NoError(t, err)

	method := domain.PaymentCash
	_, err = f.sales.RegisterSale(ctx, ports.SaleRequest{
		Items:         []ports.SaleLineRequest{{ProductID: rose.ID, Quantity: 10}},
		Total:         decimal.NewFromInt(250),
		PaymentMethod: &method,
	})
	require.NoError(t, err)

	_, err = f.inventory.RegisterMovement(ctx, ports.MovementRequest{
		ProductID: rose.ID, Kind: domain.MovementLoss, Quantity: 5,
	})
	require.NoError(t, err)

	report, err := f.reports.BuildShiftReport(ctx, time.Now())
	require.NoError(t, err)

	require.Len(t, report.Inventory, 1)
	row := report.Inventory[0]
	assert.Equal(t, rose.Name, row.ProductName)
	assert.Equal(t, 50, row.Opening)
	assert.Equal(t, 20, row.Restocked)
	assert.Equal(t, 10, row.Sold)
	assert.Equal(t, 5, row.Lost)
	assert.Equal(t, 55, row.Closing)
	assert.True(t, row.Balanced())

	require.Len(t, report.Sales, 1)
	assert.Equal(t, "Rosa Roja (x10)", report.Sales[0].Products)
	assert.Equal(t, "$250", report.Sales[0].Price)
	assert.Equal(t, "Efectivo", report.Sales[0].PaymentMethod)
}

func TestReportService_BuildDailyReport_KindAndWindow(t *testing.T) {
	f := setupReportFixture(t)
	ctx := context.Background()

	rose := helpers.CreateTestProduct()
	require.NoError(t, f.inventory.AddProduct(ctx, rose))
	_, err := f.shift.Open(ctx)
	require.NoError(t, err)

	report, err := f.reports.BuildDailyReport(ctx, time.Now())
	require.NoError(t, err)

	assert.Equal(t, domain.ReportAdHoc, report.Kind)
	state, err := f.shift.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, *state.OpenedAt, report.From, "window starts at the shift opening")
}

func TestReportService_ExportDaily_RoundTrip(t *testing.T) {
	f := setupReportFixture(t)
	ctx := context.Background()

	rose := helpers.CreateTestProduct(func(p *domain.Product) { p.Stock = 30 })
	require.NoError(t, f.inventory.AddProduct(ctx, rose))
	_, err := f.shift.Open(ctx)
	require.NoError(t, err)

	file, err := f.reports.ExportDaily(ctx)
	require.NoError(t, err)
	assert.Contains(t, file.Name, "Reporte_")
	assert.NotEmpty(t, file.Data)

	// The exported workbook must decode back with the wire-format headers.
	codec := excel.NewCodec(helpers.TestLogger())
	sheets, err := codec.Decode(file.Data)
	require.NoError(t, err)
	rows, ok := sheets[domain.SheetInventory]
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, rose.Name, rows[0][domain.ColProductName])
	assert.Equal(t, "30", rows[0][domain.ColFinal])
}

func TestReportService_ExportDaily_NoData(t *testing.T) {
	f := setupReportFixture(t)

	_, err := f.reports.ExportDaily(context.Background())
	require.ErrorIs(t, err, domain.ErrNoData)
}
