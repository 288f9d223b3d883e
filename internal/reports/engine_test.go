package reports_test

import (
	"context"
	"testing"
	"time"

	"alltech-pos/internal/cache"
	"alltech-pos/internal/database"
	"alltech-pos/internal/models"
	"alltech-pos/internal/reports"
	"alltech-pos/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// A fixed clock keeps every window deterministic.
var testNow = time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*reports.Engine, *gorm.DB, cache.Cache) {
	t.Helper()
	db, err := database.OpenTest()
	require.NoError(t, err)

	mem := cache.NewMemory()
	e := reports.New(db, mem, time.Hour)
	e.Now = func() time.Time { return testNow }
	return e, db, mem
}

func addReceipt(t *testing.T, db *gorm.DB, product, customer string, price string, quantity int, at time.Time) {
	t.Helper()
	err := db.Create(&models.Receipt{
		ProductName:  product,
		SellingPrice: decimal.RequireFromString(price),
		Quantity:     quantity,
		CustomerName: customer,
		CreatedAt:    at,
	}).Error
	require.NoError(t, err)
}

func TestDashboardTodayMetrics(t *testing.T) {
	e, db, _ := newTestEngine(t)
	ctx := context.Background()

	addReceipt(t, db, "Phone Case", "alice", "100.00", 3, testNow.Add(-2*time.Hour))
	addReceipt(t, db, "Charger", "bob", "10.00", 1, testNow.Add(-1*time.Hour))
	addReceipt(t, db, "Phone Case", "alice", "50.00", 2, testNow.AddDate(0, 0, -1))

	out, err := e.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2026, out.CurrentYear)
	assert.Equal(t, int64(2), out.TodayMetrics.SalesCount)
	assert.True(t, out.TodayMetrics.TotalSales.Equal(decimal.RequireFromString("310")),
		"revenue is price times quantity, got %s", out.TodayMetrics.TotalSales)
	assert.Equal(t, int64(4), out.TodayMetrics.TotalItemsSold)
	assert.Equal(t, int64(2), out.TodayMetrics.UniqueCustomers)

	assert.True(t, out.YesterdayTotalSales.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, int64(3), out.AllTimeTotals.TotalOrders)
	assert.True(t, out.AllTimeTotals.TotalSales.Equal(decimal.RequireFromString("410")))
}

func TestDashboardEmptyLedger(t *testing.T) {
	e, _, _ := newTestEngine(t)

	out, err := e.Dashboard(context.Background())
	require.NoError(t, err)

	// Aggregates over zero rows come back as zero, not null.
	assert.True(t, out.TodayMetrics.TotalSales.IsZero())
	assert.True(t, out.YesterdayTotalSales.IsZero())
	assert.True(t, out.AllTimeTotals.TotalSales.IsZero())
}

func TestWeeklyWindowValidation(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Weekly(ctx, 0)
	assert.True(t, store.IsValidation(err))

	_, err = e.Weekly(ctx, 53)
	assert.True(t, store.IsValidation(err))

	_, err = e.Weekly(ctx, 52)
	assert.NoError(t, err)
}

func TestWeeklySummary(t *testing.T) {
	e, db, _ := newTestEngine(t)
	ctx := context.Background()

	addReceipt(t, db, "Phone Case", "alice", "20.00", 2, testNow.Add(-3*time.Hour))
	addReceipt(t, db, "Charger", "bob", "30.00", 1, testNow.AddDate(0, 0, -7))
	// Same week number, previous year; must land in the comparison set only.
	addReceipt(t, db, "Phone Case", "carol", "99.00", 1, testNow.AddDate(-1, 0, 0))

	out, err := e.Weekly(ctx, 8)
	require.NoError(t, err)

	require.Len(t, out.WeeklySummary, 2)
	require.Len(t, out.PreviousYearComparison, 1)
	assert.True(t, out.PreviousYearComparison[0].TotalSales.Equal(decimal.RequireFromString("99")))
}

func TestMonthlyBestSeller(t *testing.T) {
	e, db, _ := newTestEngine(t)
	ctx := context.Background()

	addReceipt(t, db, "Phone Case", "alice", "10.00", 5, testNow.Add(-time.Hour))
	addReceipt(t, db, "Charger", "bob", "10.00", 2, testNow.Add(-2*time.Hour))

	out, err := e.Monthly(ctx)
	require.NoError(t, err)

	require.Len(t, out.CurrentYearData, 1)
	best := out.CurrentYearData[0].BestSellingProduct
	require.NotNil(t, best)
	assert.Equal(t, "Phone Case", best.ProductName)
	assert.Equal(t, int64(5), best.TotalQuantity)
}

func TestCustomersExcludesNullName(t *testing.T) {
	e, db, _ := newTestEngine(t)
	ctx := context.Background()

	addReceipt(t, db, "Phone Case", "alice", "10.00", 1, testNow.Add(-time.Hour))
	addReceipt(t, db, "Phone Case", "null", "10.00", 1, testNow.Add(-time.Hour))

	out, err := e.Customers(ctx)
	require.NoError(t, err)

	require.Len(t, out.CurrentYearTopCustomers, 1)
	assert.Equal(t, "alice", out.CurrentYearTopCustomers[0].CustomerName)
}

func TestReportCacheHitAndInvalidation(t *testing.T) {
	e, db, mem := newTestEngine(t)
	ctx := context.Background()

	addReceipt(t, db, "Phone Case", "alice", "10.00", 1, testNow.Add(-time.Hour))

	out, err := e.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.TodayMetrics.SalesCount)

	// A second read is served from cache and does not see the new receipt.
	addReceipt(t, db, "Charger", "bob", "10.00", 1, testNow.Add(-time.Hour))
	out, err = e.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.TodayMetrics.SalesCount)

	// Invalidating another year leaves this year's entry alone.
	cache.InvalidateDashboards(ctx, mem, testNow.Year()-1)
	out, err = e.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.TodayMetrics.SalesCount)

	cache.InvalidateDashboards(ctx, mem, testNow.Year())
	out, err = e.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.TodayMetrics.SalesCount)
}

func TestSalesBetween(t *testing.T) {
	e, db, _ := newTestEngine(t)
	ctx := context.Background()

	addReceipt(t, db, "Phone Case", "alice", "10.00", 2, testNow.Add(-time.Hour))
	addReceipt(t, db, "Charger", "bob", "5.00", 1, testNow.AddDate(0, 0, -10))

	out, err := e.SalesBetween(ctx, testNow.AddDate(0, 0, -1), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.TotalCount)
	assert.True(t, out.TotalRevenue.Equal(decimal.RequireFromString("20")))
}

func TestHasReceiptsSince(t *testing.T) {
	e, db, _ := newTestEngine(t)
	ctx := context.Background()

	ok, err := e.HasReceiptsSince(ctx, testNow.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.False(t, ok)

	addReceipt(t, db, "Phone Case", "alice", "10.00", 1, testNow.Add(-time.Hour))

	ok, err = e.HasReceiptsSince(ctx, testNow.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.True(t, ok)
}
