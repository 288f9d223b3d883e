// Package reports is the aggregation engine: time-windowed rollups over the
// receipt ledger, memoized per (report, year) with a fixed TTL.
package reports

import (
	"context"
	"fmt"
	"time"

	"alltech-pos/internal/cache"
	"alltech-pos/internal/models"
	"alltech-pos/internal/store"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const topCustomerLimit = 20

// Engine computes dashboard and analysis rollups. Results go through the
// injected cache; completion of a sale invalidates the current year's keys
// so the next read recomputes.
type Engine struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
	x     exprs

	// Now is swappable for tests.
	Now func() time.Time
}

func New(db *gorm.DB, c cache.Cache, ttl time.Duration) *Engine {
	return &Engine{
		db:    db,
		cache: c,
		ttl:   ttl,
		x:     exprs{sqlite: db.Dialector.Name() == "sqlite"},
		Now:   time.Now,
	}
}

func (e *Engine) receipts(ctx context.Context) *gorm.DB {
	return e.db.WithContext(ctx).Model(&models.Receipt{})
}

// Dashboard - key business metrics: today, yesterday, week over week,
// and all-time totals.
func (e *Engine) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := e.Now()
	year := now.Year()
	key := cache.ReportKey(cache.ReportDashboard, year)

	var out Dashboard
	if cache.GetJSON(ctx, e.cache, key, &out) {
		return &out, nil
	}

	out = Dashboard{CurrentYear: year}
	today := now.Format(time.DateOnly)
	yesterday := now.AddDate(0, 0, -1).Format(time.DateOnly)

	err := e.receipts(ctx).
		Select(fmt.Sprintf(
			"COUNT(id) AS sales_count, COALESCE(SUM(%s), 0) AS total_sales, COALESCE(SUM(quantity), 0) AS total_items_sold, COUNT(DISTINCT customer_name) AS unique_customers",
			revenueExpr)).
		Where(e.x.date("created_at")+" = ?", today).
		Scan(&out.TodayMetrics).Error
	if err != nil {
		return nil, err
	}

	var scalar struct{ Total decimal.Decimal }

	err = e.receipts(ctx).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0) AS total", revenueExpr)).
		Where(e.x.date("created_at")+" = ?", yesterday).
		Scan(&scalar).Error
	if err != nil {
		return nil, err
	}
	out.YesterdayTotalSales = scalar.Total

	// Weeks run Monday to Sunday.
	weekStart := now.AddDate(0, 0, -int(now.Weekday()+6)%7)
	lastWeekStart := weekStart.AddDate(0, 0, -7)
	lastWeekEnd := weekStart.AddDate(0, 0, -1)

	err = e.receipts(ctx).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0) AS total", revenueExpr)).
		Where(e.x.date("created_at")+" >= ?", weekStart.Format(time.DateOnly)).
		Where(e.x.year("created_at")+" = ?", year).
		Scan(&scalar).Error
	if err != nil {
		return nil, err
	}
	out.CurrentWeekSales = scalar.Total

	err = e.receipts(ctx).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0) AS total", revenueExpr)).
		Where(e.x.date("created_at")+" BETWEEN ? AND ?",
			lastWeekStart.Format(time.DateOnly), lastWeekEnd.Format(time.DateOnly)).
		Where(e.x.year("created_at")+" = ?", year).
		Scan(&scalar).Error
	if err != nil {
		return nil, err
	}
	out.LastWeekSales = scalar.Total

	err = e.receipts(ctx).
		Select(fmt.Sprintf(
			"COALESCE(SUM(%s), 0) AS total_sales, COUNT(id) AS total_orders, COUNT(DISTINCT customer_name) AS total_customers",
			revenueExpr)).
		Scan(&out.AllTimeTotals).Error
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, e.cache, key, out, e.ttl)
	return &out, nil
}

// Weekly - per-week rollups over the trailing window plus the previous
// year's weeks for comparison. The two years come from independent range
// queries combined here, not a single comparing query.
func (e *Engine) Weekly(ctx context.Context, weeks int) (*WeeklyAnalysis, error) {
	if weeks <= 0 || weeks > 52 {
		return nil, store.Validationf("weeks parameter must be between 1 and 52")
	}

	now := e.Now()
	year := now.Year()
	key := cache.ReportKey(cache.ReportWeekly, year)

	var out WeeklyAnalysis
	if cache.GetJSON(ctx, e.cache, key, &out) {
		return &out, nil
	}

	out = WeeklyAnalysis{CurrentYear: year}
	start := now.AddDate(0, 0, -7*weeks).Format(time.DateOnly)
	end := now.Format(time.DateOnly)
	weekCol := e.x.weekLabel("created_at")

	err := e.receipts(ctx).
		Select(fmt.Sprintf(
			"%s AS week, COALESCE(SUM(%s), 0) AS total_sales, COALESCE(AVG(%s), 0) AS average_order_value, COUNT(id) AS total_orders, COUNT(DISTINCT customer_name) AS unique_customers, COALESCE(SUM(quantity), 0) AS total_items, MAX(%s) AS busiest_day, MIN(%s) AS slowest_day",
			weekCol, revenueExpr, revenueExpr, e.x.date("created_at"), e.x.date("created_at"))).
		Where(e.x.date("created_at")+" BETWEEN ? AND ?", start, end).
		Where(e.x.year("created_at")+" = ?", year).
		Group("week").
		Order("week desc").
		Scan(&out.WeeklySummary).Error
	if err != nil {
		return nil, err
	}

	err = e.receipts(ctx).
		Select(fmt.Sprintf("%s AS week, COALESCE(SUM(%s), 0) AS total_sales", weekCol, revenueExpr)).
		Where(e.x.year("created_at")+" = ?", year-1).
		Group("week").
		Order("week").
		Scan(&out.PreviousYearComparison).Error
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, e.cache, key, out, e.ttl)
	return &out, nil
}

// Monthly - month rollups for the current year with each month's best
// seller, plus the all-years monthly history.
func (e *Engine) Monthly(ctx context.Context) (*MonthlyAnalysis, error) {
	year := e.Now().Year()
	key := cache.ReportKey(cache.ReportMonthly, year)

	var out MonthlyAnalysis
	if cache.GetJSON(ctx, e.cache, key, &out) {
		return &out, nil
	}

	out = MonthlyAnalysis{CurrentYear: year}
	monthCol := e.x.monthLabel("created_at")

	err := e.receipts(ctx).
		Select(fmt.Sprintf(
			"%s AS month, COALESCE(SUM(%s), 0) AS total_sales, COALESCE(AVG(%s), 0) AS average_order_value, COUNT(id) AS total_orders, COUNT(DISTINCT customer_name) AS unique_customers, COALESCE(SUM(quantity), 0) AS total_items",
			monthCol, revenueExpr, revenueExpr)).
		Where(e.x.year("created_at")+" = ?", year).
		Group("month").
		Order("month desc").
		Scan(&out.CurrentYearData).Error
	if err != nil {
		return nil, err
	}

	var sellers []struct {
		Month         string
		ProductName   string
		TotalQuantity int64
	}
	err = e.receipts(ctx).
		Select(fmt.Sprintf("%s AS month, product_name, SUM(quantity) AS total_quantity", monthCol)).
		Where(e.x.year("created_at")+" = ?", year).
		Group("month").Group("product_name").
		Order("month").Order("total_quantity desc").
		Scan(&sellers).Error
	if err != nil {
		return nil, err
	}

	// First row per month is its best seller.
	best := make(map[string]*BestSeller, len(sellers))
	for _, s := range sellers {
		if _, seen := best[s.Month]; !seen {
			best[s.Month] = &BestSeller{ProductName: s.ProductName, TotalQuantity: s.TotalQuantity}
		}
	}
	for i := range out.CurrentYearData {
		out.CurrentYearData[i].BestSellingProduct = best[out.CurrentYearData[i].Month]
	}

	err = e.receipts(ctx).
		Select(fmt.Sprintf("%s AS year, %s AS month, COALESCE(SUM(%s), 0) AS total_sales",
			e.x.year("created_at"), monthCol, revenueExpr)).
		Group("year").Group("month").
		Order("year").Order("month").
		Scan(&out.HistoricalComparison).Error
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, e.cache, key, out, e.ttl)
	return &out, nil
}

// Yearly - the current year's summary, the all-years table, and a
// year-by-month breakdown for year-over-year charts.
func (e *Engine) Yearly(ctx context.Context) (*YearlyAnalysis, error) {
	year := e.Now().Year()
	key := cache.ReportKey(cache.ReportYearly, year)

	var out YearlyAnalysis
	if cache.GetJSON(ctx, e.cache, key, &out) {
		return &out, nil
	}

	out = YearlyAnalysis{CurrentYear: year}

	err := e.receipts(ctx).
		Select(fmt.Sprintf(
			"COALESCE(SUM(%s), 0) AS total_sales, COUNT(id) AS total_orders, COALESCE(AVG(%s), 0) AS average_order_value, COUNT(DISTINCT customer_name) AS unique_customers, COALESCE(SUM(quantity), 0) AS total_items, COALESCE(MAX(%s), 0) AS highest_sale, COALESCE(AVG(quantity), 0) AS average_items_per_order",
			revenueExpr, revenueExpr, revenueExpr)).
		Where(e.x.year("created_at")+" = ?", year).
		Scan(&out.CurrentYearSummary).Error
	if err != nil {
		return nil, err
	}

	err = e.receipts(ctx).
		Select(fmt.Sprintf(
			"%s AS year, COALESCE(SUM(%s), 0) AS total_sales, COUNT(id) AS total_orders, COALESCE(AVG(%s), 0) AS average_order_value, COUNT(DISTINCT customer_name) AS unique_customers, COALESCE(SUM(quantity), 0) AS total_items",
			e.x.year("created_at"), revenueExpr, revenueExpr)).
		Group("year").
		Order("year desc").
		Scan(&out.YearlySummary).Error
	if err != nil {
		return nil, err
	}

	err = e.receipts(ctx).
		Select(fmt.Sprintf(
			"%s AS year, %s AS month, COALESCE(SUM(%s), 0) AS sales, COUNT(id) AS orders, COALESCE(SUM(quantity), 0) AS items_sold",
			e.x.year("created_at"), e.x.month("created_at"), revenueExpr)).
		Group("year").Group("month").
		Order("year").Order("month").
		Scan(&out.MonthlyBreakdown).Error
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, e.cache, key, out, e.ttl)
	return &out, nil
}

func (e *Engine) topCustomers(ctx context.Context, year int) ([]TopCustomerRow, error) {
	q := e.receipts(ctx).
		Select(fmt.Sprintf(
			"customer_name, COALESCE(SUM(%s), 0) AS total_spent, COUNT(id) AS purchase_count, COALESCE(AVG(%s), 0) AS average_order_value, MIN(created_at) AS first_purchase, MAX(created_at) AS last_purchase, COALESCE(SUM(quantity), 0) AS total_items",
			revenueExpr, revenueExpr)).
		Where("customer_name <> ?", "null").
		Group("customer_name").
		Order("total_spent desc").
		Limit(topCustomerLimit)
	if year != 0 {
		q = q.Where(e.x.year("created_at")+" = ?", year)
	}

	var rows []TopCustomerRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Customers - top spenders (current year and all-time) and a purchase
// frequency histogram: customers bucketed by distinct purchase days.
func (e *Engine) Customers(ctx context.Context) (*CustomerInsights, error) {
	year := e.Now().Year()
	key := cache.ReportKey(cache.ReportCustomers, year)

	var out CustomerInsights
	if cache.GetJSON(ctx, e.cache, key, &out) {
		return &out, nil
	}

	out = CustomerInsights{CurrentYear: year}

	var err error
	if out.CurrentYearTopCustomers, err = e.topCustomers(ctx, year); err != nil {
		return nil, err
	}
	if out.AllTimeTopCustomers, err = e.topCustomers(ctx, 0); err != nil {
		return nil, err
	}

	frequencySQL := fmt.Sprintf(`
		SELECT purchase_count, COUNT(*) AS customer_count
		FROM (
			SELECT customer_name, COUNT(DISTINCT %s) AS purchase_count
			FROM receipts
			WHERE %s = ?
			GROUP BY customer_name
		) per_customer
		GROUP BY purchase_count
		ORDER BY purchase_count`,
		e.x.date("created_at"), e.x.year("created_at"))
	if err := e.db.WithContext(ctx).Raw(frequencySQL, year).Scan(&out.PurchaseFrequency).Error; err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, e.cache, key, out, e.ttl)
	return &out, nil
}

func (e *Engine) productPerformance(ctx context.Context, year int) ([]ProductPerformanceRow, error) {
	q := e.receipts(ctx).
		Select(fmt.Sprintf(
			"product_name, COALESCE(SUM(%s), 0) AS total_revenue, COALESCE(SUM(quantity), 0) AS units_sold, COALESCE(AVG(selling_price), 0) AS average_price, MIN(created_at) AS first_sale, MAX(created_at) AS last_sale, COUNT(DISTINCT customer_name) AS unique_customers, COUNT(id) AS total_orders",
			revenueExpr)).
		Group("product_name").
		Order("total_revenue desc")
	if year != 0 {
		q = q.Where(e.x.year("created_at")+" = ?", year)
	}

	var rows []ProductPerformanceRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Products - product performance for the current year and all-time, monthly
// trends, and a two-year growth comparison.
func (e *Engine) Products(ctx context.Context) (*ProductInsights, error) {
	year := e.Now().Year()
	key := cache.ReportKey(cache.ReportProducts, year)

	var out ProductInsights
	if cache.GetJSON(ctx, e.cache, key, &out) {
		return &out, nil
	}

	out = ProductInsights{CurrentYear: year}

	var err error
	if out.CurrentYearPerformance, err = e.productPerformance(ctx, year); err != nil {
		return nil, err
	}
	if out.AllTimePerformance, err = e.productPerformance(ctx, 0); err != nil {
		return nil, err
	}

	monthCol := e.x.monthLabel("created_at")
	err = e.receipts(ctx).
		Select(fmt.Sprintf(
			"%s AS month, product_name, COALESCE(SUM(%s), 0) AS revenue, COALESCE(SUM(quantity), 0) AS units_sold, COALESCE(AVG(selling_price), 0) AS average_price",
			monthCol, revenueExpr)).
		Where(e.x.year("created_at")+" = ?", year).
		Group("month").Group("product_name").
		Order("month").Order("revenue desc").
		Scan(&out.MonthlyTrends).Error
	if err != nil {
		return nil, err
	}

	err = e.receipts(ctx).
		Select(fmt.Sprintf(
			"%s AS year, product_name, COALESCE(SUM(%s), 0) AS total_revenue, COALESCE(SUM(quantity), 0) AS units_sold",
			e.x.year("created_at"), revenueExpr)).
		Where(e.x.year("created_at")+" IN ?", []int{year, year - 1}).
		Group("year").Group("product_name").
		Order("product_name").Order("year").
		Scan(&out.GrowthComparison).Error
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, e.cache, key, out, e.ttl)
	return &out, nil
}

// Patterns - when sales happen: by day of month, hour, day of week, and the
// ten hottest hour/weekday cells.
func (e *Engine) Patterns(ctx context.Context) (*SalesPatterns, error) {
	year := e.Now().Year()
	key := cache.ReportKey(cache.ReportPatterns, year)

	var out SalesPatterns
	if cache.GetJSON(ctx, e.cache, key, &out) {
		return &out, nil
	}

	out = SalesPatterns{CurrentYear: year}
	yearFilter := e.x.year("created_at") + " = ?"

	err := e.receipts(ctx).
		Select(fmt.Sprintf(
			"%s AS day, COALESCE(SUM(%s), 0) AS total_sales, COUNT(id) AS order_count, COALESCE(AVG(%s), 0) AS average_order_value, COALESCE(SUM(quantity), 0) AS items_sold",
			e.x.day("created_at"), revenueExpr, revenueExpr)).
		Where(yearFilter, year).
		Group("day").
		Order("day").
		Scan(&out.DailyPatterns).Error
	if err != nil {
		return nil, err
	}

	err = e.receipts(ctx).
		Select(fmt.Sprintf(
			"%s AS hour, COALESCE(SUM(%s), 0) AS total_sales, COUNT(id) AS order_count, COALESCE(AVG(%s), 0) AS average_order_value",
			e.x.hour("created_at"), revenueExpr, revenueExpr)).
		Where(yearFilter, year).
		Group("hour").
		Order("hour").
		Scan(&out.HourlyPatterns).Error
	if err != nil {
		return nil, err
	}

	err = e.receipts(ctx).
		Select(fmt.Sprintf(
			"%s AS day_of_week, COALESCE(SUM(%s), 0) AS total_sales, COUNT(id) AS order_count, COALESCE(AVG(%s), 0) AS average_order_value, COALESCE(SUM(quantity), 0) AS items_sold",
			e.x.weekday("created_at"), revenueExpr, revenueExpr)).
		Where(yearFilter, year).
		Group("day_of_week").
		Order("day_of_week").
		Scan(&out.DayOfWeekPatterns).Error
	if err != nil {
		return nil, err
	}

	err = e.receipts(ctx).
		Select(fmt.Sprintf(
			"%s AS hour, %s AS day_of_week, COALESCE(SUM(%s), 0) AS total_sales, COUNT(id) AS order_count",
			e.x.hour("created_at"), e.x.weekday("created_at"), revenueExpr)).
		Where(yearFilter, year).
		Group("hour").Group("day_of_week").
		Order("total_sales desc").
		Limit(10).
		Scan(&out.PeakSalesPeriods).Error
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, e.cache, key, out, e.ttl)
	return &out, nil
}

// SalesBetween sums revenue and counts receipts inside a timestamp range.
// Uncached; it backs the AI agent's report tool.
func (e *Engine) SalesBetween(ctx context.Context, start, end time.Time) (*RangeSummary, error) {
	var out RangeSummary

	err := e.receipts(ctx).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0) AS total_revenue, COUNT(id) AS total_count", revenueExpr)).
		Where("created_at BETWEEN ? AND ?", start, end).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// HasReceiptsSince reports whether any receipt exists at or after the cutoff.
func (e *Engine) HasReceiptsSince(ctx context.Context, cutoff time.Time) (bool, error) {
	var n int64
	if err := e.receipts(ctx).Where("created_at >= ?", cutoff).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
