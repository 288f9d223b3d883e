package reports

import "github.com/shopspring/decimal"

// Result rows are typed per report instead of dynamic field maps; every
// revenue figure is price * quantity computed at read time. Timestamps
// coming out of aggregate expressions are kept as strings so the same
// queries scan on MySQL and SQLite.

type TodayMetrics struct {
	SalesCount      int64           `json:"sales_count"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalItemsSold  int64           `json:"total_items_sold"`
	UniqueCustomers int64           `json:"unique_customers"`
}

type AllTimeTotals struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalOrders    int64           `json:"total_orders"`
	TotalCustomers int64           `json:"total_customers"`
}

type Dashboard struct {
	CurrentYear         int             `json:"current_year"`
	TodayMetrics        TodayMetrics    `json:"today_metrics"`
	YesterdayTotalSales decimal.Decimal `json:"yesterday_total_sales"`
	CurrentWeekSales    decimal.Decimal `json:"current_week_sales"`
	LastWeekSales       decimal.Decimal `json:"last_week_sales"`
	AllTimeTotals       AllTimeTotals   `json:"all_time_totals"`
}

type WeeklySummaryRow struct {
	Week              string          `json:"week"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TotalOrders       int64           `json:"total_orders"`
	UniqueCustomers   int64           `json:"unique_customers"`
	TotalItems        int64           `json:"total_items"`
	BusiestDay        string          `json:"busiest_day"`
	SlowestDay        string          `json:"slowest_day"`
}

type WeekSalesRow struct {
	Week       string          `json:"week"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type WeeklyAnalysis struct {
	CurrentYear            int                `json:"current_year"`
	WeeklySummary          []WeeklySummaryRow `json:"weekly_summary"`
	PreviousYearComparison []WeekSalesRow     `json:"previous_year_comparison"`
}

type BestSeller struct {
	ProductName   string `json:"product_name"`
	TotalQuantity int64  `json:"total_quantity"`
}

type MonthlySummaryRow struct {
	Month              string          `json:"month"`
	TotalSales         decimal.Decimal `json:"total_sales"`
	AverageOrderValue  decimal.Decimal `json:"average_order_value"`
	TotalOrders        int64           `json:"total_orders"`
	UniqueCustomers    int64           `json:"unique_customers"`
	TotalItems         int64           `json:"total_items"`
	BestSellingProduct *BestSeller     `gorm:"-" json:"best_selling_product"`
}

type MonthSalesRow struct {
	Year       int             `json:"year"`
	Month      string          `json:"month"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type MonthlyAnalysis struct {
	CurrentYear          int                 `json:"current_year"`
	CurrentYearData      []MonthlySummaryRow `json:"current_year_data"`
	HistoricalComparison []MonthSalesRow     `json:"historical_comparison"`
}

type YearSummary struct {
	TotalSales           decimal.Decimal `json:"total_sales"`
	TotalOrders          int64           `json:"total_orders"`
	AverageOrderValue    decimal.Decimal `json:"average_order_value"`
	UniqueCustomers      int64           `json:"unique_customers"`
	TotalItems           int64           `json:"total_items"`
	HighestSale          decimal.Decimal `json:"highest_sale"`
	AverageItemsPerOrder decimal.Decimal `json:"average_items_per_order"`
}

type YearRow struct {
	Year              int             `json:"year"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalOrders       int64           `json:"total_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	UniqueCustomers   int64           `json:"unique_customers"`
	TotalItems        int64           `json:"total_items"`
}

type MonthBreakdownRow struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Sales     decimal.Decimal `json:"sales"`
	Orders    int64           `json:"orders"`
	ItemsSold int64           `json:"items_sold"`
}

type YearlyAnalysis struct {
	CurrentYear        int                 `json:"current_year"`
	CurrentYearSummary YearSummary         `json:"current_year_summary"`
	YearlySummary      []YearRow           `json:"yearly_summary"`
	MonthlyBreakdown   []MonthBreakdownRow `json:"monthly_breakdown"`
}

type TopCustomerRow struct {
	CustomerName      string          `json:"customer_name"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	PurchaseCount     int64           `json:"purchase_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	FirstPurchase     string          `json:"first_purchase"`
	LastPurchase      string          `json:"last_purchase"`
	TotalItems        int64           `json:"total_items"`
}

// FrequencyBucket counts customers by how many distinct days they bought on.
type FrequencyBucket struct {
	PurchaseCount int64 `json:"purchase_count"`
	CustomerCount int64 `json:"customer_count"`
}

type CustomerInsights struct {
	CurrentYear             int               `json:"current_year"`
	CurrentYearTopCustomers []TopCustomerRow  `json:"current_year_top_customers"`
	AllTimeTopCustomers     []TopCustomerRow  `json:"all_time_top_customers"`
	PurchaseFrequency       []FrequencyBucket `json:"purchase_frequency"`
}

type ProductPerformanceRow struct {
	ProductName     string          `json:"product_name"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	UnitsSold       int64           `json:"units_sold"`
	AveragePrice    decimal.Decimal `json:"average_price"`
	FirstSale       string          `json:"first_sale"`
	LastSale        string          `json:"last_sale"`
	UniqueCustomers int64           `json:"unique_customers"`
	TotalOrders     int64           `json:"total_orders"`
}

type ProductTrendRow struct {
	Month        string          `json:"month"`
	ProductName  string          `json:"product_name"`
	Revenue      decimal.Decimal `json:"revenue"`
	UnitsSold    int64           `json:"units_sold"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

type ProductGrowthRow struct {
	Year         int             `json:"year"`
	ProductName  string          `json:"product_name"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	UnitsSold    int64           `json:"units_sold"`
}

type ProductInsights struct {
	CurrentYear            int                     `json:"current_year"`
	CurrentYearPerformance []ProductPerformanceRow `json:"current_year_performance"`
	AllTimePerformance     []ProductPerformanceRow `json:"all_time_performance"`
	MonthlyTrends          []ProductTrendRow       `json:"monthly_trends"`
	GrowthComparison       []ProductGrowthRow      `json:"growth_comparison"`
}

type DayPatternRow struct {
	Day               int             `json:"day"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	OrderCount        int64           `json:"order_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	ItemsSold         int64           `json:"items_sold"`
}

type HourPatternRow struct {
	Hour              int             `json:"hour"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	OrderCount        int64           `json:"order_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

type WeekdayPatternRow struct {
	DayOfWeek         int             `json:"day_of_week"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	OrderCount        int64           `json:"order_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	ItemsSold         int64           `json:"items_sold"`
}

type PeakPeriodRow struct {
	Hour       int             `json:"hour"`
	DayOfWeek  int             `json:"day_of_week"`
	TotalSales decimal.Decimal `json:"total_sales"`
	OrderCount int64           `json:"order_count"`
}

type SalesPatterns struct {
	CurrentYear       int                 `json:"current_year"`
	DailyPatterns     []DayPatternRow     `json:"daily_patterns"`
	HourlyPatterns    []HourPatternRow    `json:"hourly_patterns"`
	DayOfWeekPatterns []WeekdayPatternRow `json:"day_of_week_patterns"`
	PeakSalesPeriods  []PeakPeriodRow     `json:"peak_sales_periods"`
}

// RangeSummary backs the AI agent's sales-report tool.
type RangeSummary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCount   int64           `json:"total_count"`
}
