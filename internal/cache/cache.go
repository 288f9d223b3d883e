package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is the soft-state store behind stock reads and report rollups.
// Values are opaque serialized payloads; entries expire on their TTL and
// races are last-writer-wins.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	DeletePrefix(ctx context.Context, prefix string)
}

// Stock cache keys, matching the shapes the mobile client was built against.
const StockListKey = "SHOP_STOCK"

func StockKey(id uint) string {
	return fmt.Sprintf("SHOP_STOCK_%d", id)
}

// Report names, each cached per year as NAME_{year}.
const (
	ReportDashboard = "DASHBOARD"
	ReportWeekly    = "WEEKLY_ANALYSIS"
	ReportMonthly   = "MONTHLY"
	ReportYearly    = "YEARLY"
	ReportCustomers = "CUSTOMER"
	ReportProducts  = "PRODUCT_INSIGHTS"
	ReportPatterns  = "SALES_PATTERNS"
)

var reportNames = []string{
	ReportDashboard,
	ReportWeekly,
	ReportMonthly,
	ReportYearly,
	ReportCustomers,
	ReportProducts,
	ReportPatterns,
}

// ReportKey builds the cache key for one report and year.
func ReportKey(name string, year int) string {
	return fmt.Sprintf("%s_%d", name, year)
}

// InvalidateDashboards eagerly drops every report key for the given year.
// Completion of a sale calls this so the next dashboard read reflects the
// new receipt; other years' entries are left alone.
func InvalidateDashboards(ctx context.Context, c Cache, year int) {
	keys := make([]string, 0, len(reportNames))
	for _, name := range reportNames {
		keys = append(keys, ReportKey(name, year))
	}
	c.Delete(ctx, keys...)
}

// GetJSON loads and unmarshals a cached value into out.
func GetJSON(ctx context.Context, c Cache, key string, out any) bool {
	raw, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// SetJSON marshals and stores a value. Marshal failures are dropped;
// the cache is soft state and the caller already has the result.
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.Set(ctx, key, raw, ttl)
}
