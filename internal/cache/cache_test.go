package cache_test

import (
	"context"
	"testing"
	"time"

	"alltech-pos/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGetDelete(t *testing.T) {
	m := cache.NewMemory()
	ctx := context.Background()

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)

	m.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	m.Delete(ctx, "k")
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryTTL(t *testing.T) {
	m := cache.NewMemory()
	ctx := context.Background()

	m.Set(ctx, "short", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := m.Get(ctx, "short")
	assert.False(t, ok, "entry must expire on its TTL")
}

func TestMemoryDeletePrefix(t *testing.T) {
	m := cache.NewMemory()
	ctx := context.Background()

	m.Set(ctx, cache.StockListKey, []byte("all"), time.Minute)
	m.Set(ctx, cache.StockKey(7), []byte("one"), time.Minute)
	m.Set(ctx, "OTHER", []byte("keep"), time.Minute)

	m.DeletePrefix(ctx, cache.StockListKey)

	_, ok := m.Get(ctx, cache.StockListKey)
	assert.False(t, ok)
	_, ok = m.Get(ctx, cache.StockKey(7))
	assert.False(t, ok)
	_, ok = m.Get(ctx, "OTHER")
	assert.True(t, ok)
}

func TestInvalidateDashboardsScopedToYear(t *testing.T) {
	m := cache.NewMemory()
	ctx := context.Background()

	for _, name := range []string{cache.ReportDashboard, cache.ReportWeekly, cache.ReportMonthly} {
		m.Set(ctx, cache.ReportKey(name, 2026), []byte("x"), time.Minute)
		m.Set(ctx, cache.ReportKey(name, 2025), []byte("x"), time.Minute)
	}

	cache.InvalidateDashboards(ctx, m, 2026)

	_, ok := m.Get(ctx, cache.ReportKey(cache.ReportDashboard, 2026))
	assert.False(t, ok, "current year entry dropped")
	_, ok = m.Get(ctx, cache.ReportKey(cache.ReportDashboard, 2025))
	assert.True(t, ok, "other years untouched")
}

func TestJSONRoundTrip(t *testing.T) {
	m := cache.NewMemory()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	cache.SetJSON(ctx, m, "p", payload{Name: "Phone Case", Count: 3}, time.Minute)

	var got payload
	require.True(t, cache.GetJSON(ctx, m, "p", &got))
	assert.Equal(t, payload{Name: "Phone Case", Count: 3}, got)

	// A cached value that no longer unmarshals counts as a miss.
	m.Set(ctx, "bad", []byte("{not json"), time.Minute)
	assert.False(t, cache.GetJSON(ctx, m, "bad", &got))
}
