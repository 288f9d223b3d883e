package middleware

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Per-caller budgets for each endpoint family, mirroring what the shop's
// clients were tuned against: checks are generous, mutations are not.
var (
	InventoryCheckRate = rate.Limit(5)         // 300/minute
	SalesRate          = rate.Limit(2)         // 120/minute
	InventoryModRate   = rate.Limit(0.5)       // 30/minute
	OrderMgmtRate      = rate.Limit(1)         // 60/minute
	AuthRate           = rate.Limit(5.0 / 60) // 5/minute
	ServiceJobRate     = rate.Limit(5.0 / 60) // effectively a handful per run
)

// RateLimit builds a per-caller token bucket keyed by user id when
// authenticated, else client IP. Excess requests get 429.
func RateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, exists := c.Get("userID"); exists {
			key = fmt.Sprintf("user_%v", userID)
		}

		mu.Lock()
		limiter, ok := limiters[key]
		if !ok {
			limiter = rate.NewLimiter(limit, burst)
			limiters[key] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
