package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"alltech-pos/internal/ai"
	"alltech-pos/internal/cache"
	"alltech-pos/internal/models"
	"alltech-pos/internal/reports"
	"alltech-pos/internal/search"
	"alltech-pos/internal/store"
	"alltech-pos/internal/worker"

	"github.com/gin-gonic/gin"
)

// Handler carries the wired services every endpoint needs.
type Handler struct {
	Store   *store.Store
	Reports *reports.Engine
	Cache   cache.Cache
	Index   search.Indexer
	Pool    *worker.Pool
	Agent   *ai.Agent

	AllowRegistration bool
	ServiceAPIKey     string
	StockTTL          time.Duration
}

// respondErr maps the error taxonomy onto statuses. The original error is
// logged server-side; the client only ever sees the sanitized message.
func respondErr(c *gin.Context, err error) {
	switch {
	case store.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err == store.ErrDuplicateName:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name already exists"})
	case err == store.ErrInsufficientStock:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock"})
	case err == store.ErrProductNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case err == store.ErrTransactionNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
	case err == store.ErrItemNotInStock:
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in stock"})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error has occurred"})
	}
}

// pathID parses the numeric id segment of the route.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// paginate slices a full result set according to page/page_size query
// params and wraps it in the envelope the clients expect.
func paginate[T any](c *gin.Context, items []T) gin.H {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	start := (page - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	return gin.H{
		"count":     len(items),
		"page":      page,
		"page_size": size,
		"results":   items[start:end],
	}
}

// syncProduct queues the best-effort tail after a ledger mutation: push the
// snapshot to the search index, drop the product's cache entries. Never
// awaited, never fails the request that queued it.
func (h *Handler) syncProduct(p *models.Product) {
	snapshot := *p
	h.Pool.Submit("index sync", func(ctx context.Context) error {
		h.Cache.Delete(ctx, cache.StockKey(snapshot.ID), cache.StockListKey)
		return h.Index.IndexProduct(ctx, &snapshot)
	})
}

// dropProduct is the delete-side tail: clear the index document and caches.
func (h *Handler) dropProduct(id uint) {
	h.Pool.Submit("index delete", func(ctx context.Context) error {
		h.Cache.Delete(ctx, cache.StockKey(id), cache.StockListKey)
		return h.Index.DeleteProduct(ctx, id)
	})
}
