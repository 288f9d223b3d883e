package handlers

import (
	"net/http"
	"strconv"

	"alltech-pos/internal/cache"
	"alltech-pos/internal/models"
	"alltech-pos/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// --- GET /api/stock ---
// The full ledger is cached as one entry and paginated per request.
func (h *Handler) ListStock(c *gin.Context) {
	ctx := c.Request.Context()

	var products []models.Product
	if !cache.GetJSON(ctx, h.Cache, cache.StockListKey, &products) {
		var err error
		products, err = h.Store.Products(ctx)
		if err != nil {
			respondErr(c, err)
			return
		}
		cache.SetJSON(ctx, h.Cache, cache.StockListKey, products, h.StockTTL)
	}

	c.JSON(http.StatusOK, paginate(c, products))
}

// GetStockOrLow routes the literal "low" segment to the low-stock report;
// everything else is treated as a product id.
func (h *Handler) GetStockOrLow(c *gin.Context) {
	if c.Param("id") == "low" {
		h.LowStock(c)
		return
	}
	h.GetStock(c)
}

// --- GET /api/stock/:id ---
func (h *Handler) GetStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	key := cache.StockKey(id)

	var product models.Product
	if !cache.GetJSON(ctx, h.Cache, key, &product) {
		p, err := h.Store.Product(ctx, id)
		if err != nil {
			respondErr(c, err)
			return
		}
		product = *p
		cache.SetJSON(ctx, h.Cache, key, product, h.StockTTL)
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

type addStockRequest struct {
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    *int            `json:"quantity" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// --- POST /api/stock ---
func (h *Handler) AddStock(c *gin.Context) {
	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product := models.Product{
		Name:     req.ProductName,
		Quantity: *req.Quantity,
		Price:    req.Price,
	}
	if err := h.Store.CreateProduct(c.Request.Context(), &product); err != nil {
		respondErr(c, err)
		return
	}

	h.syncProduct(&product)
	c.JSON(http.StatusCreated, product)
}

type updateStockRequest struct {
	ProductName *string          `json:"product_name"`
	Quantity    *int             `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
}

// --- PATCH /api/stock/:id ---
func (h *Handler) UpdateStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product, err := h.Store.UpdateProduct(c.Request.Context(), id, store.ProductUpdate{
		Name:     req.ProductName,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	h.syncProduct(product)
	c.JSON(http.StatusOK, product)
}

// --- DELETE /api/stock/:id ---
// The index entry is cleared by the synchronizer; ledger deletion does not
// wait for it.
func (h *Handler) DeleteStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Store.DeleteProduct(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}

	h.dropProduct(id)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// --- GET /api/stock/low?threshold=N ---
// A product sitting exactly on the threshold counts as low.
func (h *Handler) LowStock(c *gin.Context) {
	threshold := 3
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid threshold"})
			return
		}
		threshold = n
	}

	products, err := h.Store.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, paginate(c, products))
}
