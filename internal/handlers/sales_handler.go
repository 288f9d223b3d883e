package handlers

import (
	"net/http"

	"alltech-pos/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type sellRequest struct {
	ProductName  string          `json:"product_name" binding:"required"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	Quantity     int             `json:"quantity" binding:"required,gt=0"`
	CustomerName string          `json:"customer_name" binding:"required"`
}

// --- POST /api/sell/:id ---
// Locks and decrements the product row and creates the pending transaction
// in one atomic unit; the index/cache tail runs after the response.
func (h *Handler) Sell(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	pending, product, err := h.Store.RecordSale(c.Request.Context(), id, store.SaleInput{
		ProductName:  req.ProductName,
		Price:        req.Price,
		Quantity:     req.Quantity,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	h.syncProduct(product)

	c.JSON(http.StatusOK, gin.H{
		"data":           req,
		"transaction_id": pending.ID,
	})
}

// --- GET /api/pending ---
func (h *Handler) ListPending(c *gin.Context) {
	pending, err := h.Store.Pending(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pending})
}

// --- POST /api/complete/:id ---
// Receipt, export duplicate, customer upsert and pending delete commit
// together; the store's completion hook busts this year's report caches.
func (h *Handler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.Store.CompleteTransaction(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Completed transaction",
		"receipt_id": receipt.ID,
	})
}

// --- GET|POST /api/refund/:id ---
// Restores exactly one unit whatever quantity was sold, then deletes the
// pending row. Refunding the same id again finds nothing and fails.
func (h *Handler) Refund(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.Store.RefundTransaction(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.syncProduct(product)
	c.JSON(http.StatusOK, gin.H{"message": "Refund Successful"})
}

// --- GET /api/customers ---
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.Store.Customers(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}
