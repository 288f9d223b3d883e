package handlers

import (
	"net/http"
	"strconv"

	"alltech-pos/internal/store"

	"github.com/gin-gonic/gin"
)

// --- GET /api/reports/dashboard ---
func (h *Handler) Dashboard(c *gin.Context) {
	report, err := h.Reports.Dashboard(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET /api/reports/weekly?weeks=N ---
func (h *Handler) WeeklyAnalysis(c *gin.Context) {
	weeks := 8
	if raw := c.Query("weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parameter value"})
			return
		}
		weeks = n
	}

	report, err := h.Reports.Weekly(c.Request.Context(), weeks)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET /api/reports/monthly ---
func (h *Handler) MonthlyAnalysis(c *gin.Context) {
	report, err := h.Reports.Monthly(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET /api/reports/yearly ---
func (h *Handler) YearlyAnalysis(c *gin.Context) {
	report, err := h.Reports.Yearly(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET /api/reports/customers ---
func (h *Handler) CustomerInsights(c *gin.Context) {
	report, err := h.Reports.Customers(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET /api/reports/products ---
func (h *Handler) ProductInsights(c *gin.Context) {
	report, err := h.Reports.Products(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET /api/reports/patterns ---
func (h *Handler) SalesPatterns(c *gin.Context) {
	report, err := h.Reports.Patterns(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET /api/reports/export ---
// Service-token only. Hands the completed-transaction ledger to the
// scheduled caller and purges it; the rows only live between completion
// and this export.
func (h *Handler) ExportCompleted(c *gin.Context) {
	result, err := h.Store.ExportCompleted(c.Request.Context())
	if err == store.ErrTransactionNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "No completed transactions available"})
		return
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
