package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type askRequest struct {
	Message string `json:"message" binding:"required"`
}

// --- POST /api/ask ---
func (h *Handler) AskAI(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	answer, err := h.Agent.Run(c.Request.Context(), req.Message)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": answer})
}

// --- GET /api/insights/daily ---
// Service-token only. Summarizes yesterday's receipts; the scheduler mails
// the result out.
func (h *Handler) DailyInsights(c *gin.Context) {
	ctx := c.Request.Context()

	now := time.Now()
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)

	ok, err := h.Reports.HasReceiptsSince(ctx, yesterday)
	if err != nil {
		respondErr(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No transactions found for analysis."})
		return
	}

	prompt := fmt.Sprintf(
		"Generate a short business insight for yesterday (%s). "+
			"Use get_sales_report for that date, mention revenue and sale count, "+
			"and flag anything from low_stock that needs restocking.",
		yesterday.Format("2006-01-02"))

	answer, err := h.Agent.Run(ctx, prompt)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": answer})
}

// --- GET /api/insights/weekly ---
// Service-token only. Same shape as the daily job over the current week.
func (h *Handler) WeeklyInsights(c *gin.Context) {
	ctx := c.Request.Context()

	now := time.Now()
	// Monday of the current week.
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -int(now.Weekday()+6)%7)

	ok, err := h.Reports.HasReceiptsSince(ctx, weekStart)
	if err != nil {
		respondErr(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No transactions found for analysis."})
		return
	}

	prompt := fmt.Sprintf(
		"Generate a weekly business summary covering %s through %s. "+
			"Use get_sales_report for the range, call out the revenue trend, "+
			"and list any low_stock items to reorder.",
		weekStart.Format("2006-01-02"), now.Format("2006-01-02"))

	answer, err := h.Agent.Run(ctx, prompt)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": answer})
}
