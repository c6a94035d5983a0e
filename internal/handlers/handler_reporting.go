package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/bizdash/backend/internal/core/ports/services"
	"github.com/bizdash/backend/internal/dto"
	"github.com/bizdash/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for aggregate reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
	}
}

// getTrialBalance godoc
// @Summary Generate a trial balance
// @Description Aggregates leaf-account net activity up to the given date and verifies total debits equal total credits
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Report failed, including an unbalanced ledger"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf := time.Now().UTC()
	if asOfStr := c.Query("asOf"); asOfStr != "" {
		parsed, err := time.Parse("2006-01-02", asOfStr)
		if err != nil {
			logger.Warn("Invalid asOf date for trial balance", slog.String("as_of", asOfStr))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	logger = logger.With(slog.Time("as_of", asOf))
	logger.Info("Received request for trial balance")

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}
