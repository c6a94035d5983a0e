package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/bizdash/backend/internal/core/ports/services"
	"github.com/bizdash/backend/internal/dto"
	"github.com/bizdash/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests over the append-only ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers routes related to account ledgers.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:id/ledger", h.getLedger)
		accounts.POST("/:id/ledger/verify", h.verifyLedger)
	}
}

// getLedger godoc
// @Summary Get an account's ledger
// @Description Retrieves a date-filtered, paginated slice of an account's ledger with running balances
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Limit number of results" default(50)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.GetLedgerResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve ledger"
// @Security BearerAuth
// @Router /accounts/{id}/ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var params dto.GetLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))

	resp, err := h.ledgerService.GetLedger(c.Request.Context(), accountID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve ledger")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// verifyLedger godoc
// @Summary Verify an account's ledger
// @Description Replays the account's full ledger from its opening balance and checks every stored running balance
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} map[string]string "Ledger verified"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Ledger consistency violation detected"
// @Security BearerAuth
// @Router /accounts/{id}/ledger/verify [post]
func (h *ledgerHandler) verifyLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	logger = logger.With(slog.String("target_account_id", accountID))
	logger.Info("Received request to verify ledger")

	if err := h.ledgerService.VerifyLedger(c.Request.Context(), accountID); err != nil {
		respondWithError(c, logger, err, "Failed to verify ledger")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "verified", "accountID": accountID})
}
