package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/bizdash/backend/internal/core/ports/services"
	"github.com/bizdash/backend/internal/dto"
	"github.com/bizdash/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for the journal lifecycle.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// RegisterJournalRoutes registers routes related to journals.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:id", h.getJournal)
		journals.PUT("/:id", h.updateJournal)
		journals.POST("/:id/post", h.postJournal)
		journals.POST("/:id/reverse", h.reverseJournal)
	}
}

// createJournal godoc
// @Summary Create a draft journal
// @Description Validates and creates a new draft journal with its lines. Drafts do not touch balances until posted.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalRequest true "Journal details"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create journal"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create journal", slog.Int("line_count", len(req.Lines)))

	journal, err := h.journalService.CreateJournal(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create journal")
		return
	}

	logger.Info("Draft journal created", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal by ID
// @Description Retrieves a journal with its lines
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal"
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	logger = logger.With(slog.String("target_journal_id", journalID))

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals
// @Description Retrieves a token-paginated list of journals, optionally filtered by status
// @Tags journals
// @Produce  json
// @Param   status query string false "Filter by status (DRAFT, POSTED, REVERSED)"
// @Param   includeReversals query bool false "Include reversing journals"
// @Param   includeLines query bool false "Include lines in each journal"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list journals"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListJournals", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list journals")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateJournal godoc
// @Summary Update a draft journal
// @Description Replaces the header fields and lines of a draft journal. Posted journals are immutable.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal ID to update"
// @Param   journal body dto.UpdateJournalRequest true "Journal details to update"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is no longer a draft"
// @Failure 500 {object} map[string]string "Failed to update journal"
// @Security BearerAuth
// @Router /journals/{id} [put]
func (h *journalHandler) updateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	var req dto.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("target_journal_id", journalID), slog.String("updater_user_id", loggedInUserID))

	journal, err := h.journalService.UpdateJournal(c.Request.Context(), journalID, req, loggedInUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update journal")
		return
	}

	logger.Info("Draft journal updated")
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// postJournal godoc
// @Summary Post a draft journal
// @Description Re-validates and atomically posts a draft journal, applying balance changes and appending ledger rows
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID to post"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Journal failed validation"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not a draft or was posted concurrently"
// @Failure 500 {object} map[string]string "Failed to post journal, including ledger consistency failures"
// @Security BearerAuth
// @Router /journals/{id}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("target_journal_id", journalID), slog.String("poster_user_id", loggedInUserID))
	logger.Info("Received request to post journal")

	journal, err := h.journalService.PostJournal(c.Request.Context(), journalID, loggedInUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to post journal")
		return
	}

	logger.Info("Journal posted", slog.Int64("sequence_no", journal.SequenceNo))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Posts an exact offsetting journal and marks the original as reversed, atomically
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal ID to reverse"
// @Param   reversal body dto.ReverseJournalRequest true "Reversal reason"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not posted or already reversed"
// @Failure 500 {object} map[string]string "Failed to reverse journal"
// @Security BearerAuth
// @Router /journals/{id}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	var req dto.ReverseJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("target_journal_id", journalID), slog.String("reverser_user_id", loggedInUserID))
	logger.Info("Received request to reverse journal")

	reversal, err := h.journalService.ReverseJournal(c.Request.Context(), journalID, req.Reason, loggedInUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reverse journal")
		return
	}

	logger.Info("Journal reversed", slog.String("reversing_journal_id", reversal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}
