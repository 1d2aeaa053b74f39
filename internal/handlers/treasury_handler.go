package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripledger/internal/models"
	"tripledger/internal/services"
)

// TreasuryHandler handles requests on the trip's collective fund.
type TreasuryHandler struct {
	treasuryService services.TreasuryServicer
	auditService    services.AuditServicer
}

// NewTreasuryHandler creates a new TreasuryHandler.
func NewTreasuryHandler(treasuryService services.TreasuryServicer, auditService services.AuditServicer) *TreasuryHandler {
	return &TreasuryHandler{treasuryService: treasuryService, auditService: auditService}
}

// RecordTransactionRequest represents a receive into or send out of the fund.
type RecordTransactionRequest struct {
	Direction      string  `json:"direction" binding:"required,treasury_direction"`
	CounterpartyID *string `json:"counterparty_id" binding:"omitempty,uuid"`
	Amount         int64   `json:"amount" binding:"required,gt=0"`
	Memo           string  `json:"memo" binding:"max=255"`
	DueID          *string `json:"due_id" binding:"omitempty,uuid"`
	ExpenseID      *string `json:"expense_id" binding:"omitempty,uuid"`
}

// RecordDuesPaymentsRequest records one receive per selected participant.
type RecordDuesPaymentsRequest struct {
	DueID           string   `json:"due_id" binding:"required,uuid"`
	CounterpartyIDs []string `json:"counterparty_ids" binding:"required,min=1,dive,uuid"`
	Amount          *int64   `json:"amount" binding:"omitempty,gt=0"`
	Memo            string   `json:"memo" binding:"max=255"`
}

// RecordTransaction handles recording a fund movement.
// @Summary     Record treasury transaction
// @Tags        treasury
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string                   true "Trip ID"
// @Param       request body RecordTransactionRequest true "Transaction details"
// @Success     201 {object} models.TreasuryTransaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Treasurer or admin only"
// @Router      /trips/{tripID}/treasury [post]
func (h *TreasuryHandler) RecordTransaction(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	t, err := h.treasuryService.RecordTransaction(c.Request.Context(), sess, tripID, services.TreasuryInput{
		Direction:      models.TreasuryDirection(req.Direction),
		CounterpartyID: req.CounterpartyID,
		Amount:         req.Amount,
		Memo:           req.Memo,
		DueID:          req.DueID,
		ExpenseID:      req.ExpenseID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": t})
}

// RecordDuesPayments handles recording dues paid by several participants at once.
// @Summary     Record dues payments
// @Description Amount defaults to the goal target; all payments are recorded or none
// @Tags        treasury
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string                    true "Trip ID"
// @Param       request body RecordDuesPaymentsRequest true "Payments"
// @Success     201 {array}  models.TreasuryTransaction "Transactions recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Dues goal not found"
// @Router      /trips/{tripID}/treasury/dues-payments [post]
func (h *TreasuryHandler) RecordDuesPayments(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordDuesPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	txs, err := h.treasuryService.RecordDuesPayments(c.Request.Context(), sess, tripID, services.DuesPaymentsInput{
		DueID:           req.DueID,
		CounterpartyIDs: req.CounterpartyIDs,
		Amount:          req.Amount,
		Memo:            req.Memo,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transactions": txs})
}

// GetTransactions handles listing the fund's movements.
// @Summary     Get treasury transactions
// @Tags        treasury
// @Produce     json
// @Security    BearerAuth
// @Param       tripID          path  string true  "Trip ID"
// @Param       include_deleted query bool   false "Include soft-deleted transactions"
// @Param       page            query int    false "Page number (default 1)"
// @Param       page_size       query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.TreasuryTransaction] "Paginated transactions"
// @Router      /trips/{tripID}/treasury [get]
func (h *TreasuryHandler) GetTransactions(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	req, err := bindListRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.treasuryService.ListTransactions(c.Request.Context(), sess, tripID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSummary handles totalling the fund.
// @Summary     Get treasury summary
// @Tags        treasury
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Success     200 {object} services.TreasurySummary "Fund totals"
// @Router      /trips/{tripID}/treasury/summary [get]
func (h *TreasuryHandler) GetSummary(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.treasuryService.GetSummary(c.Request.Context(), sess, tripID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DeleteTransaction handles soft-deleting a fund movement.
// @Summary     Delete treasury transaction
// @Tags        treasury
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Transaction ID"
// @Success     200 {object} map[string]string "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /trips/{tripID}/treasury/{id} [delete]
func (h *TreasuryHandler) DeleteTransaction(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.treasuryService.DeleteTransaction(c.Request.Context(), sess, tripID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// RestoreTransaction handles bringing a soft-deleted movement back.
// @Summary     Restore treasury transaction
// @Tags        treasury
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Transaction ID"
// @Success     200 {object} models.TreasuryTransaction "Transaction restored"
// @Failure     404 {object} ErrorResponse "Deleted transaction not found"
// @Router      /trips/{tripID}/treasury/{id}/restore [post]
func (h *TreasuryHandler) RestoreTransaction(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	t, err := h.treasuryService.RestoreTransaction(c.Request.Context(), sess, tripID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": t})
}

// HardDeleteTransaction handles permanently removing a fund movement.
// @Summary     Permanently delete treasury transaction
// @Tags        treasury
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Transaction ID"
// @Success     200 {object} map[string]string "Transaction removed"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Router      /trips/{tripID}/treasury/{id}/permanent [delete]
func (h *TreasuryHandler) HardDeleteTransaction(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.treasuryService.HardDeleteTransaction(c.Request.Context(), sess, tripID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction permanently deleted"})
}

// GetTransactionHistory handles listing the audit entries of a fund movement.
// @Summary     Get treasury transaction history
// @Tags        treasury
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Transaction ID"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Audit entries, newest first"
// @Router      /trips/{tripID}/treasury/{id}/history [get]
func (h *TreasuryHandler) GetTransactionHistory(c *gin.Context) {
	respondWithHistory(c, h.auditService, models.EntityTreasuryTransaction)
}
