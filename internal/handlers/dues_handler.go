package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tripledger/internal/models"
	"tripledger/internal/services"
)

// DuesHandler handles dues goal requests.
type DuesHandler struct {
	duesService  services.DuesServicer
	auditService services.AuditServicer
}

// NewDuesHandler creates a new DuesHandler.
func NewDuesHandler(duesService services.DuesServicer, auditService services.AuditServicer) *DuesHandler {
	return &DuesHandler{duesService: duesService, auditService: auditService}
}

// CreateDuesGoalRequest represents a new per-participant collection target.
type CreateDuesGoalRequest struct {
	Title        string `json:"title" binding:"required,notblank,max=100"`
	DueDate      string `json:"due_date" binding:"omitempty,iso_date"`
	TargetAmount int64  `json:"target_amount" binding:"required,gt=0"`
}

// CreateGoal handles the creation of a dues goal.
// @Summary     Create dues goal
// @Tags        dues
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string                true "Trip ID"
// @Param       request body CreateDuesGoalRequest true "Goal details"
// @Success     201 {object} models.DuesGoal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Treasurer or admin only"
// @Router      /trips/{tripID}/dues [post]
func (h *DuesHandler) CreateGoal(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDuesGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		d, err := time.Parse(time.DateOnly, req.DueDate)
		if err != nil {
			respondWithError(c, bindInvalid(err))
			return
		}
		dueDate = &d
	}

	goal, err := h.duesService.CreateGoal(c.Request.Context(), sess, tripID, req.Title, dueDate, req.TargetAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetGoals handles listing a trip's dues goals.
// @Summary     Get dues goals
// @Description Ordered by due date, undated goals last
// @Tags        dues
// @Produce     json
// @Security    BearerAuth
// @Param       tripID          path  string true  "Trip ID"
// @Param       include_deleted query bool   false "Include soft-deleted goals"
// @Success     200 {array} models.DuesGoal "Goals"
// @Router      /trips/{tripID}/dues [get]
func (h *DuesHandler) GetGoals(c *gin.Context) {
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

	goals, err := h.duesService.ListGoals(c.Request.Context(), sess, tripID, req.IncludeDeleted)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// GetProgress handles computing who has paid towards a goal.
// @Summary     Get dues progress
// @Tags        dues
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Goal ID"
// @Success     200 {object} settlement.DuesProgress "Collection status"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /trips/{tripID}/dues/{id}/progress [get]
func (h *DuesHandler) GetProgress(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.duesService.GetProgress(c.Request.Context(), sess, tripID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// DeleteGoal handles soft-deleting a goal.
// @Summary     Delete dues goal
// @Tags        dues
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Goal ID"
// @Success     200 {object} map[string]string "Goal deleted"
// @Router      /trips/{tripID}/dues/{id} [delete]
func (h *DuesHandler) DeleteGoal(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.duesService.DeleteGoal(c.Request.Context(), sess, tripID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Dues goal deleted successfully"})
}

// RestoreGoal handles bringing a soft-deleted goal back.
// @Summary     Restore dues goal
// @Tags        dues
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Goal ID"
// @Success     200 {object} models.DuesGoal "Goal restored"
// @Router      /trips/{tripID}/dues/{id}/restore [post]
func (h *DuesHandler) RestoreGoal(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.duesService.RestoreGoal(c.Request.Context(), sess, tripID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// HardDeleteGoal handles permanently removing a goal.
// @Summary     Permanently delete dues goal
// @Tags        dues
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Goal ID"
// @Success     200 {object} map[string]string "Goal removed"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Router      /trips/{tripID}/dues/{id}/permanent [delete]
func (h *DuesHandler) HardDeleteGoal(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.duesService.HardDeleteGoal(c.Request.Context(), sess, tripID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Dues goal permanently deleted"})
}

// GetGoalHistory handles listing the audit entries of a goal.
// @Summary     Get dues goal history
// @Tags        dues
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Goal ID"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Audit entries, newest first"
// @Router      /trips/{tripID}/dues/{id}/history [get]
func (h *DuesHandler) GetGoalHistory(c *gin.Context) {
	respondWithHistory(c, h.auditService, models.EntityDuesGoal)
}
