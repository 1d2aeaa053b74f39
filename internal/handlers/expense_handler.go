package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/services"
)

// ExpenseHandler handles expense and receipt requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for creating an expense.
type CreateExpenseRequest struct {
	PayerID        string   `json:"payer_id" binding:"required,uuid"`
	Amount         int64    `json:"amount" binding:"required,gt=0"`
	Description    string   `json:"description" binding:"max=255"`
	ParticipantIDs []string `json:"participant_ids" binding:"required,min=1,dive,uuid"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
// Omitted fields are left unchanged.
type UpdateExpenseRequest struct {
	PayerID          *string `json:"payer_id" binding:"omitempty,uuid"`
	Amount           *int64  `json:"amount" binding:"omitempty,gt=0"`
	Description      *string `json:"description" binding:"omitempty,max=255"`
	ExpectedRevision *int64  `json:"expected_revision" binding:"omitempty,min=1"`
}

// UpdateExpenseParticipantsRequest replaces the share set of an expense.
type UpdateExpenseParticipantsRequest struct {
	ParticipantIDs   []string `json:"participant_ids" binding:"required,min=1,dive,uuid"`
	ExpectedRevision *int64   `json:"expected_revision" binding:"omitempty,min=1"`
}

// SettleExpenseRequest controls the payout recorded when settling.
type SettleExpenseRequest struct {
	RecordPayout bool `json:"record_payout"`
}

type imageUploadForm struct {
	Image *multipart.FileHeader `form:"image" binding:"required"`
}

type imageMeta struct {
	MimeType string `binding:"required,image_mime"`
}

// CreateExpense handles the creation of a new expense.
// @Summary     Create an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string               true "Trip ID"
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not a trip member"
// @Failure     404 {object} ErrorResponse "Trip not found"
// @Router      /trips/{tripID}/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), sess, tripID, services.ExpenseInput{
		PayerID:        req.PayerID,
		Amount:         req.Amount,
		Description:    req.Description,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing a trip's expenses.
// @Summary     Get expenses
// @Description Newest first; deleted expenses are included on request
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       tripID          path  string true  "Trip ID"
// @Param       include_deleted query bool   false "Include soft-deleted expenses"
// @Param       page            query int    false "Page number (default 1)"
// @Param       page_size       query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not a trip member"
// @Router      /trips/{tripID}/expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
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

	result, err := h.expenseService.ListExpenses(c.Request.Context(), sess, tripID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles fetching a single active expense.
// @Summary     Get expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /trips/{tripID}/expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), sess, tripID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles changing the payer, amount or description.
// @Summary     Update expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string               true "Trip ID"
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Changed fields"
// @Success     200 {object} models.Expense "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not allowed to modify"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Revision mismatch"
// @Router      /trips/{tripID}/expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), sess, tripID, id, services.ExpenseUpdate{
		PayerID:          req.PayerID,
		Amount:           req.Amount,
		Description:      req.Description,
		ExpectedRevision: req.ExpectedRevision,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpenseParticipants handles replacing the share set of an expense.
// @Summary     Update expense participants
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string                           true "Trip ID"
// @Param       id      path string                           true "Expense ID"
// @Param       request body UpdateExpenseParticipantsRequest true "New share set"
// @Success     200 {object} models.Expense "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Revision mismatch"
// @Router      /trips/{tripID}/expenses/{id}/participants [put]
func (h *ExpenseHandler) UpdateExpenseParticipants(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseParticipantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	expense, err := h.expenseService.UpdateExpenseParticipants(c.Request.Context(), sess, tripID, id, req.ParticipantIDs, req.ExpectedRevision)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles soft-deleting an expense.
// @Summary     Delete expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Expense ID"
// @Success     200 {object} map[string]string "Expense deleted"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /trips/{tripID}/expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), sess, tripID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// RestoreExpense handles bringing a soft-deleted expense back.
// @Summary     Restore expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense restored"
// @Failure     400 {object} ErrorResponse "A referenced participant was removed"
// @Failure     404 {object} ErrorResponse "Deleted expense not found"
// @Router      /trips/{tripID}/expenses/{id}/restore [post]
func (h *ExpenseHandler) RestoreExpense(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.RestoreExpense(c.Request.Context(), sess, tripID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// HardDeleteExpense handles permanently removing an expense.
// @Summary     Permanently delete expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Expense ID"
// @Success     200 {object} map[string]string "Expense removed"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /trips/{tripID}/expenses/{id}/permanent [delete]
func (h *ExpenseHandler) HardDeleteExpense(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.HardDeleteExpense(c.Request.Context(), sess, tripID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense permanently deleted"})
}

// SettleExpense handles marking an expense as settled.
// @Summary     Settle expense
// @Description Optionally records the payout from the fund to the payer
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string               true  "Trip ID"
// @Param       id      path string               true  "Expense ID"
// @Param       request body SettleExpenseRequest false "Payout option"
// @Success     200 {object} models.Expense "Expense settled"
// @Failure     403 {object} ErrorResponse "Treasurer or admin only"
// @Failure     409 {object} ErrorResponse "Already settled"
// @Router      /trips/{tripID}/expenses/{id}/settle [post]
func (h *ExpenseHandler) SettleExpense(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SettleExpenseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, bindInvalid(err))
			return
		}
	}

	expense, err := h.expenseService.SettleExpense(c.Request.Context(), sess, tripID, id, req.RecordPayout)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UnsettleExpense handles reverting a settlement.
// @Summary     Unsettle expense
// @Description Soft-deletes the payout recorded when the expense was settled
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense unsettled"
// @Failure     409 {object} ErrorResponse "Not settled"
// @Router      /trips/{tripID}/expenses/{id}/settle [delete]
func (h *ExpenseHandler) UnsettleExpense(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UnsettleExpense(c.Request.Context(), sess, tripID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// AddExpenseImage handles attaching a receipt image.
// @Summary     Upload receipt image
// @Tags        expenses
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path     string true "Trip ID"
// @Param       id     path     string true "Expense ID"
// @Param       image  formData file   true "Receipt image (max 10 MiB)"
// @Success     201 {object} models.ExpenseImage "Image attached"
// @Failure     400 {object} ErrorResponse "Not an image, too large or limit reached"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /trips/{tripID}/expenses/{id}/images [post]
func (h *ExpenseHandler) AddExpenseImage(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, models.MaxExpenseImageBytes+1<<20)
	var form imageUploadForm
	if err := c.ShouldBind(&form); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	file, err := form.Image.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	reader, mimeType, err := sniffMime(file, form.Image.Header.Get("Content-Type"))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	if err := binding.Validator.ValidateStruct(&imageMeta{MimeType: mimeType}); err != nil {
		respondWithError(c, apperrors.Validation("expense_image", "image_mime_invalid", "Only image uploads are accepted"))
		return
	}

	img, err := h.expenseService.AddExpenseImage(c.Request.Context(), sess, tripID, id, services.ImageUpload{
		Filename: form.Image.Filename,
		MimeType: mimeType,
		Size:     form.Image.Size,
		Reader:   reader,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image": img})
}

// sniffMime trusts a declared image type and otherwise detects it from the
// first bytes of the upload.
func sniffMime(r io.Reader, declared string) (io.Reader, string, error) {
	if declared != "" && declared != "application/octet-stream" {
		return r, declared, nil
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, "", err
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), r), http.DetectContentType(head), nil
}

// RemoveExpenseImage handles detaching a receipt image.
// @Summary     Remove receipt image
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string true "Trip ID"
// @Param       id      path string true "Expense ID"
// @Param       imageID path string true "Image ID"
// @Success     200 {object} map[string]string "Image removed"
// @Failure     404 {object} ErrorResponse "Image not found"
// @Router      /trips/{tripID}/expenses/{id}/images/{imageID} [delete]
func (h *ExpenseHandler) RemoveExpenseImage(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	imageID, err := parsePathID(c, "imageID")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.RemoveExpenseImage(c.Request.Context(), sess, tripID, id, imageID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image removed successfully"})
}

// GetExpenseHistory handles listing the audit entries of an expense.
// @Summary     Get expense history
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       tripID    path  string true  "Trip ID"
// @Param       id        path  string true  "Expense ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Audit entries, newest first"
// @Router      /trips/{tripID}/expenses/{id}/history [get]
func (h *ExpenseHandler) GetExpenseHistory(c *gin.Context) {
	respondWithHistory(c, h.auditService, models.EntityExpense)
}

// respondWithHistory serves the audit entries of the entity named by the
// :id path parameter.
func respondWithHistory(c *gin.Context, audit services.AuditServicer, entityType string) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	req, err := bindListRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := audit.History(c.Request.Context(), sess, tripID, entityType, id, req.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
