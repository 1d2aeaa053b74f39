package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripledger/internal/services"
)

// AccountHandler handles payout and fund account requests.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ParticipantAccountRequest represents the payout account of a participant.
type ParticipantAccountRequest struct {
	BankName      string `json:"bank_name" binding:"required,notblank,max=100"`
	AccountNumber string `json:"account_number" binding:"required,notblank,max=50"`
	AccountHolder string `json:"account_holder" binding:"required,notblank,max=100"`
	IsPublic      bool   `json:"is_public"`
}

// TreasuryAccountRequest represents the account that receives fund payments.
type TreasuryAccountRequest struct {
	BankName      string `json:"bank_name" binding:"required,notblank,max=100"`
	AccountNumber string `json:"account_number" binding:"required,notblank,max=50"`
	AccountHolder string `json:"account_holder" binding:"required,notblank,max=100"`
	Memo          string `json:"memo" binding:"max=255"`
}

// UpsertParticipantAccount handles creating or replacing a payout account.
// @Summary     Set participant account
// @Description Only the participant's own user may set it
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string                    true "Trip ID"
// @Param       id      path string                    true "Participant ID"
// @Param       request body ParticipantAccountRequest true "Bank details"
// @Success     200 {object} models.ParticipantAccount "Account saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not your participant"
// @Failure     404 {object} ErrorResponse "Participant not found"
// @Router      /trips/{tripID}/participants/{id}/account [put]
func (h *AccountHandler) UpsertParticipantAccount(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ParticipantAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	account, err := h.accountService.UpsertParticipantAccount(c.Request.Context(), sess, tripID, id, services.BankAccountInput{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountHolder: req.AccountHolder,
		IsPublic:      req.IsPublic,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// GetParticipantAccounts handles listing the payout accounts visible to the caller.
// @Summary     Get participant accounts
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Success     200 {array}  models.ParticipantAccount "Visible accounts"
// @Failure     403 {object} ErrorResponse "Not a trip member"
// @Router      /trips/{tripID}/accounts [get]
func (h *AccountHandler) GetParticipantAccounts(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accountService.ListParticipantAccounts(c.Request.Context(), sess, tripID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// GetTreasuryAccount handles fetching the trip's fund account.
// @Summary     Get treasury account
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Success     200 {object} models.TripTreasuryAccount "Fund account"
// @Failure     404 {object} ErrorResponse "No fund account yet"
// @Router      /trips/{tripID}/treasury-account [get]
func (h *AccountHandler) GetTreasuryAccount(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetTreasuryAccount(c.Request.Context(), sess, tripID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpsertTreasuryAccount handles creating or replacing the trip's fund account.
// @Summary     Set treasury account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string                 true "Trip ID"
// @Param       request body TreasuryAccountRequest true "Bank details"
// @Success     200 {object} models.TripTreasuryAccount "Fund account saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Treasurer or admin only"
// @Router      /trips/{tripID}/treasury-account [put]
func (h *AccountHandler) UpsertTreasuryAccount(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TreasuryAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	account, err := h.accountService.UpsertTreasuryAccount(c.Request.Context(), sess, tripID, services.BankAccountInput{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountHolder: req.AccountHolder,
		Memo:          req.Memo,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}
