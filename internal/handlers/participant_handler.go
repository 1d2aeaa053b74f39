package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripledger/internal/services"
)

// ParticipantHandler handles trip membership requests.
type ParticipantHandler struct {
	participantService services.ParticipantServicer
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(participantService services.ParticipantServicer) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// ParticipantNameRequest carries a participant display name.
type ParticipantNameRequest struct {
	Name string `json:"name" binding:"required,notblank,max=50"`
}

// SetTreasurerRequest toggles the treasurer flag.
type SetTreasurerRequest struct {
	IsTreasurer *bool `json:"is_treasurer" binding:"required"`
}

// GetParticipants handles listing a trip's participants.
// @Summary     Get participants
// @Tags        participants
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Success     200 {array}  models.Participant "Participants"
// @Failure     403 {object} ErrorResponse "Not a trip member"
// @Failure     404 {object} ErrorResponse "Trip not found"
// @Router      /trips/{tripID}/participants [get]
func (h *ParticipantHandler) GetParticipants(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	participants, err := h.participantService.ListParticipants(c.Request.Context(), sess, tripID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participants": participants})
}

// AddParticipant handles adding a participant to a trip.
// @Summary     Add participant
// @Tags        participants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string                 true "Trip ID"
// @Param       request body ParticipantNameRequest true "Participant name"
// @Success     201 {object} models.Participant "Participant added"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Treasurer or admin only"
// @Failure     409 {object} ErrorResponse "Name already used in this trip"
// @Router      /trips/{tripID}/participants [post]
func (h *ParticipantHandler) AddParticipant(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ParticipantNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	p, err := h.participantService.AddParticipant(c.Request.Context(), sess, tripID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"participant": p})
}

// RenameParticipant handles renaming a participant.
// @Summary     Rename participant
// @Tags        participants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string                 true "Trip ID"
// @Param       id      path string                 true "Participant ID"
// @Param       request body ParticipantNameRequest true "New name"
// @Success     200 {object} models.Participant "Participant renamed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Participant not found"
// @Failure     409 {object} ErrorResponse "Name already used in this trip"
// @Router      /trips/{tripID}/participants/{id} [put]
func (h *ParticipantHandler) RenameParticipant(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ParticipantNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	p, err := h.participantService.RenameParticipant(c.Request.Context(), sess, tripID, id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participant": p})
}

// RemoveParticipant handles removing a participant that no active expense references.
// @Summary     Remove participant
// @Tags        participants
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Param       id     path string true "Participant ID"
// @Success     200 {object} map[string]string "Participant removed"
// @Failure     400 {object} ErrorResponse "Participant still referenced or trip too small"
// @Failure     404 {object} ErrorResponse "Participant not found"
// @Router      /trips/{tripID}/participants/{id} [delete]
func (h *ParticipantHandler) RemoveParticipant(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.participantService.RemoveParticipant(c.Request.Context(), sess, tripID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Participant removed successfully"})
}

// SetTreasurer handles granting or revoking the treasurer role.
// @Summary     Set treasurer
// @Tags        participants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string              true "Trip ID"
// @Param       id      path string              true "Participant ID"
// @Param       request body SetTreasurerRequest true "Treasurer flag"
// @Success     200 {object} models.Participant "Participant updated"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Participant not found"
// @Router      /trips/{tripID}/participants/{id}/treasurer [put]
func (h *ParticipantHandler) SetTreasurer(c *gin.Context) {
	sess, tripID, id, err := tripEntityScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetTreasurerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	p, err := h.participantService.SetTreasurer(c.Request.Context(), sess, tripID, id, *req.IsTreasurer)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participant": p})
}

// ClaimParticipant handles linking the caller to an unclaimed participant by name.
// @Summary     Claim participant
// @Tags        participants
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string                 true "Trip ID"
// @Param       request body ParticipantNameRequest true "Participant name"
// @Success     200 {object} models.Participant "Participant claimed"
// @Failure     404 {object} ErrorResponse "No participant with this name"
// @Failure     409 {object} ErrorResponse "Already claimed"
// @Router      /trips/{tripID}/participants/claim [post]
func (h *ParticipantHandler) ClaimParticipant(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ParticipantNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	p, err := h.participantService.ClaimParticipant(c.Request.Context(), sess, tripID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participant": p})
}
