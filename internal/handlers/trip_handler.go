package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripledger/internal/pagination"
	"tripledger/internal/services"
)

// TripHandler handles trip administration requests.
type TripHandler struct {
	tripService services.TripServicer
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService services.TripServicer) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest represents the request payload for creating a trip.
type CreateTripRequest struct {
	Name             string   `json:"name" binding:"required,notblank,max=100"`
	ParticipantNames []string `json:"participant_names" binding:"required,min=2,dive,notblank,max=50"`
}

// RenameTripRequest represents the request payload for renaming a trip.
type RenameTripRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

// CreateTrip handles the creation of a trip with its initial participants.
// @Summary     Create a trip
// @Description Create a trip with at least two participants (admin only)
// @Tags        trips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTripRequest true "Trip details"
// @Success     201 {object} models.Trip "Trip created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips [post]
func (h *TripHandler) CreateTrip(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), sess, req.Name, req.ParticipantNames)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// GetTrips handles listing the trips visible to the caller.
// @Summary     Get trips
// @Description Admins see every trip, members the trips they claimed a participant in
// @Tags        trips
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Trip] "Paginated trips"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips [get]
func (h *TripHandler) GetTrips(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	result, err := h.tripService.ListTrips(c.Request.Context(), sess, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTrip handles fetching a single trip.
// @Summary     Get trip
// @Tags        trips
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Success     200 {object} models.Trip "Trip"
// @Failure     403 {object} ErrorResponse "Not a trip member"
// @Failure     404 {object} ErrorResponse "Trip not found"
// @Router      /trips/{tripID} [get]
func (h *TripHandler) GetTrip(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trip, err := h.tripService.GetTrip(c.Request.Context(), sess, tripID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// RenameTrip handles renaming a trip.
// @Summary     Rename trip
// @Tags        trips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tripID  path string            true "Trip ID"
// @Param       request body RenameTripRequest true "New name"
// @Success     200 {object} models.Trip "Trip renamed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Trip not found"
// @Router      /trips/{tripID} [put]
func (h *TripHandler) RenameTrip(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RenameTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindInvalid(err))
		return
	}

	trip, err := h.tripService.RenameTrip(c.Request.Context(), sess, tripID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// DeleteTrip handles permanently removing a trip and everything in it.
// @Summary     Delete trip
// @Tags        trips
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Success     200 {object} map[string]string "Trip deleted"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Trip not found"
// @Router      /trips/{tripID} [delete]
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.tripService.DeleteTrip(c.Request.Context(), sess, tripID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted successfully"})
}
