package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripledger/internal/services"
)

// SettlementHandler serves the computed settlement views of a trip.
type SettlementHandler struct {
	settlementService services.SettlementServicer
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementService services.SettlementServicer) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// GetSettlements handles computing who owes whom.
// @Summary     Get settlements
// @Description Per-participant transfers for the active, unsettled expenses
// @Tags        settlements
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Success     200 {array}  settlement.PersonalSettlement "Settlements"
// @Failure     403 {object} ErrorResponse "Not a trip member"
// @Router      /trips/{tripID}/settlements [get]
func (h *SettlementHandler) GetSettlements(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settlements, err := h.settlementService.GetSettlements(c.Request.Context(), sess, tripID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settlements": settlements})
}

// GetNetBalances handles computing each participant's position against the fund.
// @Summary     Get net balances
// @Tags        settlements
// @Produce     json
// @Security    BearerAuth
// @Param       tripID path string true "Trip ID"
// @Success     200 {object} settlement.NetBalances "Balances"
// @Failure     403 {object} ErrorResponse "Not a trip member"
// @Router      /trips/{tripID}/balances [get]
func (h *SettlementHandler) GetNetBalances(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	balances, err := h.settlementService.GetNetBalances(c.Request.Context(), sess, tripID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}
