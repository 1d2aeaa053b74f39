package handlers

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"tripledger/internal/logger"
	"tripledger/internal/notify"
	"tripledger/internal/services"
)

var errStreamBehind = errors.New("change stream buffer full")

// Subscriber is the part of the change bus the stream needs.
type Subscriber interface {
	Subscribe(tripID, table string, handler notify.Handler) func()
}

// StreamTracker counts open streams. The metrics registry implements it.
type StreamTracker interface {
	StreamOpened() func()
}

// ChangeHandler streams committed changes of a trip as server-sent events.
type ChangeHandler struct {
	tripService services.TripServicer
	bus         Subscriber
	streams     StreamTracker
	keepAlive   time.Duration
}

// NewChangeHandler creates a new ChangeHandler. streams may be nil.
func NewChangeHandler(tripService services.TripServicer, bus Subscriber, streams StreamTracker) *ChangeHandler {
	return &ChangeHandler{tripService: tripService, bus: bus, streams: streams, keepAlive: 25 * time.Second}
}

// StreamChanges handles the change subscription of a trip.
// @Summary     Stream trip changes
// @Description Server-sent "change" events, one per committed mutation. Clients re-fetch on receipt.
// @Tags        changes
// @Produce     text/event-stream
// @Security    BearerAuth
// @Param       tripID path  string true  "Trip ID"
// @Param       table  query string false "Only changes of this table"
// @Success     200 {object} notify.Change "Event stream"
// @Failure     403 {object} ErrorResponse "Not a trip member"
// @Router      /trips/{tripID}/changes [get]
func (h *ChangeHandler) StreamChanges(c *gin.Context) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if _, err := h.tripService.GetTrip(c.Request.Context(), sess, tripID); err != nil {
		respondWithError(c, err)
		return
	}

	changes := make(chan notify.Change, 32)
	unsubscribe := h.bus.Subscribe(tripID, c.Query("table"), func(_ context.Context, change notify.Change) error {
		select {
		case changes <- change:
			return nil
		default:
			return errStreamBehind
		}
	})
	defer unsubscribe()

	if h.streams != nil {
		defer h.streams.StreamOpened()()
	}

	logger.Get().Debugw("change stream opened", "trip_id", tripID, "user_id", sess.UserID)

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"trip_id": tripID})
	c.Stream(func(_ io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case change := <-changes:
			c.SSEvent("change", change)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})

	logger.Get().Debugw("change stream closed", "trip_id", tripID, "user_id", sess.UserID)
}
