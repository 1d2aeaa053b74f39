package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/logger"
	"tripledger/internal/models"
	"tripledger/internal/notify"
	"tripledger/internal/services"
)

// closeNotifyingRecorder lets gin's Stream run against a recorder.
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyingRecorder) CloseNotify() <-chan bool {
	return r.closed
}

type countingTracker struct {
	open atomic.Int32
}

func (c *countingTracker) StreamOpened() func() {
	c.open.Add(1)
	return func() { c.open.Add(-1) }
}

func TestChangeHandler_StreamChanges(t *testing.T) {
	t.Run("delivers committed changes", func(t *testing.T) {
		bus := notify.NewBus(logger.Get())
		tracker := &countingTracker{}
		r := gin.New()
		r.GET("/trips/:tripID/changes", injectSession(testUserID, false),
			NewChangeHandler(&mockTripService{}, bus, tracker).StreamChanges)

		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/trips/"+testTripID+"/changes?table="+notify.TableExpenses, http.NoBody).WithContext(ctx)
		rec := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}

		done := make(chan struct{})
		go func() {
			r.ServeHTTP(rec, req)
			close(done)
		}()

		deadline := time.Now().Add(2 * time.Second)
		for bus.Subscribers(testTripID) == 0 {
			if time.Now().After(deadline) {
				t.Fatal("stream never subscribed")
			}
			time.Sleep(5 * time.Millisecond)
		}
		if tracker.open.Load() != 1 {
			t.Errorf("expected 1 open stream, got %d", tracker.open.Load())
		}

		// Filtered out by the table query.
		_ = bus.PublishSync(context.Background(), notify.Change{TripID: testTripID, Table: notify.TableDuesGoals, EntityID: testEntityID2, Action: models.AuditCreate})
		if err := bus.PublishSync(context.Background(), notify.Change{
			TripID: testTripID, Table: notify.TableExpenses, EntityID: testEntityID, Action: models.AuditUpdate,
		}); err != nil {
			t.Fatalf("publish failed: %v", err)
		}

		time.Sleep(50 * time.Millisecond)
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("stream did not stop after the client left")
		}

		body := rec.Body.String()
		if !strings.Contains(body, "event:ready") {
			t.Errorf("expected ready event, got %q", body)
		}
		if !strings.Contains(body, "event:change") || !strings.Contains(body, testEntityID) {
			t.Errorf("expected change event for %s, got %q", testEntityID, body)
		}
		if strings.Contains(body, testEntityID2) {
			t.Error("expected other tables to be filtered out")
		}
		if bus.Subscribers(testTripID) != 0 {
			t.Error("expected the subscription to be removed")
		}
		if tracker.open.Load() != 0 {
			t.Errorf("expected no open streams, got %d", tracker.open.Load())
		}
	})

	t.Run("returns 403 for outsiders", func(t *testing.T) {
		bus := notify.NewBus(logger.Get())
		svc := &mockTripService{
			getTripFn: func(context.Context, services.Session, string) (*models.Trip, error) {
				return nil, apperrors.ErrNotTripMember
			},
		}
		r := gin.New()
		r.GET("/trips/:tripID/changes", injectSession(testUserID, false), NewChangeHandler(svc, bus, nil).StreamChanges)

		rec := doRequest(r, http.MethodGet, "/trips/"+testTripID+"/changes", "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if bus.Subscribers(testTripID) != 0 {
			t.Error("expected no subscription for a rejected stream")
		}
	})
}
