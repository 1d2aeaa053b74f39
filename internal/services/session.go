package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tripledger/internal/blobstore"
	apperrors "tripledger/internal/errors"
	"tripledger/internal/logger"
	"tripledger/internal/models"
	"tripledger/internal/notify"
	"tripledger/internal/policy"
)

// Session is the authenticated caller, built by the handlers from the JWT.
type Session struct {
	UserID  string
	IsAdmin bool
}

// resolveActor loads the trip and the caller's participant row in it.
func resolveActor(db *gorm.DB, s Session, tripID string) (policy.Actor, error) {
	if s.UserID == "" {
		return policy.Actor{}, apperrors.ErrUnauthorized
	}

	var trip models.Trip
	if err := db.Select("id").Where("id = ?", tripID).First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.Actor{}, apperrors.ErrTripNotFound
		}
		return policy.Actor{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	actor := policy.Actor{UserID: s.UserID, IsAdmin: s.IsAdmin, TripID: tripID}

	var p models.Participant
	err := db.Where("trip_id = ? AND user_id = ?", tripID, s.UserID).First(&p).Error
	switch {
	case err == nil:
		actor.ParticipantID = p.ID
		actor.IsTreasurer = p.IsTreasurer
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return policy.Actor{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return actor, nil
}

// readableActor resolves the actor and requires read access to the trip.
func readableActor(db *gorm.DB, s Session, tripID string) (policy.Actor, error) {
	actor, err := resolveActor(db, s, tripID)
	if err != nil {
		return actor, err
	}
	return actor, policy.CanReadTrip(actor)
}

// lookup selects which lifecycle states a finder may return.
type lookup int

const (
	activeOnly lookup = iota
	deletedOnly
	anyState
)

func (l lookup) scope(db *gorm.DB) *gorm.DB {
	switch l {
	case deletedOnly:
		return db.Unscoped().Where("is_deleted = ?", true)
	case anyState:
		return db.Unscoped()
	default:
		return db
	}
}

// mapFind converts a finder error to the given not-found sentinel.
func mapFind(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// asAppError passes AppErrors through and wraps anything else.
func asAppError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

func softDeleteColumns(actorID string) map[string]interface{} {
	return map[string]interface{}{
		"is_deleted": true,
		"deleted_at": time.Now().UTC(),
		"deleted_by": actorID,
	}
}

func restoreColumns() map[string]interface{} {
	return map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
		"deleted_by": nil,
	}
}

// publish announces a committed change. A nil publisher is allowed.
func publish(ctx context.Context, bus notify.Publisher, tripID, table, entityID, action string) {
	if bus == nil {
		return
	}
	bus.Publish(ctx, notify.Change{
		TripID:   tripID,
		Table:    table,
		EntityID: entityID,
		Action:   action,
	})
}

// tripParticipantIDs returns the ids of every participant in the trip.
func tripParticipantIDs(db *gorm.DB, tripID string) (map[string]bool, error) {
	var ids []string
	if err := db.Model(&models.Participant{}).Where("trip_id = ?", tripID).Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// removeBlobs deletes stored files after their rows are gone. Failures only
// leave orphaned files behind, so they are logged.
func removeBlobs(ctx context.Context, store blobstore.Store, paths []string) {
	if store == nil {
		return
	}
	for _, p := range paths {
		if err := store.Delete(ctx, p); err != nil {
			logger.Get().Warnw("failed to delete blob", "path", p, "error", err)
		}
	}
}

func strPtr(s string) *string {
	return &s
}
