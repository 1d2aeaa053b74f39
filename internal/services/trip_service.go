package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"tripledger/internal/blobstore"
	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/notify"
	"tripledger/internal/pagination"
	"tripledger/internal/policy"
)

// tripService handles trip administration.
type tripService struct {
	db    *gorm.DB
	bus   notify.Publisher
	blobs blobstore.Store
}

// NewTripService creates a new TripServicer. blobs may be nil.
func NewTripService(db *gorm.DB, bus notify.Publisher, blobs blobstore.Store) TripServicer {
	return &tripService{db: db, bus: bus, blobs: blobs}
}

// CreateTrip creates a trip together with its first participants.
func (s *tripService) CreateTrip(ctx context.Context, sess Session, name string, participantNames []string) (*models.Trip, error) {
	if err := policy.RequireAdmin(policy.Actor{UserID: sess.UserID, IsAdmin: sess.IsAdmin}, "trip"); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("trip", "name_required", "Trip name is required")
	}
	if len(participantNames) < policy.MinParticipants {
		return nil, apperrors.Validation("participant", "min_participants",
			"A trip needs at least 2 participants")
	}

	seen := make(map[string]bool, len(participantNames))
	for _, n := range participantNames {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" {
			return nil, apperrors.Validation("participant", "name_required", "Participant name is required")
		}
		if seen[key] {
			return nil, apperrors.ErrDuplicateName
		}
		seen[key] = true
	}

	trip := &models.Trip{Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trip).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, n := range participantNames {
			p := &models.Participant{TripID: trip.ID, Name: strings.TrimSpace(n)}
			if err := tx.Create(p).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, trip.ID, notify.TableTrips, trip.ID, models.AuditCreate)
	return trip, nil
}

// ListTrips returns trips newest first. Admins see every trip, everyone else
// the trips they have claimed a participant in.
func (s *tripService) ListTrips(ctx context.Context, sess Session, page pagination.PageRequest) (*pagination.PageResponse[models.Trip], error) {
	if sess.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Trip{})
	if !sess.IsAdmin {
		base = base.Where("id IN (?)",
			s.db.Model(&models.Participant{}).Select("trip_id").Where("user_id = ?", sess.UserID))
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var trips []models.Trip
	if err := base.Order("created_at DESC").Order("id DESC").
		Scopes(pagination.Paginate(page)).Find(&trips).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(trips, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTrip returns a trip readable by the caller.
func (s *tripService) GetTrip(ctx context.Context, sess Session, tripID string) (*models.Trip, error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}
	var trip models.Trip
	if err := db.Where("id = ?", tripID).First(&trip).Error; err != nil {
		return nil, mapFind(err, apperrors.ErrTripNotFound)
	}
	return &trip, nil
}

// RenameTrip changes a trip's name.
func (s *tripService) RenameTrip(ctx context.Context, sess Session, tripID, name string) (*models.Trip, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("trip", "name_required", "Trip name is required")
	}

	db := s.db.WithContext(ctx)
	actor, err := resolveActor(db, sess, tripID)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireAdmin(actor, "trip"); err != nil {
		return nil, err
	}

	var trip models.Trip
	if err := db.Where("id = ?", tripID).First(&trip).Error; err != nil {
		return nil, mapFind(err, apperrors.ErrTripNotFound)
	}
	if err := db.Model(&trip).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	trip.Name = name

	publish(ctx, s.bus, trip.ID, notify.TableTrips, trip.ID, models.AuditUpdate)
	return &trip, nil
}

// DeleteTrip permanently removes a trip and everything in it. Audit entries
// are kept.
func (s *tripService) DeleteTrip(ctx context.Context, sess Session, tripID string) error {
	db := s.db.WithContext(ctx)
	actor, err := resolveActor(db, sess, tripID)
	if err != nil {
		return err
	}
	if err := policy.RequireAdmin(actor, "trip"); err != nil {
		return err
	}

	var imagePaths []string
	err = db.Transaction(func(tx *gorm.DB) error {
		expenseIDs := tx.Unscoped().Model(&models.Expense{}).Select("id").Where("trip_id = ?", tripID)

		if err := tx.Model(&models.ExpenseImage{}).Where("expense_id IN (?)", expenseIDs).
			Pluck("path", &imagePaths).Error; err != nil {
			return err
		}
		if err := tx.Where("expense_id IN (?)", expenseIDs).Delete(&models.ExpenseImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("expense_id IN (?)", expenseIDs).Delete(&models.ExpenseParticipant{}).Error; err != nil {
			return err
		}
		participantIDs := tx.Model(&models.Participant{}).Select("id").Where("trip_id = ?", tripID)
		if err := tx.Where("participant_id IN (?)", participantIDs).Delete(&models.ParticipantAccount{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{
			&models.Expense{},
			&models.TreasuryTransaction{},
			&models.DuesGoal{},
			&models.TripTreasuryAccount{},
			&models.Participant{},
		} {
			if err := tx.Unscoped().Where("trip_id = ?", tripID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", tripID).Delete(&models.Trip{}).Error
	})
	if err != nil {
		return asAppError(err)
	}

	removeBlobs(ctx, s.blobs, imagePaths)
	publish(ctx, s.bus, tripID, notify.TableTrips, tripID, models.AuditHardDelete)
	return nil
}
