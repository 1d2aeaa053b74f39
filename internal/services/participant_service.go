package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/notify"
	"tripledger/internal/policy"
)

// participantService handles trip membership and identity claims.
type participantService struct {
	db  *gorm.DB
	bus notify.Publisher
}

// NewParticipantService creates a new ParticipantServicer.
func NewParticipantService(db *gorm.DB, bus notify.Publisher) ParticipantServicer {
	return &participantService{db: db, bus: bus}
}

// ListParticipants returns the trip's participants in the order they joined.
func (s *participantService) ListParticipants(ctx context.Context, sess Session, tripID string) ([]models.Participant, error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}
	return listParticipants(db, tripID)
}

func listParticipants(db *gorm.DB, tripID string) ([]models.Participant, error) {
	var participants []models.Participant
	if err := db.Where("trip_id = ?", tripID).Order("created_at ASC").Order("id ASC").
		Find(&participants).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return participants, nil
}

func findParticipant(db *gorm.DB, tripID, participantID string) (*models.Participant, error) {
	var p models.Participant
	if err := db.Where("id = ? AND trip_id = ?", participantID, tripID).First(&p).Error; err != nil {
		return nil, mapFind(err, apperrors.ErrParticipantNotFound)
	}
	return &p, nil
}

// ensureUniqueName rejects a name already used in the trip, ignoring case.
func ensureUniqueName(db *gorm.DB, tripID, name, exceptID string) error {
	q := db.Model(&models.Participant{}).Where("trip_id = ? AND LOWER(name) = LOWER(?)", tripID, name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateName
	}
	return nil
}

// AddParticipant adds a new, unclaimed participant to the trip.
func (s *participantService) AddParticipant(ctx context.Context, sess Session, tripID, name string) (*models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("participant", "name_required", "Participant name is required")
	}

	p := &models.Participant{TripID: tripID, Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.CanManageParticipants(actor); err != nil {
			return err
		}
		if err := ensureUniqueName(tx, tripID, name, ""); err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableParticipants, p.ID, models.AuditCreate)
	return p, nil
}

// RenameParticipant changes a participant's display name.
func (s *participantService) RenameParticipant(ctx context.Context, sess Session, tripID, participantID, name string) (*models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("participant", "name_required", "Participant name is required")
	}

	var p *models.Participant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.CanManageParticipants(actor); err != nil {
			return err
		}
		if p, err = findParticipant(tx, tripID, participantID); err != nil {
			return err
		}
		if err := ensureUniqueName(tx, tripID, name, p.ID); err != nil {
			return err
		}
		if err := tx.Model(p).Update("name", name).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		p.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableParticipants, p.ID, models.AuditUpdate)
	return p, nil
}

// RemoveParticipant deletes a participant that no active expense refers to.
// Expenses that are already soft-deleted do not block removal.
func (s *participantService) RemoveParticipant(ctx context.Context, sess Session, tripID, participantID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.CanManageParticipants(actor); err != nil {
			return err
		}
		p, err := findParticipant(tx, tripID, participantID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Participant{}).Where("trip_id = ?", tripID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		var referenced int64
		if err := tx.Model(&models.Expense{}).
			Where("trip_id = ?", tripID).
			Where("payer_id = ? OR id IN (?)", p.ID,
				tx.Model(&models.ExpenseParticipant{}).Select("expense_id").Where("participant_id = ?", p.ID)).
			Count(&referenced).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := policy.CheckParticipantRemoval(int(count), referenced > 0); err != nil {
			return err
		}

		if err := tx.Where("participant_id = ?", p.ID).Delete(&models.ParticipantAccount{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(p).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.bus, tripID, notify.TableParticipants, participantID, models.AuditDelete)
	return nil
}

// SetTreasurer grants or revokes the treasurer flag.
func (s *participantService) SetTreasurer(ctx context.Context, sess Session, tripID, participantID string, isTreasurer bool) (*models.Participant, error) {
	var p *models.Participant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireAdmin(actor, "participant"); err != nil {
			return err
		}
		if p, err = findParticipant(tx, tripID, participantID); err != nil {
			return err
		}
		if err := tx.Model(p).Update("is_treasurer", isTreasurer).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		p.IsTreasurer = isTreasurer
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableParticipants, p.ID, models.AuditUpdate)
	return p, nil
}

// ClaimParticipant links the caller to the participant with the given name.
// Claiming a row the caller already holds returns it unchanged.
func (s *participantService) ClaimParticipant(ctx context.Context, sess Session, tripID, name string) (*models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("participant", "name_required", "Participant name is required")
	}

	var p models.Participant
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := tx.Where("trip_id = ? AND LOWER(name) = LOWER(?)", tripID, name).First(&p).Error; err != nil {
			return mapFind(err, apperrors.ErrParticipantNotFound)
		}

		if p.IsClaimed() {
			if *p.UserID == sess.UserID {
				return nil
			}
			return apperrors.ErrAlreadyClaimed
		}
		if actor.IsParticipant() {
			return apperrors.ErrIdentityLinked
		}

		res := tx.Model(&models.Participant{}).
			Where("id = ? AND user_id IS NULL", p.ID).
			Update("user_id", sess.UserID)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrAlreadyClaimed
		}
		p.UserID = strPtr(sess.UserID)
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		publish(ctx, s.bus, tripID, notify.TableParticipants, p.ID, models.AuditUpdate)
	}
	return &p, nil
}
