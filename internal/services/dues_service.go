package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/notify"
	"tripledger/internal/pagination"
	"tripledger/internal/policy"
	"tripledger/internal/settlement"
)

// duesService handles dues goals and their collection progress.
type duesService struct {
	db    *gorm.DB
	audit AuditServicer
	bus   notify.Publisher
}

// NewDuesService creates a new DuesServicer.
func NewDuesService(db *gorm.DB, audit AuditServicer, bus notify.Publisher) DuesServicer {
	return &duesService{db: db, audit: audit, bus: bus}
}

func findDuesGoal(db *gorm.DB, tripID, goalID string, l lookup) (*models.DuesGoal, error) {
	var g models.DuesGoal
	if err := l.scope(db).Where("id = ? AND trip_id = ?", goalID, tripID).First(&g).Error; err != nil {
		return nil, mapFind(err, apperrors.ErrDuesGoalNotFound)
	}
	return &g, nil
}

// CreateGoal defines a new per-participant collection target.
func (s *duesService) CreateGoal(ctx context.Context, sess Session, tripID, title string, dueDate *time.Time, targetAmount int64) (*models.DuesGoal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.Validation("dues_goal", "title_required", "Title is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.Validation("dues_goal", "amount_not_positive", "Target amount must be greater than zero")
	}

	goal := &models.DuesGoal{TripID: tripID, Title: title, DueDate: dueDate, TargetAmount: targetAmount}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "dues_goal"); err != nil {
			return err
		}
		if err := tx.Create(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityDuesGoal,
			EntityID:   goal.ID,
			Action:     models.AuditCreate,
			After:      goal.AuditSnapshot(),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableDuesGoals, goal.ID, models.AuditCreate)
	return goal, nil
}

// ListGoals returns the trip's goals ordered by due date, undated last.
func (s *duesService) ListGoals(ctx context.Context, sess Session, tripID string, includeDeleted bool) ([]models.DuesGoal, error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}

	req := pagination.ListRequest{IncludeDeleted: includeDeleted}
	var goals []models.DuesGoal
	if err := req.Scope(db).Where("trip_id = ?", tripID).
		Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END").
		Order("due_date ASC").Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if goals == nil {
		goals = []models.DuesGoal{}
	}
	return goals, nil
}

// GetProgress computes who has paid towards an active goal.
func (s *duesService) GetProgress(ctx context.Context, sess Session, tripID, goalID string) (*settlement.DuesProgress, error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}
	goal, err := findDuesGoal(db, tripID, goalID, activeOnly)
	if err != nil {
		return nil, err
	}

	participants, err := listParticipants(db, tripID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.ID)
	}

	var txs []models.TreasuryTransaction
	if err := db.Where("trip_id = ? AND due_id = ?", tripID, goal.ID).Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	payments := make([]settlement.DuesPayment, 0, len(txs))
	for _, t := range txs {
		payments = append(payments, settlement.DuesPayment{
			Direction:      settlement.Direction(t.Direction),
			CounterpartyID: deref(t.CounterpartyID),
			Amount:         t.Amount,
			DueID:          deref(t.DueID),
		})
	}

	progress := settlement.ComputeDuesProgress(
		settlement.DuesGoal{ID: goal.ID, Title: goal.Title, TargetAmount: goal.TargetAmount},
		ids, payments,
	)
	return &progress, nil
}

// DeleteGoal soft-deletes an active goal.
func (s *duesService) DeleteGoal(ctx context.Context, sess Session, tripID, goalID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "dues_goal"); err != nil {
			return err
		}
		g, err := findDuesGoal(tx, tripID, goalID, activeOnly)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.DuesGoal{}).Where("id = ?", g.ID).
			Updates(softDeleteColumns(sess.UserID)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityDuesGoal,
			EntityID:   g.ID,
			Action:     models.AuditDelete,
			Before:     g.AuditSnapshot(),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return err
	}

	publish(ctx, s.bus, tripID, notify.TableDuesGoals, goalID, models.AuditDelete)
	return nil
}

// RestoreGoal brings a soft-deleted goal back.
func (s *duesService) RestoreGoal(ctx context.Context, sess Session, tripID, goalID string) (*models.DuesGoal, error) {
	var restored *models.DuesGoal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "dues_goal"); err != nil {
			return err
		}
		g, err := findDuesGoal(tx, tripID, goalID, deletedOnly)
		if err != nil {
			return err
		}

		if err := tx.Unscoped().Model(&models.DuesGoal{}).Where("id = ?", g.ID).
			Updates(restoreColumns()).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if restored, err = findDuesGoal(tx, tripID, goalID, activeOnly); err != nil {
			return err
		}
		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityDuesGoal,
			EntityID:   g.ID,
			Action:     models.AuditRestore,
			After:      restored.AuditSnapshot(),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableDuesGoals, goalID, models.AuditRestore)
	return restored, nil
}

// HardDeleteGoal permanently removes a goal in any state. Treasury rows
// tagged with it lose the tag.
func (s *duesService) HardDeleteGoal(ctx context.Context, sess Session, tripID, goalID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireAdmin(actor, "dues_goal"); err != nil {
			return err
		}
		g, err := findDuesGoal(tx, tripID, goalID, anyState)
		if err != nil {
			return err
		}

		if err := tx.Unscoped().Model(&models.TreasuryTransaction{}).Where("due_id = ?", g.ID).
			Update("due_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Where("id = ?", g.ID).Delete(&models.DuesGoal{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityDuesGoal,
			EntityID:   g.ID,
			Action:     models.AuditHardDelete,
			Before:     g.AuditSnapshot(),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return err
	}

	publish(ctx, s.bus, tripID, notify.TableDuesGoals, goalID, models.AuditHardDelete)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
