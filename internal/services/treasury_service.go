package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/notify"
	"tripledger/internal/pagination"
	"tripledger/internal/policy"
)

// treasuryService handles movements of the collective fund.
type treasuryService struct {
	db    *gorm.DB
	audit AuditServicer
	bus   notify.Publisher
}

// NewTreasuryService creates a new TreasuryServicer.
func NewTreasuryService(db *gorm.DB, audit AuditServicer, bus notify.Publisher) TreasuryServicer {
	return &treasuryService{db: db, audit: audit, bus: bus}
}

func findTreasuryTx(db *gorm.DB, tripID, txID string, l lookup) (*models.TreasuryTransaction, error) {
	var t models.TreasuryTransaction
	if err := l.scope(db).Where("id = ? AND trip_id = ?", txID, tripID).First(&t).Error; err != nil {
		return nil, mapFind(err, apperrors.ErrTreasuryTxNotFound)
	}
	return &t, nil
}

func (s *treasuryService) validateInput(tx *gorm.DB, tripID string, in TreasuryInput) error {
	if !in.Direction.Valid() {
		return apperrors.Validation("treasury_transaction", "direction_invalid", "Direction must be receive or send")
	}
	if in.Amount <= 0 {
		return apperrors.Validation("treasury_transaction", "amount_not_positive", "Amount must be greater than zero")
	}
	if in.CounterpartyID != nil {
		members, err := tripParticipantIDs(tx, tripID)
		if err != nil {
			return err
		}
		if !members[*in.CounterpartyID] {
			return apperrors.Validation("treasury_transaction", "counterparty_not_in_trip",
				"Counterparty is not a participant of this trip")
		}
	}
	if in.DueID != nil {
		if _, err := findDuesGoal(tx, tripID, *in.DueID, activeOnly); err != nil {
			return err
		}
	}
	if in.ExpenseID != nil {
		if _, err := findExpense(tx, tripID, *in.ExpenseID, activeOnly); err != nil {
			return err
		}
	}
	return nil
}

func (s *treasuryService) create(tx *gorm.DB, sess Session, t *models.TreasuryTransaction) error {
	if err := tx.Create(t).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.audit.Record(tx, AuditRecord{
		TripID:     t.TripID,
		EntityType: models.EntityTreasuryTransaction,
		EntityID:   t.ID,
		Action:     models.AuditCreate,
		After:      t.AuditSnapshot(),
		ActorID:    sess.UserID,
	})
}

// RecordTransaction records one receive or send.
func (s *treasuryService) RecordTransaction(ctx context.Context, sess Session, tripID string, in TreasuryInput) (*models.TreasuryTransaction, error) {
	var t *models.TreasuryTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "treasury_transaction"); err != nil {
			return err
		}
		if err := s.validateInput(tx, tripID, in); err != nil {
			return err
		}

		t = &models.TreasuryTransaction{
			TripID:         tripID,
			TreasurerID:    strPtr(actor.ParticipantID),
			Direction:      in.Direction,
			CounterpartyID: in.CounterpartyID,
			Amount:         in.Amount,
			Memo:           strings.TrimSpace(in.Memo),
			DueID:          in.DueID,
			ExpenseID:      in.ExpenseID,
		}
		return s.create(tx, sess, t)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableTreasuryTransactions, t.ID, models.AuditCreate)
	return t, nil
}

// RecordDuesPayments records a receive tagged with the goal for every
// selected counterparty, all or nothing.
func (s *treasuryService) RecordDuesPayments(ctx context.Context, sess Session, tripID string, in DuesPaymentsInput) ([]models.TreasuryTransaction, error) {
	if len(in.CounterpartyIDs) == 0 {
		return nil, apperrors.Validation("treasury_transaction", "counterparties_empty", "Select at least one participant")
	}

	var recorded []models.TreasuryTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "treasury_transaction"); err != nil {
			return err
		}
		goal, err := findDuesGoal(tx, tripID, in.DueID, activeOnly)
		if err != nil {
			return err
		}

		amount := goal.TargetAmount
		if in.Amount != nil {
			amount = *in.Amount
		}
		memo := strings.TrimSpace(in.Memo)
		if memo == "" {
			memo = "Dues - " + goal.Title
		}

		seen := make(map[string]bool, len(in.CounterpartyIDs))
		for _, cp := range in.CounterpartyIDs {
			if seen[cp] {
				return apperrors.Validation("treasury_transaction", "counterparties_duplicate", "Participants must be unique")
			}
			seen[cp] = true

			base := TreasuryInput{Direction: models.TreasuryReceive, CounterpartyID: strPtr(cp), Amount: amount}
			if err := s.validateInput(tx, tripID, base); err != nil {
				return err
			}
			t := models.TreasuryTransaction{
				TripID:         tripID,
				TreasurerID:    strPtr(actor.ParticipantID),
				Direction:      models.TreasuryReceive,
				CounterpartyID: strPtr(cp),
				Amount:         amount,
				Memo:           memo,
				DueID:          strPtr(goal.ID),
			}
			if err := s.create(tx, sess, &t); err != nil {
				return err
			}
			recorded = append(recorded, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, t := range recorded {
		publish(ctx, s.bus, tripID, notify.TableTreasuryTransactions, t.ID, models.AuditCreate)
	}
	return recorded, nil
}

// ListTransactions returns the trip's treasury transactions newest first.
func (s *treasuryService) ListTransactions(ctx context.Context, sess Session, tripID string, req pagination.ListRequest) (*pagination.PageResponse[models.TreasuryTransaction], error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}
	req.Defaults()

	base := req.Scope(db).Model(&models.TreasuryTransaction{}).Where("trip_id = ?", tripID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txs []models.TreasuryTransaction
	if err := base.Order("created_at DESC").Order("id DESC").
		Scopes(pagination.Paginate(req.PageRequest)).Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(txs, req.Page, req.PageSize, totalItems)
	return &result, nil
}

// GetSummary totals the active transactions of the trip.
func (s *treasuryService) GetSummary(ctx context.Context, sess Session, tripID string) (*TreasurySummary, error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}

	var rows []struct {
		Direction models.TreasuryDirection
		Total     int64
	}
	if err := db.Model(&models.TreasuryTransaction{}).
		Select("direction, COALESCE(SUM(amount), 0) AS total").
		Where("trip_id = ?", tripID).
		Group("direction").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &TreasurySummary{}
	for _, r := range rows {
		switch r.Direction {
		case models.TreasuryReceive:
			summary.TotalReceived = r.Total
		case models.TreasurySend:
			summary.TotalSent = r.Total
		}
	}
	summary.Balance = summary.TotalReceived - summary.TotalSent
	return summary, nil
}

// DeleteTransaction soft-deletes an active transaction.
func (s *treasuryService) DeleteTransaction(ctx context.Context, sess Session, tripID, txID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "treasury_transaction"); err != nil {
			return err
		}
		t, err := findTreasuryTx(tx, tripID, txID, activeOnly)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.TreasuryTransaction{}).Where("id = ?", t.ID).
			Updates(softDeleteColumns(sess.UserID)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityTreasuryTransaction,
			EntityID:   t.ID,
			Action:     models.AuditDelete,
			Before:     t.AuditSnapshot(),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return err
	}

	publish(ctx, s.bus, tripID, notify.TableTreasuryTransactions, txID, models.AuditDelete)
	return nil
}

// RestoreTransaction brings a soft-deleted transaction back.
func (s *treasuryService) RestoreTransaction(ctx context.Context, sess Session, tripID, txID string) (*models.TreasuryTransaction, error) {
	var restored *models.TreasuryTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "treasury_transaction"); err != nil {
			return err
		}
		t, err := findTreasuryTx(tx, tripID, txID, deletedOnly)
		if err != nil {
			return err
		}
		if t.ExpenseID != nil {
			e, err := findExpense(tx, tripID, *t.ExpenseID, anyState)
			if err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
				return err
			}
			if e != nil && !e.IsSettled {
				return apperrors.Validation("treasury_transaction", "expense_not_settled",
					"The linked expense is no longer settled")
			}
		}

		if err := tx.Unscoped().Model(&models.TreasuryTransaction{}).Where("id = ?", t.ID).
			Updates(restoreColumns()).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if restored, err = findTreasuryTx(tx, tripID, txID, activeOnly); err != nil {
			return err
		}
		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityTreasuryTransaction,
			EntityID:   t.ID,
			Action:     models.AuditRestore,
			After:      restored.AuditSnapshot(),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableTreasuryTransactions, txID, models.AuditRestore)
	return restored, nil
}

// HardDeleteTransaction permanently removes a transaction in any state.
func (s *treasuryService) HardDeleteTransaction(ctx context.Context, sess Session, tripID, txID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireAdmin(actor, "treasury_transaction"); err != nil {
			return err
		}
		t, err := findTreasuryTx(tx, tripID, txID, anyState)
		if err != nil {
			return err
		}

		if err := tx.Unscoped().Where("id = ?", t.ID).Delete(&models.TreasuryTransaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityTreasuryTransaction,
			EntityID:   t.ID,
			Action:     models.AuditHardDelete,
			Before:     t.AuditSnapshot(),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return err
	}

	publish(ctx, s.bus, tripID, notify.TableTreasuryTransactions, txID, models.AuditHardDelete)
	return nil
}
