package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoder for DecodeConfig
	_ "image/jpeg" // register decoder for DecodeConfig
	_ "image/png"  // register decoder for DecodeConfig
	"io"
	"mime"
	"path"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripledger/internal/blobstore"
	apperrors "tripledger/internal/errors"
	"tripledger/internal/logger"
	"tripledger/internal/models"
	"tripledger/internal/notify"
	"tripledger/internal/pagination"
	"tripledger/internal/policy"
	"tripledger/internal/uuid"
)

// expenseService handles expenses, their share sets and receipts.
type expenseService struct {
	db     *gorm.DB
	audit  AuditServicer
	bus    notify.Publisher
	blobs  blobstore.Store
	urlTTL time.Duration
}

// NewExpenseService creates a new ExpenseServicer. Receipt endpoints need a
// non-nil blob store.
func NewExpenseService(db *gorm.DB, audit AuditServicer, bus notify.Publisher, blobs blobstore.Store, urlTTL time.Duration) ExpenseServicer {
	return &expenseService{db: db, audit: audit, bus: bus, blobs: blobs, urlTTL: urlTTL}
}

func findExpense(db *gorm.DB, tripID, expenseID string, l lookup) (*models.Expense, error) {
	var e models.Expense
	if err := l.scope(db).Preload("Links").
		Where("id = ? AND trip_id = ?", expenseID, tripID).First(&e).Error; err != nil {
		return nil, mapFind(err, apperrors.ErrExpenseNotFound)
	}
	if e.ParticipantIDs == nil {
		e.ParticipantIDs = []string{}
	}
	return &e, nil
}

func expenseSnapshot(e *models.Expense) map[string]interface{} {
	snap := e.AuditSnapshot()
	ids := append([]string(nil), e.ParticipantIDs...)
	snap["participant_ids"] = ids
	return snap
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return apperrors.Validation("expense", "amount_not_positive", "Amount must be greater than zero")
	}
	return nil
}

// validateShareSet checks that the payer and every sharer belong to the trip.
func validateShareSet(db *gorm.DB, tripID, payerID string, participantIDs []string) error {
	if len(participantIDs) == 0 {
		return apperrors.Validation("expense", "expense_participants_empty", "An expense needs at least one participant")
	}
	seen := make(map[string]bool, len(participantIDs))
	for _, id := range participantIDs {
		if seen[id] {
			return apperrors.Validation("expense", "expense_participants_duplicate", "Participants must be unique")
		}
		seen[id] = true
	}

	members, err := tripParticipantIDs(db, tripID)
	if err != nil {
		return err
	}
	if !members[payerID] {
		return apperrors.Validation("expense", "payer_not_in_trip", "Payer is not a participant of this trip")
	}
	for _, id := range participantIDs {
		if !members[id] {
			return apperrors.Validation("expense", "participant_not_in_trip", "Every participant must belong to this trip")
		}
	}
	return nil
}

func writeLinks(tx *gorm.DB, expenseID string, participantIDs []string) error {
	links := make([]models.ExpenseParticipant, 0, len(participantIDs))
	for _, id := range participantIDs {
		links = append(links, models.ExpenseParticipant{ExpenseID: expenseID, ParticipantID: id})
	}
	if err := tx.Create(&links).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// bumpRevision applies updates and increments the revision. When expected is
// set the row must still carry that revision.
func bumpRevision(tx *gorm.DB, expenseID string, expected *int64, updates map[string]interface{}) error {
	updates["revision"] = gorm.Expr("revision + 1")
	q := tx.Model(&models.Expense{}).Where("id = ?", expenseID)
	if expected != nil {
		q = q.Where("revision = ?", *expected)
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrRevisionMismatch
	}
	return nil
}

// CreateExpense records a new expense with its share set.
func (s *expenseService) CreateExpense(ctx context.Context, sess Session, tripID string, in ExpenseInput) (*models.Expense, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}

	e := &models.Expense{
		TripID:      tripID,
		PayerID:     in.PayerID,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   strPtr(sess.UserID),
		Revision:    1,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "expense"); err != nil {
			return err
		}
		if err := validateShareSet(tx, tripID, in.PayerID, in.ParticipantIDs); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := writeLinks(tx, e.ID, in.ParticipantIDs); err != nil {
			return err
		}
		e.ParticipantIDs = append([]string(nil), in.ParticipantIDs...)

		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityExpense,
			EntityID:   e.ID,
			Action:     models.AuditCreate,
			After:      expenseSnapshot(e),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableExpenses, e.ID, models.AuditCreate)
	return e, nil
}

// GetExpense returns an active expense with its receipts.
func (s *expenseService) GetExpense(ctx context.Context, sess Session, tripID, expenseID string) (*models.Expense, error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}
	return s.loadForRead(ctx, db, tripID, expenseID)
}

func (s *expenseService) loadForRead(ctx context.Context, db *gorm.DB, tripID, expenseID string) (*models.Expense, error) {
	var e models.Expense
	if err := db.Preload("Links").Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ? AND trip_id = ?", expenseID, tripID).First(&e).Error; err != nil {
		return nil, mapFind(err, apperrors.ErrExpenseNotFound)
	}
	s.signImages(ctx, e.Images)
	return &e, nil
}

// ListExpenses returns the trip's expenses newest first.
func (s *expenseService) ListExpenses(ctx context.Context, sess Session, tripID string, req pagination.ListRequest) (*pagination.PageResponse[models.Expense], error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}
	req.Defaults()

	base := req.Scope(db).Model(&models.Expense{}).Where("trip_id = ?", tripID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Preload("Links").Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Order("created_at DESC").Order("id DESC").
		Scopes(pagination.Paginate(req.PageRequest)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range expenses {
		s.signImages(ctx, expenses[i].Images)
	}

	result := pagination.NewPageResponse(expenses, req.Page, req.PageSize, totalItems)
	return &result, nil
}

// UpdateExpense changes payer, amount or description. The audit entry only
// carries the fields that changed.
func (s *expenseService) UpdateExpense(ctx context.Context, sess Session, tripID, expenseID string, upd ExpenseUpdate) (*models.Expense, error) {
	var updated *models.Expense
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		e, err := findExpense(tx, tripID, expenseID, activeOnly)
		if err != nil {
			return err
		}
		if err := policy.CanModifyExpense(actor, e.CreatedBy); err != nil {
			return err
		}
		if upd.ExpectedRevision != nil && *upd.ExpectedRevision != e.Revision {
			return apperrors.ErrRevisionMismatch
		}

		next := *e
		if upd.PayerID != nil {
			next.PayerID = *upd.PayerID
		}
		if upd.Amount != nil {
			if err := validateAmount(*upd.Amount); err != nil {
				return err
			}
			next.Amount = *upd.Amount
		}
		if upd.Description != nil {
			next.Description = strings.TrimSpace(*upd.Description)
		}
		if next.PayerID != e.PayerID {
			if err := validateShareSet(tx, tripID, next.PayerID, e.ParticipantIDs); err != nil {
				return err
			}
		}

		before, after := Diff(e.AuditSnapshot(), next.AuditSnapshot())
		if after == nil {
			updated = e
			return nil
		}

		columns := make(map[string]interface{}, len(after)+1)
		for k, v := range after {
			columns[k] = v
		}
		if err := bumpRevision(tx, e.ID, upd.ExpectedRevision, columns); err != nil {
			return err
		}
		if updated, err = findExpense(tx, tripID, expenseID, activeOnly); err != nil {
			return err
		}
		changed = true

		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityExpense,
			EntityID:   e.ID,
			Action:     models.AuditUpdate,
			Before:     before,
			After:      after,
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	if changed {
		publish(ctx, s.bus, tripID, notify.TableExpenses, expenseID, models.AuditUpdate)
	}
	return updated, nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// UpdateExpenseParticipants replaces the share set.
func (s *expenseService) UpdateExpenseParticipants(
	ctx context.Context,
	sess Session,
	tripID, expenseID string,
	participantIDs []string,
	expectedRevision *int64,
) (*models.Expense, error) {
	var updated *models.Expense
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		e, err := findExpense(tx, tripID, expenseID, activeOnly)
		if err != nil {
			return err
		}
		if err := policy.CanModifyExpense(actor, e.CreatedBy); err != nil {
			return err
		}
		if expectedRevision != nil && *expectedRevision != e.Revision {
			return apperrors.ErrRevisionMismatch
		}
		if err := validateShareSet(tx, tripID, e.PayerID, participantIDs); err != nil {
			return err
		}
		if sameSet(e.ParticipantIDs, participantIDs) {
			updated = e
			return nil
		}

		if err := bumpRevision(tx, e.ID, expectedRevision, map[string]interface{}{}); err != nil {
			return err
		}
		if err := tx.Where("expense_id = ?", e.ID).Delete(&models.ExpenseParticipant{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := writeLinks(tx, e.ID, participantIDs); err != nil {
			return err
		}
		if updated, err = findExpense(tx, tripID, expenseID, activeOnly); err != nil {
			return err
		}
		changed = true

		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityExpense,
			EntityID:   e.ID,
			Action:     models.AuditParticipantsUpdate,
			Before:     map[string]interface{}{"participant_ids": e.ParticipantIDs},
			After:      map[string]interface{}{"participant_ids": participantIDs},
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	if changed {
		publish(ctx, s.bus, tripID, notify.TableExpenses, expenseID, models.AuditParticipantsUpdate)
	}
	return updated, nil
}

// DeleteExpense soft-deletes an active expense.
func (s *expenseService) DeleteExpense(ctx context.Context, sess Session, tripID, expenseID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		e, err := findExpense(tx, tripID, expenseID, activeOnly)
		if err != nil {
			return err
		}
		if err := policy.CanModifyExpense(actor, e.CreatedBy); err != nil {
			return err
		}

		if err := tx.Model(&models.Expense{}).Where("id = ?", e.ID).
			Updates(softDeleteColumns(sess.UserID)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityExpense,
			EntityID:   e.ID,
			Action:     models.AuditDelete,
			Before:     expenseSnapshot(e),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return err
	}

	publish(ctx, s.bus, tripID, notify.TableExpenses, expenseID, models.AuditDelete)
	return nil
}

// RestoreExpense brings a soft-deleted expense back. Its payer and sharers
// must still be participants of the trip.
func (s *expenseService) RestoreExpense(ctx context.Context, sess Session, tripID, expenseID string) (*models.Expense, error) {
	var restored *models.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "expense"); err != nil {
			return err
		}
		e, err := findExpense(tx, tripID, expenseID, deletedOnly)
		if err != nil {
			return err
		}
		if err := validateShareSet(tx, tripID, e.PayerID, e.ParticipantIDs); err != nil {
			if apperrors.IsKind(err, apperrors.KindValidation) {
				return apperrors.Validation("expense", "participant_removed",
					"A participant of this expense was removed from the trip")
			}
			return err
		}

		if err := tx.Unscoped().Model(&models.Expense{}).Where("id = ?", e.ID).
			Updates(restoreColumns()).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if restored, err = findExpense(tx, tripID, expenseID, activeOnly); err != nil {
			return err
		}

		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityExpense,
			EntityID:   e.ID,
			Action:     models.AuditRestore,
			After:      expenseSnapshot(restored),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableExpenses, expenseID, models.AuditRestore)
	return restored, nil
}

// HardDeleteExpense permanently removes an expense in any state, with its
// receipts and share set. Payouts that referenced it are unlinked.
func (s *expenseService) HardDeleteExpense(ctx context.Context, sess Session, tripID, expenseID string) error {
	var imagePaths []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireAdmin(actor, "expense"); err != nil {
			return err
		}
		e, err := findExpense(tx, tripID, expenseID, anyState)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.ExpenseImage{}).Where("expense_id = ?", e.ID).
			Pluck("path", &imagePaths).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("expense_id = ?", e.ID).Delete(&models.ExpenseImage{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("expense_id = ?", e.ID).Delete(&models.ExpenseParticipant{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Model(&models.TreasuryTransaction{}).Where("expense_id = ?", e.ID).
			Update("expense_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Where("id = ?", e.ID).Delete(&models.Expense{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityExpense,
			EntityID:   e.ID,
			Action:     models.AuditHardDelete,
			Before:     expenseSnapshot(e),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return err
	}

	removeBlobs(ctx, s.blobs, imagePaths)
	publish(ctx, s.bus, tripID, notify.TableExpenses, expenseID, models.AuditHardDelete)
	return nil
}

// SettleExpense marks an expense as paid back. With recordPayout the fund
// reimburses the payer through a linked send transaction.
func (s *expenseService) SettleExpense(ctx context.Context, sess Session, tripID, expenseID string, recordPayout bool) (*models.Expense, error) {
	var settled *models.Expense
	var payoutID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "expense"); err != nil {
			return err
		}
		e, err := findExpense(tx, tripID, expenseID, activeOnly)
		if err != nil {
			return err
		}
		if e.IsSettled {
			return apperrors.Conflict("expense", "already_settled", "Expense is already settled")
		}

		now := time.Now().UTC()
		if err := bumpRevision(tx, e.ID, nil, map[string]interface{}{
			"is_settled": true,
			"settled_at": now,
			"settled_by": sess.UserID,
		}); err != nil {
			return err
		}
		if settled, err = findExpense(tx, tripID, expenseID, activeOnly); err != nil {
			return err
		}
		before, after := Diff(e.AuditSnapshot(), settled.AuditSnapshot())
		if err := s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityExpense,
			EntityID:   e.ID,
			Action:     models.AuditUpdate,
			Before:     before,
			After:      after,
			ActorID:    sess.UserID,
		}); err != nil {
			return err
		}

		if !recordPayout {
			return nil
		}
		payout := &models.TreasuryTransaction{
			TripID:         tripID,
			TreasurerID:    strPtr(actor.ParticipantID),
			Direction:      models.TreasurySend,
			CounterpartyID: strPtr(e.PayerID),
			Amount:         e.Amount,
			Memo:           "Settlement - " + e.Description,
			ExpenseID:      strPtr(e.ID),
		}
		if err := tx.Create(payout).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		payoutID = payout.ID
		return s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityTreasuryTransaction,
			EntityID:   payout.ID,
			Action:     models.AuditCreate,
			After:      payout.AuditSnapshot(),
			ActorID:    sess.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableExpenses, expenseID, models.AuditUpdate)
	if payoutID != "" {
		publish(ctx, s.bus, tripID, notify.TableTreasuryTransactions, payoutID, models.AuditCreate)
	}
	return settled, nil
}

// UnsettleExpense clears the settled flag and soft-deletes linked payouts.
func (s *expenseService) UnsettleExpense(ctx context.Context, sess Session, tripID, expenseID string) (*models.Expense, error) {
	var unsettled *models.Expense
	var payouts []models.TreasuryTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "expense"); err != nil {
			return err
		}
		e, err := findExpense(tx, tripID, expenseID, activeOnly)
		if err != nil {
			return err
		}
		if !e.IsSettled {
			return apperrors.Conflict("expense", "not_settled", "Expense is not settled")
		}

		if err := bumpRevision(tx, e.ID, nil, map[string]interface{}{
			"is_settled": false,
			"settled_at": nil,
			"settled_by": nil,
		}); err != nil {
			return err
		}
		if unsettled, err = findExpense(tx, tripID, expenseID, activeOnly); err != nil {
			return err
		}
		before, after := Diff(e.AuditSnapshot(), unsettled.AuditSnapshot())
		if err := s.audit.Record(tx, AuditRecord{
			TripID:     tripID,
			EntityType: models.EntityExpense,
			EntityID:   e.ID,
			Action:     models.AuditUpdate,
			Before:     before,
			After:      after,
			ActorID:    sess.UserID,
		}); err != nil {
			return err
		}

		if err := tx.Where("trip_id = ? AND expense_id = ?", tripID, e.ID).Find(&payouts).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for i := range payouts {
			p := &payouts[i]
			if err := tx.Model(&models.TreasuryTransaction{}).Where("id = ?", p.ID).
				Updates(softDeleteColumns(sess.UserID)).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if err := s.audit.Record(tx, AuditRecord{
				TripID:     tripID,
				EntityType: models.EntityTreasuryTransaction,
				EntityID:   p.ID,
				Action:     models.AuditDelete,
				Before:     p.AuditSnapshot(),
				ActorID:    sess.UserID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableExpenses, expenseID, models.AuditUpdate)
	for _, p := range payouts {
		publish(ctx, s.bus, tripID, notify.TableTreasuryTransactions, p.ID, models.AuditDelete)
	}
	return unsettled, nil
}

func validateUpload(upload ImageUpload) error {
	mediaType, _, err := mime.ParseMediaType(upload.MimeType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return apperrors.Validation("expense_image", "image_mime_invalid", "Only image uploads are accepted")
	}
	if upload.Size <= 0 {
		return apperrors.Validation("expense_image", "image_empty", "Image is empty")
	}
	if upload.Size > models.MaxExpenseImageBytes {
		return apperrors.Validation("expense_image", "image_too_large", "Image exceeds the 10 MiB limit")
	}
	return nil
}

// checkImageSlot verifies the caller may attach another image.
func checkImageSlot(db *gorm.DB, sess Session, tripID, expenseID string) error {
	actor, err := resolveActor(db, sess, tripID)
	if err != nil {
		return err
	}
	e, err := findExpense(db, tripID, expenseID, activeOnly)
	if err != nil {
		return err
	}
	if err := policy.CanModifyExpense(actor, e.CreatedBy); err != nil {
		return err
	}
	var count int64
	if err := db.Model(&models.ExpenseImage{}).Where("expense_id = ?", expenseID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count >= models.MaxExpenseImages {
		return apperrors.Validation("expense_image", "image_limit_reached",
			fmt.Sprintf("An expense can have at most %d images", models.MaxExpenseImages))
	}
	return nil
}

func imageExt(upload ImageUpload) string {
	if ext := strings.ToLower(path.Ext(upload.Filename)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(upload.MimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// AddExpenseImage stores a receipt and attaches it to the expense.
func (s *expenseService) AddExpenseImage(ctx context.Context, sess Session, tripID, expenseID string, upload ImageUpload) (*models.ExpenseImage, error) {
	if err := validateUpload(upload); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if err := checkImageSlot(db, sess, tripID, expenseID); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, models.MaxExpenseImageBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if int64(len(data)) > models.MaxExpenseImageBytes {
		return nil, apperrors.Validation("expense_image", "image_too_large", "Image exceeds the 10 MiB limit")
	}

	img := &models.ExpenseImage{
		Base:      models.Base{ID: uuid.New()},
		ExpenseID: expenseID,
		MimeType:  upload.MimeType,
		Size:      int64(len(data)),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width, img.Height = cfg.Width, cfg.Height
	}
	img.Path = blobstore.ImagePath(tripID, expenseID, img.ID, imageExt(upload))

	if err := s.blobs.Put(ctx, img.Path, bytes.NewReader(data), img.Size, img.MimeType); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := checkImageSlot(tx, sess, tripID, expenseID); err != nil {
			return err
		}
		if err := tx.Create(img).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		removeBlobs(ctx, s.blobs, []string{img.Path})
		return nil, err
	}

	if url, err := s.blobs.SignedURL(ctx, img.Path, s.urlTTL); err == nil {
		img.URL = url
	}
	publish(ctx, s.bus, tripID, notify.TableExpenseImages, img.ID, models.AuditCreate)
	return img, nil
}

// RemoveExpenseImage detaches a receipt and deletes the stored file.
func (s *expenseService) RemoveExpenseImage(ctx context.Context, sess Session, tripID, expenseID, imageID string) error {
	var img models.ExpenseImage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		e, err := findExpense(tx, tripID, expenseID, activeOnly)
		if err != nil {
			return err
		}
		if err := policy.CanModifyExpense(actor, e.CreatedBy); err != nil {
			return err
		}
		if err := tx.Where("id = ? AND expense_id = ?", imageID, expenseID).First(&img).Error; err != nil {
			return mapFind(err, apperrors.ErrExpenseImageNotFound)
		}
		if err := tx.Delete(&img).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	removeBlobs(ctx, s.blobs, []string{img.Path})
	publish(ctx, s.bus, tripID, notify.TableExpenseImages, imageID, models.AuditDelete)
	return nil
}

// signImages fills the read-time URL of each image.
func (s *expenseService) signImages(ctx context.Context, images []models.ExpenseImage) {
	if s.blobs == nil {
		return
	}
	for i := range images {
		url, err := s.blobs.SignedURL(ctx, images[i].Path, s.urlTTL)
		if err != nil {
			logger.Get().Warnw("failed to sign image url", "image_id", images[i].ID, "error", err)
			continue
		}
		images[i].URL = url
	}
}
