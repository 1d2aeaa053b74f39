package services

import (
	"context"
	"reflect"

	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/pagination"
)

// auditService writes and reads the append-only audit log.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Record appends an entry through tx. A failure is returned so the caller's
// transaction rolls back with it.
func (s *auditService) Record(tx *gorm.DB, rec AuditRecord) error {
	entry := &models.AuditLog{
		TripID:     rec.TripID,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		Action:     rec.Action,
		Before:     rec.Before,
		After:      rec.After,
		ActorID:    rec.ActorID,
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// History returns the entries of one entity, newest first.
func (s *auditService) History(
	ctx context.Context,
	sess Session,
	tripID, entityType, entityID string,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.AuditLog], error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := db.Model(&models.AuditLog{}).
		Where("trip_id = ? AND entity_type = ? AND entity_id = ?", tripID, entityType, entityID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.AuditLog
	if err := base.Order("created_at DESC").Order("id DESC").
		Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Diff keeps only the keys whose values differ between two snapshots.
// Both results are nil when nothing changed.
func Diff(before, after map[string]interface{}) (map[string]interface{}, map[string]interface{}) {
	var b, a map[string]interface{}
	for k, av := range after {
		bv, ok := before[k]
		if ok && reflect.DeepEqual(bv, av) {
			continue
		}
		if b == nil {
			b = make(map[string]interface{})
			a = make(map[string]interface{})
		}
		b[k] = bv
		a[k] = av
	}
	return b, a
}
