package models

import (
	"time"

	"tripledger/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// SoftDelete holds the delete metadata of entities that can be restored.
// DeletedAt is a gorm.DeletedAt, so default queries skip deleted rows and
// Unscoped() is required to see them.
type SoftDelete struct {
	IsDeleted bool           `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// All lists every model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Trip{},
		&Participant{},
		&Expense{},
		&ExpenseParticipant{},
		&ExpenseImage{},
		&DuesGoal{},
		&TreasuryTransaction{},
		&ParticipantAccount{},
		&TripTreasuryAccount{},
		&AuditLog{},
	}
}
