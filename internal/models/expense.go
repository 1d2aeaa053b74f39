package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// MaxExpenseImages is the number of receipt images an expense may carry.
	MaxExpenseImages = 5
	// MaxExpenseImageBytes is the size limit of one receipt image.
	MaxExpenseImageBytes = 10 << 20
)

// Expense is a single payment made by one participant and shared by others.
type Expense struct {
	Base
	SoftDelete
	TripID      string     `gorm:"type:uuid;not null;index" json:"trip_id"`
	PayerID     string     `gorm:"type:uuid;not null;index" json:"payer_id"`
	Amount      int64      `gorm:"not null" json:"amount"`
	Description string     `json:"description"`
	CreatedBy   *string    `gorm:"type:uuid" json:"created_by,omitempty"`
	IsSettled   bool       `gorm:"not null;default:false" json:"is_settled"`
	SettledAt   *time.Time `json:"settled_at,omitempty"`
	SettledBy   *string    `gorm:"type:uuid" json:"settled_by,omitempty"`
	Revision    int64      `gorm:"not null;default:1" json:"revision"`

	Links          []ExpenseParticipant `gorm:"foreignKey:ExpenseID" json:"-"`
	ParticipantIDs []string             `gorm:"-" json:"participant_ids"`
	Images         []ExpenseImage       `gorm:"foreignKey:ExpenseID" json:"images,omitempty"`
}

// AfterFind fills ParticipantIDs from the preloaded link rows.
func (e *Expense) AfterFind(tx *gorm.DB) error {
	e.syncParticipantIDs()
	return nil
}

func (e *Expense) syncParticipantIDs() {
	if e.Links == nil {
		return
	}
	ids := make([]string, 0, len(e.Links))
	for _, l := range e.Links {
		ids = append(ids, l.ParticipantID)
	}
	e.ParticipantIDs = ids
}

// Involves reports whether the participant paid for or shares the expense.
func (e *Expense) Involves(participantID string) bool {
	if e.PayerID == participantID {
		return true
	}
	for _, id := range e.ParticipantIDs {
		if id == participantID {
			return true
		}
	}
	return false
}

// AuditSnapshot returns the fields tracked by update diffs.
func (e *Expense) AuditSnapshot() map[string]interface{} {
	return map[string]interface{}{
		"payer_id":    e.PayerID,
		"amount":      e.Amount,
		"description": e.Description,
		"is_settled":  e.IsSettled,
	}
}

// ExpenseParticipant links an expense to one participant of its share set.
type ExpenseParticipant struct {
	ExpenseID     string `gorm:"type:uuid;primaryKey" json:"expense_id"`
	ParticipantID string `gorm:"type:uuid;primaryKey;index" json:"participant_id"`
}

// ExpenseImage is a receipt attached to an expense. Only the storage path is
// persisted; URL is filled at read time.
type ExpenseImage struct {
	Base
	ExpenseID string `gorm:"type:uuid;not null;index" json:"expense_id"`
	Path      string `gorm:"not null" json:"path"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	URL       string `gorm:"-" json:"url,omitempty"`
}
