package models

import "time"

// TreasuryDirection is the direction of a movement of the collective fund.
type TreasuryDirection string

const (
	// TreasuryReceive is money paid into the fund by the counterparty.
	TreasuryReceive TreasuryDirection = "receive"
	// TreasurySend is money paid out of the fund to the counterparty.
	TreasurySend TreasuryDirection = "send"
)

// Valid reports whether d is one of the enumerated directions.
func (d TreasuryDirection) Valid() bool {
	return d == TreasuryReceive || d == TreasurySend
}

// TreasuryTransaction is a movement of the trip's collective fund.
type TreasuryTransaction struct {
	Base
	SoftDelete
	TripID         string            `gorm:"type:uuid;not null;index" json:"trip_id"`
	TreasurerID    *string           `gorm:"type:uuid" json:"treasurer_id,omitempty"`
	Direction      TreasuryDirection `gorm:"type:varchar(10);not null" json:"direction"`
	CounterpartyID *string           `gorm:"type:uuid;index" json:"counterparty_id,omitempty"`
	Amount         int64             `gorm:"not null" json:"amount"`
	Memo           string            `json:"memo"`
	DueID          *string           `gorm:"type:uuid;index" json:"due_id,omitempty"`
	ExpenseID      *string           `gorm:"type:uuid;index" json:"expense_id,omitempty"`
}

// AuditSnapshot returns the fields recorded in audit entries.
func (t *TreasuryTransaction) AuditSnapshot() map[string]interface{} {
	return map[string]interface{}{
		"direction":       t.Direction,
		"counterparty_id": t.CounterpartyID,
		"amount":          t.Amount,
		"memo":            t.Memo,
		"due_id":          t.DueID,
		"expense_id":      t.ExpenseID,
	}
}

// DuesGoal is a fixed per-participant collection target.
type DuesGoal struct {
	Base
	SoftDelete
	TripID       string     `gorm:"type:uuid;not null;index" json:"trip_id"`
	Title        string     `gorm:"not null" json:"title"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	TargetAmount int64      `gorm:"not null" json:"target_amount"`
}

// AuditSnapshot returns the fields recorded in audit entries.
func (d *DuesGoal) AuditSnapshot() map[string]interface{} {
	return map[string]interface{}{
		"title":         d.Title,
		"due_date":      d.DueDate,
		"target_amount": d.TargetAmount,
	}
}
