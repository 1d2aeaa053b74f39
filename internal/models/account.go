package models

// ParticipantAccount is the bank account a participant wants to be paid on.
// There is at most one per participant.
type ParticipantAccount struct {
	Base
	ParticipantID string `gorm:"type:uuid;uniqueIndex;not null" json:"participant_id"`
	BankName      string `gorm:"not null" json:"bank_name"`
	AccountNumber string `gorm:"not null" json:"account_number"`
	AccountHolder string `gorm:"not null" json:"account_holder"`
	IsPublic      bool   `gorm:"not null;default:false" json:"is_public"`
}

// TripTreasuryAccount is the account that receives payments into the
// collective fund. There is at most one per trip.
type TripTreasuryAccount struct {
	Base
	TripID        string  `gorm:"type:uuid;uniqueIndex;not null" json:"trip_id"`
	TreasurerID   *string `gorm:"type:uuid" json:"treasurer_id,omitempty"`
	BankName      string  `gorm:"not null" json:"bank_name"`
	AccountNumber string  `gorm:"not null" json:"account_number"`
	AccountHolder string  `gorm:"not null" json:"account_holder"`
	Memo          string  `json:"memo,omitempty"`
}
