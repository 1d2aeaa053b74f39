package models

// Trip groups participants, expenses and treasury activity.
type Trip struct {
	Base
	Name string `gorm:"not null" json:"name"`
}

// Participant is a member of a trip.
type Participant struct {
	Base
	TripID      string  `gorm:"type:uuid;not null;index" json:"trip_id"`
	Name        string  `gorm:"not null" json:"name"`
	UserID      *string `gorm:"type:uuid;index" json:"user_id,omitempty"`
	IsTreasurer bool    `gorm:"not null;default:false" json:"is_treasurer"`
	HasAccount  bool    `gorm:"not null;default:false" json:"has_account"`
}

// IsClaimed reports whether an identity has been linked to the participant.
func (p *Participant) IsClaimed() bool {
	return p.UserID != nil && *p.UserID != ""
}
