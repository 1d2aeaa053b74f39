package models

// Audit actions.
const (
	AuditCreate             = "create"
	AuditUpdate             = "update"
	AuditDelete             = "delete"
	AuditRestore            = "restore"
	AuditParticipantsUpdate = "participants_update"
	AuditHardDelete         = "hard_delete"
)

// Audited entity types.
const (
	EntityExpense             = "expense"
	EntityTreasuryTransaction = "treasury_transaction"
	EntityDuesGoal            = "dues_goal"
)

// AuditLog is an immutable record of a change to a ledger entity.
// Before and After hold partial field snapshots.
type AuditLog struct {
	Base
	TripID     string                 `gorm:"type:uuid;not null;index" json:"trip_id"`
	EntityType string                 `gorm:"not null" json:"entity_type"`
	EntityID   string                 `gorm:"type:uuid;not null;index" json:"entity_id"`
	Action     string                 `gorm:"not null" json:"action"`
	Before     map[string]interface{} `gorm:"serializer:json;type:text" json:"before,omitempty"`
	After      map[string]interface{} `gorm:"serializer:json;type:text" json:"after,omitempty"`
	ActorID    string                 `gorm:"type:uuid;not null" json:"actor_id"`
}
