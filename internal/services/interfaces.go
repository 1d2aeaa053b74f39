package services

import (
	"context"
	"io"
	"time"

	"gorm.io/gorm"

	"tripledger/internal/models"
	"tripledger/internal/pagination"
	"tripledger/internal/settlement"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(ctx context.Context, email, password, displayName string) (*models.User, error)
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// TripServicer defines the contract for trip administration.
type TripServicer interface {
	CreateTrip(ctx context.Context, s Session, name string, participantNames []string) (*models.Trip, error)
	ListTrips(ctx context.Context, s Session, page pagination.PageRequest) (*pagination.PageResponse[models.Trip], error)
	GetTrip(ctx context.Context, s Session, tripID string) (*models.Trip, error)
	RenameTrip(ctx context.Context, s Session, tripID, name string) (*models.Trip, error)
	DeleteTrip(ctx context.Context, s Session, tripID string) error
}

// ParticipantServicer defines the contract for trip membership.
type ParticipantServicer interface {
	ListParticipants(ctx context.Context, s Session, tripID string) ([]models.Participant, error)
	AddParticipant(ctx context.Context, s Session, tripID, name string) (*models.Participant, error)
	RenameParticipant(ctx context.Context, s Session, tripID, participantID, name string) (*models.Participant, error)
	RemoveParticipant(ctx context.Context, s Session, tripID, participantID string) error
	SetTreasurer(ctx context.Context, s Session, tripID, participantID string, isTreasurer bool) (*models.Participant, error)
	ClaimParticipant(ctx context.Context, s Session, tripID, name string) (*models.Participant, error)
}

// ExpenseInput holds the fields of a new expense.
type ExpenseInput struct {
	PayerID        string
	Amount         int64
	Description    string
	ParticipantIDs []string
}

// ExpenseUpdate holds optional field changes. ExpectedRevision, when set,
// must match the stored revision or nothing is written.
type ExpenseUpdate struct {
	PayerID          *string
	Amount           *int64
	Description      *string
	ExpectedRevision *int64
}

// ImageUpload is a receipt image on its way to the blob store.
type ImageUpload struct {
	Filename string
	MimeType string
	Size     int64
	Reader   io.Reader
}

// ExpenseServicer defines the contract for expenses and their receipts.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, s Session, tripID string, in ExpenseInput) (*models.Expense, error)
	GetExpense(ctx context.Context, s Session, tripID, expenseID string) (*models.Expense, error)
	ListExpenses(ctx context.Context, s Session, tripID string, req pagination.ListRequest) (*pagination.PageResponse[models.Expense], error)
	UpdateExpense(ctx context.Context, s Session, tripID, expenseID string, upd ExpenseUpdate) (*models.Expense, error)
	UpdateExpenseParticipants(ctx context.Context, s Session, tripID, expenseID string, participantIDs []string, expectedRevision *int64) (*models.Expense, error)
	DeleteExpense(ctx context.Context, s Session, tripID, expenseID string) error
	RestoreExpense(ctx context.Context, s Session, tripID, expenseID string) (*models.Expense, error)
	HardDeleteExpense(ctx context.Context, s Session, tripID, expenseID string) error
	SettleExpense(ctx context.Context, s Session, tripID, expenseID string, recordPayout bool) (*models.Expense, error)
	UnsettleExpense(ctx context.Context, s Session, tripID, expenseID string) (*models.Expense, error)
	AddExpenseImage(ctx context.Context, s Session, tripID, expenseID string, upload ImageUpload) (*models.ExpenseImage, error)
	RemoveExpenseImage(ctx context.Context, s Session, tripID, expenseID, imageID string) error
}

// TreasuryInput holds the fields of a new treasury transaction.
type TreasuryInput struct {
	Direction      models.TreasuryDirection
	CounterpartyID *string
	Amount         int64
	Memo           string
	DueID          *string
	ExpenseID      *string
}

// DuesPaymentsInput records one receive per counterparty against a goal.
// Amount defaults to the goal's target and Memo to "Dues - {title}".
type DuesPaymentsInput struct {
	DueID           string
	CounterpartyIDs []string
	Amount          *int64
	Memo            string
}

// TreasurySummary contains the fund totals of a trip.
type TreasurySummary struct {
	TotalReceived int64 `json:"total_received"`
	TotalSent     int64 `json:"total_sent"`
	Balance       int64 `json:"balance"`
}

// TreasuryServicer defines the contract for the collective fund.
type TreasuryServicer interface {
	RecordTransaction(ctx context.Context, s Session, tripID string, in TreasuryInput) (*models.TreasuryTransaction, error)
	RecordDuesPayments(ctx context.Context, s Session, tripID string, in DuesPaymentsInput) ([]models.TreasuryTransaction, error)
	ListTransactions(ctx context.Context, s Session, tripID string, req pagination.ListRequest) (*pagination.PageResponse[models.TreasuryTransaction], error)
	GetSummary(ctx context.Context, s Session, tripID string) (*TreasurySummary, error)
	DeleteTransaction(ctx context.Context, s Session, tripID, txID string) error
	RestoreTransaction(ctx context.Context, s Session, tripID, txID string) (*models.TreasuryTransaction, error)
	HardDeleteTransaction(ctx context.Context, s Session, tripID, txID string) error
}

// DuesServicer defines the contract for dues goals.
type DuesServicer interface {
	CreateGoal(ctx context.Context, s Session, tripID, title string, dueDate *time.Time, targetAmount int64) (*models.DuesGoal, error)
	ListGoals(ctx context.Context, s Session, tripID string, includeDeleted bool) ([]models.DuesGoal, error)
	GetProgress(ctx context.Context, s Session, tripID, goalID string) (*settlement.DuesProgress, error)
	DeleteGoal(ctx context.Context, s Session, tripID, goalID string) error
	RestoreGoal(ctx context.Context, s Session, tripID, goalID string) (*models.DuesGoal, error)
	HardDeleteGoal(ctx context.Context, s Session, tripID, goalID string) error
}

// BankAccountInput holds bank details shared by both account kinds.
type BankAccountInput struct {
	BankName      string
	AccountNumber string
	AccountHolder string
	IsPublic      bool
	Memo          string
}

// AccountServicer defines the contract for payout and fund accounts.
type AccountServicer interface {
	UpsertParticipantAccount(ctx context.Context, s Session, tripID, participantID string, in BankAccountInput) (*models.ParticipantAccount, error)
	ListParticipantAccounts(ctx context.Context, s Session, tripID string) ([]models.ParticipantAccount, error)
	UpsertTreasuryAccount(ctx context.Context, s Session, tripID string, in BankAccountInput) (*models.TripTreasuryAccount, error)
	GetTreasuryAccount(ctx context.Context, s Session, tripID string) (*models.TripTreasuryAccount, error)
}

// SettlementServicer computes settlement views from a fresh ledger snapshot.
type SettlementServicer interface {
	GetSettlements(ctx context.Context, s Session, tripID string) ([]settlement.PersonalSettlement, error)
	GetNetBalances(ctx context.Context, s Session, tripID string) (*settlement.NetBalances, error)
}

// AuditRecord is one change to be written to the audit log.
type AuditRecord struct {
	TripID     string
	EntityType string
	EntityID   string
	Action     string
	Before     map[string]interface{}
	After      map[string]interface{}
	ActorID    string
}

// AuditServicer defines the contract for the append-only audit log.
type AuditServicer interface {
	Record(tx *gorm.DB, rec AuditRecord) error
	History(ctx context.Context, s Session, tripID, entityType, entityID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
