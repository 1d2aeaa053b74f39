package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"tripledger/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a member with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestAdmin creates a user with the admin role.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := CreateTestUserWithEmail(t, db, fmt.Sprintf("admin%d@test.com", nextID()))
	if err := db.Model(user).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote test admin: %v", err)
	}
	user.Role = models.RoleAdmin
	return user
}

// CreateTestUserWithEmail creates a member with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Role:     models.RoleMember,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTrip creates an empty trip.
func CreateTestTrip(t *testing.T, db *gorm.DB) *models.Trip {
	t.Helper()

	trip := &models.Trip{Name: fmt.Sprintf("Trip %d", nextID())}
	if err := db.Create(trip).Error; err != nil {
		t.Fatalf("failed to create test trip: %v", err)
	}
	return trip
}

// CreateTestParticipant adds a participant to a trip, claimed by user when
// user is not nil.
func CreateTestParticipant(t *testing.T, db *gorm.DB, tripID string, user *models.User) *models.Participant {
	t.Helper()

	p := &models.Participant{
		TripID: tripID,
		Name:   fmt.Sprintf("Participant %d", nextID()),
	}
	if user != nil {
		id := user.ID
		p.UserID = &id
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test participant: %v", err)
	}
	return p
}

// CreateTestTreasurer adds a participant claimed by user with the treasurer flag.
func CreateTestTreasurer(t *testing.T, db *gorm.DB, tripID string, user *models.User) *models.Participant {
	t.Helper()

	p := CreateTestParticipant(t, db, tripID, user)
	if err := db.Model(p).Update("is_treasurer", true).Error; err != nil {
		t.Fatalf("failed to flag test treasurer: %v", err)
	}
	p.IsTreasurer = true
	return p
}

// CreateTestExpense inserts an active expense and its share set directly.
func CreateTestExpense(t *testing.T, db *gorm.DB, tripID, payerID string, amount int64, participantIDs []string, createdBy string) *models.Expense {
	t.Helper()

	e := &models.Expense{
		TripID:      tripID,
		PayerID:     payerID,
		Amount:      amount,
		Description: fmt.Sprintf("Expense %d", nextID()),
		CreatedBy:   &createdBy,
		Revision:    1,
	}
	if err := db.Omit("Links", "Images").Create(e).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	for _, pid := range participantIDs {
		link := &models.ExpenseParticipant{ExpenseID: e.ID, ParticipantID: pid}
		if err := db.Create(link).Error; err != nil {
			t.Fatalf("failed to link test expense participant: %v", err)
		}
	}
	e.ParticipantIDs = participantIDs
	return e
}

// CreateTestDuesGoal creates an active goal with the given per-participant target.
func CreateTestDuesGoal(t *testing.T, db *gorm.DB, tripID string, target int64) *models.DuesGoal {
	t.Helper()

	g := &models.DuesGoal{
		TripID:       tripID,
		Title:        fmt.Sprintf("Dues %d", nextID()),
		TargetAmount: target,
	}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("failed to create test dues goal: %v", err)
	}
	return g
}

// CreateTestTreasuryTx creates an active treasury transaction.
func CreateTestTreasuryTx(t *testing.T, db *gorm.DB, tripID string, direction models.TreasuryDirection, counterpartyID string, amount int64, dueID *string) *models.TreasuryTransaction {
	t.Helper()

	tx := &models.TreasuryTransaction{
		TripID:         tripID,
		Direction:      direction,
		CounterpartyID: &counterpartyID,
		Amount:         amount,
		Memo:           fmt.Sprintf("Movement %d", nextID()),
		DueID:          dueID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test treasury transaction: %v", err)
	}
	return tx
}
