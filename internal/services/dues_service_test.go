package services

import (
	"context"
	"testing"
	"time"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/testutil"
)

func TestCreateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("treasurer_creates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDuesService(db, NewAuditService(db), nil)
		f := newTripFixture(t, db)

		due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
		goal, err := svc.CreateGoal(ctx, f.treasurer, f.trip.ID, " Villa deposit ", &due, 10000)
		testutil.AssertNoError(t, err)
		if goal.Title != "Villa deposit" || goal.TargetAmount != 10000 {
			t.Errorf("unexpected goal %+v", goal)
		}
		if actions := auditActions(t, db, goal.ID); !equalStrings(actions, []string{models.AuditCreate}) {
			t.Errorf("expected create entry, got %v", actions)
		}
	})

	t.Run("validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDuesService(db, NewAuditService(db), nil)
		f := newTripFixture(t, db)

		_, err := svc.CreateGoal(ctx, f.treasurer, f.trip.ID, "", nil, 100)
		testutil.AssertAppErrorKind(t, err, apperrors.KindValidation, "title_required")
		_, err = svc.CreateGoal(ctx, f.treasurer, f.trip.ID, "Deposit", nil, 0)
		testutil.AssertAppErrorKind(t, err, apperrors.KindValidation, "amount_not_positive")
	})

	t.Run("member_is_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDuesService(db, NewAuditService(db), nil)
		f := newTripFixture(t, db)

		_, err := svc.CreateGoal(ctx, f.member, f.trip.ID, "Deposit", nil, 100)
		testutil.AssertAppErrorKind(t, err, apperrors.KindAuthorization, "treasurer_required")
	})
}

func TestListGoals(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDuesService(db, NewAuditService(db), nil)
	f := newTripFixture(t, db)

	late := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	undated, err := svc.CreateGoal(ctx, f.treasurer, f.trip.ID, "Undated", nil, 100)
	testutil.AssertNoError(t, err)
	second, err := svc.CreateGoal(ctx, f.treasurer, f.trip.ID, "Late", &late, 100)
	testutil.AssertNoError(t, err)
	first, err := svc.CreateGoal(ctx, f.treasurer, f.trip.ID, "Early", &early, 100)
	testutil.AssertNoError(t, err)

	t.Run("ordered_by_due_date", func(t *testing.T) {
		goals, err := svc.ListGoals(ctx, f.member, f.trip.ID, false)
		testutil.AssertNoError(t, err)
		if len(goals) != 3 || goals[0].ID != first.ID || goals[1].ID != second.ID || goals[2].ID != undated.ID {
			t.Errorf("unexpected order %+v", goals)
		}
	})

	t.Run("deleted_only_when_requested", func(t *testing.T) {
		testutil.AssertNoError(t, svc.DeleteGoal(ctx, f.treasurer, f.trip.ID, undated.ID))

		active, err := svc.ListGoals(ctx, f.member, f.trip.ID, false)
		testutil.AssertNoError(t, err)
		all, err := svc.ListGoals(ctx, f.member, f.trip.ID, true)
		testutil.AssertNoError(t, err)
		if len(active) != 2 || len(all) != 3 {
			t.Errorf("expected 2 active and 3 total, got %d and %d", len(active), len(all))
		}
	})
}

func TestGetProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("two_of_three_paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDuesService(db, NewAuditService(db), nil)
		treasury := NewTreasuryService(db, NewAuditService(db), nil)
		f := newTripFixture(t, db)
		goal := testutil.CreateTestDuesGoal(t, db, f.trip.ID, 10000)
		other := testutil.CreateTestDuesGoal(t, db, f.trip.ID, 500)

		_, err := treasury.RecordDuesPayments(ctx, f.treasurer, f.trip.ID, DuesPaymentsInput{
			DueID: goal.ID, CounterpartyIDs: []string{f.treasurerP.ID, f.memberP.ID},
		})
		testutil.AssertNoError(t, err)
		testutil.CreateTestTreasuryTx(t, db, f.trip.ID, models.TreasuryReceive, f.freeP.ID, 500, &other.ID)

		progress, err := svc.GetProgress(ctx, f.member, f.trip.ID, goal.ID)
		testutil.AssertNoError(t, err)

		if progress.Received != 20000 || progress.TotalTarget != 30000 || progress.Remaining != 10000 {
			t.Errorf("unexpected totals %+v", progress)
		}
		if !progress.FullyPaid[f.treasurerP.ID] || !progress.FullyPaid[f.memberP.ID] || progress.FullyPaid[f.freeP.ID] {
			t.Errorf("unexpected fully paid map %v", progress.FullyPaid)
		}
	})

	t.Run("deleted_payment_does_not_count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDuesService(db, NewAuditService(db), nil)
		treasury := NewTreasuryService(db, NewAuditService(db), nil)
		f := newTripFixture(t, db)
		goal := testutil.CreateTestDuesGoal(t, db, f.trip.ID, 10000)
		tx := testutil.CreateTestTreasuryTx(t, db, f.trip.ID, models.TreasuryReceive, f.memberP.ID, 10000, &goal.ID)
		testutil.AssertNoError(t, treasury.DeleteTransaction(ctx, f.treasurer, f.trip.ID, tx.ID))

		progress, err := svc.GetProgress(ctx, f.member, f.trip.ID, goal.ID)
		testutil.AssertNoError(t, err)
		if progress.Received != 0 {
			t.Errorf("expected nothing received, got %d", progress.Received)
		}
	})

	t.Run("deleted_goal_is_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDuesService(db, NewAuditService(db), nil)
		f := newTripFixture(t, db)
		goal := testutil.CreateTestDuesGoal(t, db, f.trip.ID, 10000)
		testutil.AssertNoError(t, svc.DeleteGoal(ctx, f.treasurer, f.trip.ID, goal.ID))

		_, err := svc.GetProgress(ctx, f.member, f.trip.ID, goal.ID)
		testutil.AssertAppError(t, err, "DUES_GOAL_NOT_FOUND")

		restored, err := svc.RestoreGoal(ctx, f.treasurer, f.trip.ID, goal.ID)
		testutil.AssertNoError(t, err)
		if restored.IsDeleted {
			t.Error("expected restored goal to be active")
		}
	})
}

func TestHardDeleteGoal(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDuesService(db, NewAuditService(db), nil)
	f := newTripFixture(t, db)
	goal := testutil.CreateTestDuesGoal(t, db, f.trip.ID, 10000)
	tx := testutil.CreateTestTreasuryTx(t, db, f.trip.ID, models.TreasuryReceive, f.memberP.ID, 10000, &goal.ID)

	err := svc.HardDeleteGoal(ctx, f.treasurer, f.trip.ID, goal.ID)
	testutil.AssertAppErrorKind(t, err, apperrors.KindAuthorization, "admin_required")

	testutil.AssertNoError(t, svc.HardDeleteGoal(ctx, f.admin, f.trip.ID, goal.ID))

	var untagged models.TreasuryTransaction
	db.First(&untagged, "id = ?", tx.ID)
	if untagged.DueID != nil {
		t.Errorf("expected transaction to lose its goal, got %v", *untagged.DueID)
	}
	if actions := auditActions(t, db, goal.ID); !equalStrings(actions, []string{models.AuditHardDelete}) {
		t.Errorf("expected hard_delete entry, got %v", actions)
	}
}
