package services

import (
	"context"
	"testing"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/notify"
	"tripledger/internal/testutil"
)

func TestAddParticipant(t *testing.T) {
	ctx := context.Background()

	t.Run("treasurer_adds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		pub := &recordingPublisher{}
		svc := NewParticipantService(db, pub)
		f := newTripFixture(t, db)

		p, err := svc.AddParticipant(ctx, f.treasurer, f.trip.ID, "  Dana ")
		testutil.AssertNoError(t, err)
		if p.Name != "Dana" || p.IsClaimed() {
			t.Errorf("unexpected participant %+v", p)
		}

		list, err := svc.ListParticipants(ctx, f.member, f.trip.ID)
		testutil.AssertNoError(t, err)
		if len(list) != 4 || list[3].ID != p.ID {
			t.Errorf("expected new participant last, got %d entries", len(list))
		}
		if actions := pub.actions(notify.TableParticipants); !equalStrings(actions, []string{models.AuditCreate}) {
			t.Errorf("expected create change, got %v", actions)
		}
	})

	t.Run("duplicate_name_ignores_case", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		f := newTripFixture(t, db)

		_, err := svc.AddParticipant(ctx, f.treasurer, f.trip.ID, "dana")
		testutil.AssertNoError(t, err)
		_, err = svc.AddParticipant(ctx, f.treasurer, f.trip.ID, "DANA")
		testutil.AssertAppError(t, err, "DUPLICATE_PARTICIPANT")
	})

	t.Run("same_name_in_other_trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		f := newTripFixture(t, db)
		g := newTripFixture(t, db)

		_, err := svc.AddParticipant(ctx, f.treasurer, f.trip.ID, "Dana")
		testutil.AssertNoError(t, err)
		_, err = svc.AddParticipant(ctx, g.treasurer, g.trip.ID, "Dana")
		testutil.AssertNoError(t, err)
	})

	t.Run("member_is_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		f := newTripFixture(t, db)

		_, err := svc.AddParticipant(ctx, f.member, f.trip.ID, "Dana")
		testutil.AssertAppErrorKind(t, err, apperrors.KindAuthorization, "treasurer_or_admin_required")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		f := newTripFixture(t, db)

		_, err := svc.AddParticipant(ctx, f.admin, f.trip.ID, "   ")
		testutil.AssertAppErrorKind(t, err, apperrors.KindValidation, "name_required")
	})
}

func TestRenameParticipant(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewParticipantService(db, nil)
	f := newTripFixture(t, db)

	t.Run("renames", func(t *testing.T) {
		p, err := svc.RenameParticipant(ctx, f.treasurer, f.trip.ID, f.freeP.ID, "Eve")
		testutil.AssertNoError(t, err)
		if p.Name != "Eve" {
			t.Errorf("expected Eve, got %s", p.Name)
		}
	})

	t.Run("keeping_own_name_is_allowed", func(t *testing.T) {
		_, err := svc.RenameParticipant(ctx, f.treasurer, f.trip.ID, f.freeP.ID, "eve")
		testutil.AssertNoError(t, err)
	})

	t.Run("collides_with_other", func(t *testing.T) {
		_, err := svc.RenameParticipant(ctx, f.treasurer, f.trip.ID, f.memberP.ID, "EVE")
		testutil.AssertAppError(t, err, "DUPLICATE_PARTICIPANT")
	})

	t.Run("unknown_participant", func(t *testing.T) {
		_, err := svc.RenameParticipant(ctx, f.treasurer, f.trip.ID, "0190a4c2-0000-7000-8000-000000000000", "Zed")
		testutil.AssertAppError(t, err, "PARTICIPANT_NOT_FOUND")
	})
}

func TestRemoveParticipant(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps_minimum", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		f := newTripFixture(t, db)

		testutil.AssertNoError(t, svc.RemoveParticipant(ctx, f.treasurer, f.trip.ID, f.freeP.ID))
		err := svc.RemoveParticipant(ctx, f.treasurer, f.trip.ID, f.memberP.ID)
		testutil.AssertAppErrorKind(t, err, apperrors.KindValidation, "min_participants")
	})

	t.Run("blocked_by_active_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		f := newTripFixture(t, db)
		testutil.CreateTestParticipant(t, db, f.trip.ID, nil)
		testutil.CreateTestExpense(t, db, f.trip.ID, f.treasurerP.ID, 1000, []string{f.freeP.ID}, f.treasurer.UserID)

		err := svc.RemoveParticipant(ctx, f.treasurer, f.trip.ID, f.freeP.ID)
		testutil.AssertAppErrorKind(t, err, apperrors.KindValidation, "participant_referenced")
	})

	t.Run("blocked_as_payer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		f := newTripFixture(t, db)
		testutil.CreateTestParticipant(t, db, f.trip.ID, nil)
		testutil.CreateTestExpense(t, db, f.trip.ID, f.freeP.ID, 1000, []string{f.memberP.ID}, f.treasurer.UserID)

		err := svc.RemoveParticipant(ctx, f.treasurer, f.trip.ID, f.freeP.ID)
		testutil.AssertAppErrorKind(t, err, apperrors.KindValidation, "participant_referenced")
	})

	t.Run("deleted_expense_does_not_block", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		f := newTripFixture(t, db)
		e := testutil.CreateTestExpense(t, db, f.trip.ID, f.treasurerP.ID, 1000, []string{f.freeP.ID}, f.treasurer.UserID)
		db.Model(&models.Expense{}).Where("id = ?", e.ID).Updates(softDeleteColumns(f.treasurer.UserID))

		testutil.AssertNoError(t, svc.RemoveParticipant(ctx, f.treasurer, f.trip.ID, f.freeP.ID))
	})

	t.Run("drops_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		accounts := NewAccountService(db, nil)
		f := newTripFixture(t, db)

		_, err := accounts.UpsertParticipantAccount(ctx, f.admin, f.trip.ID, f.freeP.ID, BankAccountInput{
			BankName: "Bank", AccountNumber: "123", AccountHolder: "Free",
		})
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.RemoveParticipant(ctx, f.admin, f.trip.ID, f.freeP.ID))

		var count int64
		db.Model(&models.ParticipantAccount{}).Count(&count)
		if count != 0 {
			t.Errorf("expected account to be removed, got %d", count)
		}
	})
}

func TestSetTreasurer(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewParticipantService(db, nil)
	f := newTripFixture(t, db)

	t.Run("admin_grants", func(t *testing.T) {
		p, err := svc.SetTreasurer(ctx, f.admin, f.trip.ID, f.memberP.ID, true)
		testutil.AssertNoError(t, err)
		if !p.IsTreasurer {
			t.Error("expected treasurer flag")
		}
	})

	t.Run("treasurer_cannot_grant", func(t *testing.T) {
		_, err := svc.SetTreasurer(ctx, f.treasurer, f.trip.ID, f.freeP.ID, true)
		testutil.AssertAppErrorKind(t, err, apperrors.KindAuthorization, "admin_required")
	})
}

func TestClaimParticipant(t *testing.T) {
	ctx := context.Background()

	t.Run("claims_unclaimed_by_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		pub := &recordingPublisher{}
		svc := NewParticipantService(db, pub)
		f := newTripFixture(t, db)

		p, err := svc.ClaimParticipant(ctx, f.outsider, f.trip.ID, f.freeP.Name)
		testutil.AssertNoError(t, err)
		if p.ID != f.freeP.ID || *p.UserID != f.outsider.UserID {
			t.Errorf("unexpected claim result %+v", p)
		}

		again, err := svc.ClaimParticipant(ctx, f.outsider, f.trip.ID, f.freeP.Name)
		testutil.AssertNoError(t, err)
		if again.ID != p.ID {
			t.Errorf("expected repeated claim to return the same row")
		}
		if n := len(pub.actions(notify.TableParticipants)); n != 1 {
			t.Errorf("expected one published change, got %d", n)
		}
	})

	t.Run("row_claimed_by_other", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		f := newTripFixture(t, db)

		_, err := svc.ClaimParticipant(ctx, f.outsider, f.trip.ID, f.memberP.Name)
		testutil.AssertAppError(t, err, "PARTICIPANT_ALREADY_CLAIMED")
	})

	t.Run("identity_already_linked", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		f := newTripFixture(t, db)

		_, err := svc.ClaimParticipant(ctx, f.member, f.trip.ID, f.freeP.Name)
		testutil.AssertAppError(t, err, "IDENTITY_ALREADY_LINKED")
	})

	t.Run("unknown_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewParticipantService(db, nil)
		f := newTripFixture(t, db)

		_, err := svc.ClaimParticipant(ctx, f.outsider, f.trip.ID, "Nobody")
		testutil.AssertAppError(t, err, "PARTICIPANT_NOT_FOUND")
	})
}
