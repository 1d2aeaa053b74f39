// Package policy holds the capability checks that guard every ledger write.
//
// Capabilities are two independent flags: is_treasurer on the caller's
// participant row for the trip, and is_admin from the caller's user role.
// Neither implies the other.
package policy

import (
	apperrors "tripledger/internal/errors"
)

// MinParticipants is the smallest participant count a trip may keep.
const MinParticipants = 2

// Actor is the caller resolved against one trip.
type Actor struct {
	UserID        string
	IsAdmin       bool
	TripID        string
	ParticipantID string
	IsTreasurer   bool
}

// IsParticipant reports whether the caller has claimed a participant in the trip.
func (a Actor) IsParticipant() bool {
	return a.ParticipantID != ""
}

// RequireTreasurer allows treasurers of the trip.
func RequireTreasurer(a Actor, entity string) error {
	if a.IsTreasurer {
		return nil
	}
	return apperrors.Authorization(entity, "treasurer_required")
}

// RequireAdmin allows admins.
func RequireAdmin(a Actor, entity string) error {
	if a.IsAdmin {
		return nil
	}
	return apperrors.Authorization(entity, "admin_required")
}

// CanReadTrip allows participants of the trip and admins.
func CanReadTrip(a Actor) error {
	if a.IsAdmin || a.IsParticipant() {
		return nil
	}
	return apperrors.ErrNotTripMember
}

// CanModifyExpense allows treasurers, and the user who created the expense.
// It covers edits, soft deletes and attaching images.
func CanModifyExpense(a Actor, createdBy *string) error {
	if a.IsTreasurer {
		return nil
	}
	if createdBy != nil && a.UserID != "" && *createdBy == a.UserID && a.IsParticipant() {
		return nil
	}
	return apperrors.Authorization("expense", "treasurer_or_owner_required")
}

// CanManageParticipants allows the trip's treasurers and admins.
func CanManageParticipants(a Actor) error {
	if a.IsTreasurer || a.IsAdmin {
		return nil
	}
	return apperrors.Authorization("participant", "treasurer_or_admin_required")
}

// CanUpsertAccount allows the user who claimed the participant, and admins.
func CanUpsertAccount(a Actor, claimedBy *string) error {
	if a.IsAdmin {
		return nil
	}
	if claimedBy != nil && *claimedBy != "" && *claimedBy == a.UserID {
		return nil
	}
	return apperrors.Authorization("participant_account", "owner_or_admin_required")
}

// CanViewAccount reports whether a participant account is visible to the caller.
func CanViewAccount(a Actor, isPublic bool, ownerParticipantID string) bool {
	return isPublic || a.IsAdmin || a.IsTreasurer || a.ParticipantID == ownerParticipantID
}

// CheckParticipantRemoval enforces the structural removal rules. count is the
// trip's current participant count; referenced tells whether any active
// expense names the participant as payer or sharer.
func CheckParticipantRemoval(count int, referenced bool) error {
	if count-1 < MinParticipants {
		return apperrors.Validation("participant", "min_participants",
			"A trip must keep at least 2 participants")
	}
	if referenced {
		return apperrors.Validation("participant", "participant_referenced",
			"Participant is referenced by an active expense")
	}
	return nil
}
