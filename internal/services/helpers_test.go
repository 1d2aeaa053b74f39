package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"tripledger/internal/models"
	"tripledger/internal/notify"
	"tripledger/internal/pagination"
	"tripledger/internal/testutil"
)

var errAuditDown = errors.New("audit down")

// failingAudit rejects every write, so the surrounding mutation must roll back.
type failingAudit struct{}

func (failingAudit) Record(_ *gorm.DB, _ AuditRecord) error { return errAuditDown }

func (failingAudit) History(_ context.Context, _ Session, _, _, _ string, _ pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	return nil, errAuditDown
}

// recordingPublisher keeps every published change for assertions.
type recordingPublisher struct {
	mu      sync.Mutex
	changes []notify.Change
}

func (r *recordingPublisher) Publish(_ context.Context, c notify.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recordingPublisher) actions(table string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.changes {
		if c.Table == table {
			out = append(out, c.Action)
		}
	}
	return out
}

// tripFixture is a trip with an admin, a claimed treasurer, a claimed member,
// an unclaimed participant and an outsider.
type tripFixture struct {
	trip      *models.Trip
	admin     Session
	treasurer Session
	member    Session
	outsider  Session

	treasurerP *models.Participant
	memberP    *models.Participant
	freeP      *models.Participant
}

func newTripFixture(t *testing.T, db *gorm.DB) *tripFixture {
	t.Helper()

	admin := testutil.CreateTestAdmin(t, db)
	treasurerUser := testutil.CreateTestUser(t, db)
	memberUser := testutil.CreateTestUser(t, db)
	outsider := testutil.CreateTestUser(t, db)

	trip := testutil.CreateTestTrip(t, db)
	f := &tripFixture{
		trip:      trip,
		admin:     Session{UserID: admin.ID, IsAdmin: true},
		treasurer: Session{UserID: treasurerUser.ID},
		member:    Session{UserID: memberUser.ID},
		outsider:  Session{UserID: outsider.ID},
	}
	f.treasurerP = testutil.CreateTestTreasurer(t, db, trip.ID, treasurerUser)
	f.memberP = testutil.CreateTestParticipant(t, db, trip.ID, memberUser)
	f.freeP = testutil.CreateTestParticipant(t, db, trip.ID, nil)
	return f
}

func (f *tripFixture) everyone() []string {
	return []string{f.treasurerP.ID, f.memberP.ID, f.freeP.ID}
}

func auditActions(t *testing.T, db *gorm.DB, entityID string) []string {
	t.Helper()
	var actions []string
	if err := db.Model(&models.AuditLog{}).Where("entity_id = ?", entityID).
		Order("created_at ASC").Order("id ASC").Pluck("action", &actions).Error; err != nil {
		t.Fatalf("failed to load audit log: %v", err)
	}
	return actions
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int64Ptr(v int64) *int64 {
	return &v
}
