package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/settlement"
)

// settlementService feeds ledger snapshots to the netting engine.
type settlementService struct {
	db *gorm.DB
}

// NewSettlementService creates a new SettlementServicer.
func NewSettlementService(db *gorm.DB) SettlementServicer {
	return &settlementService{db: db}
}

func loadSnapshotParticipants(db *gorm.DB, tripID string) ([]settlement.Participant, error) {
	participants, err := listParticipants(db, tripID)
	if err != nil {
		return nil, err
	}
	out := make([]settlement.Participant, 0, len(participants))
	for _, p := range participants {
		out = append(out, settlement.Participant{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

// loadSnapshotExpenses returns active expenses oldest first.
func loadSnapshotExpenses(db *gorm.DB, tripID string, unsettledOnly bool) ([]settlement.Expense, error) {
	q := db.Preload("Links").Where("trip_id = ?", tripID)
	if unsettledOnly {
		q = q.Where("is_settled = ?", false)
	}
	var expenses []models.Expense
	if err := q.Order("created_at ASC").Order("id ASC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	out := make([]settlement.Expense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, settlement.Expense{PayerID: e.PayerID, Amount: e.Amount, ParticipantIDs: e.ParticipantIDs})
	}
	return out, nil
}

// GetSettlements returns who owes whom for the active, unsettled expenses.
func (s *settlementService) GetSettlements(ctx context.Context, sess Session, tripID string) ([]settlement.PersonalSettlement, error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}

	participants, err := loadSnapshotParticipants(db, tripID)
	if err != nil {
		return nil, err
	}
	expenses, err := loadSnapshotExpenses(db, tripID, true)
	if err != nil {
		return nil, err
	}
	return settlement.ComputeSettlements(participants, expenses), nil
}

// GetNetBalances returns each participant's position against the fund, from
// every active expense and treasury transaction.
func (s *settlementService) GetNetBalances(ctx context.Context, sess Session, tripID string) (*settlement.NetBalances, error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}

	participants, err := loadSnapshotParticipants(db, tripID)
	if err != nil {
		return nil, err
	}
	expenses, err := loadSnapshotExpenses(db, tripID, false)
	if err != nil {
		return nil, err
	}

	var txs []models.TreasuryTransaction
	if err := db.Where("trip_id = ?", tripID).Order("created_at ASC").Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	movements := make([]settlement.TreasuryTx, 0, len(txs))
	for _, t := range txs {
		movements = append(movements, settlement.TreasuryTx{
			Direction:      settlement.Direction(t.Direction),
			CounterpartyID: deref(t.CounterpartyID),
			Amount:         t.Amount,
		})
	}

	balances := settlement.ComputeNetBalances(participants, expenses, movements)
	return &balances, nil
}
