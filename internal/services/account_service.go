package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/notify"
	"tripledger/internal/policy"
)

// accountService handles participant payout accounts and the trip's fund account.
type accountService struct {
	db  *gorm.DB
	bus notify.Publisher
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, bus notify.Publisher) AccountServicer {
	return &accountService{db: db, bus: bus}
}

func validateBankAccount(entity string, in BankAccountInput) error {
	if strings.TrimSpace(in.BankName) == "" ||
		strings.TrimSpace(in.AccountNumber) == "" ||
		strings.TrimSpace(in.AccountHolder) == "" {
		return apperrors.Validation(entity, "bank_details_required",
			"Bank name, account number and account holder are required")
	}
	return nil
}

// UpsertParticipantAccount creates or replaces a participant's payout
// account and marks the participant as having one.
func (s *accountService) UpsertParticipantAccount(ctx context.Context, sess Session, tripID, participantID string, in BankAccountInput) (*models.ParticipantAccount, error) {
	if err := validateBankAccount("participant_account", in); err != nil {
		return nil, err
	}

	var account models.ParticipantAccount
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		p, err := findParticipant(tx, tripID, participantID)
		if err != nil {
			return err
		}
		if err := policy.CanUpsertAccount(actor, p.UserID); err != nil {
			return err
		}

		err = tx.Where("participant_id = ?", p.ID).First(&account).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		account.ParticipantID = p.ID
		account.BankName = strings.TrimSpace(in.BankName)
		account.AccountNumber = strings.TrimSpace(in.AccountNumber)
		account.AccountHolder = strings.TrimSpace(in.AccountHolder)
		account.IsPublic = in.IsPublic
		if err := tx.Save(&account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(p).Update("has_account", true).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableParticipantAccounts, account.ID, models.AuditUpdate)
	publish(ctx, s.bus, tripID, notify.TableParticipants, participantID, models.AuditUpdate)
	return &account, nil
}

// ListParticipantAccounts returns the accounts the caller may see.
func (s *accountService) ListParticipantAccounts(ctx context.Context, sess Session, tripID string) ([]models.ParticipantAccount, error) {
	db := s.db.WithContext(ctx)
	actor, err := readableActor(db, sess, tripID)
	if err != nil {
		return nil, err
	}

	var accounts []models.ParticipantAccount
	if err := db.Where("participant_id IN (?)",
		db.Model(&models.Participant{}).Select("id").Where("trip_id = ?", tripID)).
		Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	visible := make([]models.ParticipantAccount, 0, len(accounts))
	for _, a := range accounts {
		if policy.CanViewAccount(actor, a.IsPublic, a.ParticipantID) {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

// UpsertTreasuryAccount creates or replaces the trip's fund account.
func (s *accountService) UpsertTreasuryAccount(ctx context.Context, sess Session, tripID string, in BankAccountInput) (*models.TripTreasuryAccount, error) {
	if err := validateBankAccount("trip_treasury_account", in); err != nil {
		return nil, err
	}

	var account models.TripTreasuryAccount
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := resolveActor(tx, sess, tripID)
		if err != nil {
			return err
		}
		if err := policy.RequireTreasurer(actor, "trip_treasury_account"); err != nil {
			return err
		}

		err = tx.Where("trip_id = ?", tripID).First(&account).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		account.TripID = tripID
		account.TreasurerID = strPtr(actor.ParticipantID)
		account.BankName = strings.TrimSpace(in.BankName)
		account.AccountNumber = strings.TrimSpace(in.AccountNumber)
		account.AccountHolder = strings.TrimSpace(in.AccountHolder)
		account.Memo = strings.TrimSpace(in.Memo)
		if err := tx.Save(&account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, tripID, notify.TableTreasuryAccounts, account.ID, models.AuditUpdate)
	return &account, nil
}

// GetTreasuryAccount returns the trip's fund account.
func (s *accountService) GetTreasuryAccount(ctx context.Context, sess Session, tripID string) (*models.TripTreasuryAccount, error) {
	db := s.db.WithContext(ctx)
	if _, err := readableActor(db, sess, tripID); err != nil {
		return nil, err
	}

	var account models.TripTreasuryAccount
	if err := db.Where("trip_id = ?", tripID).First(&account).Error; err != nil {
		return nil, mapFind(err, apperrors.ErrTreasuryAccountNotFound)
	}
	return &account, nil
}
