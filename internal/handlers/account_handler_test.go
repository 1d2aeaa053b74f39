package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/services"
)

// --- mock services ---

type mockAccountService struct {
	upsertParticipantAccountFn func(ctx context.Context, s services.Session, tripID, participantID string, in services.BankAccountInput) (*models.ParticipantAccount, error)
	listParticipantAccountsFn  func(ctx context.Context, s services.Session, tripID string) ([]models.ParticipantAccount, error)
	upsertTreasuryAccountFn    func(ctx context.Context, s services.Session, tripID string, in services.BankAccountInput) (*models.TripTreasuryAccount, error)
	getTreasuryAccountFn       func(ctx context.Context, s services.Session, tripID string) (*models.TripTreasuryAccount, error)
}

func (m *mockAccountService) UpsertParticipantAccount(ctx context.Context, s services.Session, tripID, participantID string, in services.BankAccountInput) (*models.ParticipantAccount, error) {
	if m.upsertParticipantAccountFn != nil {
		return m.upsertParticipantAccountFn(ctx, s, tripID, participantID, in)
	}
	return &models.ParticipantAccount{}, nil
}

func (m *mockAccountService) ListParticipantAccounts(ctx context.Context, s services.Session, tripID string) ([]models.ParticipantAccount, error) {
	if m.listParticipantAccountsFn != nil {
		return m.listParticipantAccountsFn(ctx, s, tripID)
	}
	return []models.ParticipantAccount{}, nil
}

func (m *mockAccountService) UpsertTreasuryAccount(ctx context.Context, s services.Session, tripID string, in services.BankAccountInput) (*models.TripTreasuryAccount, error) {
	if m.upsertTreasuryAccountFn != nil {
		return m.upsertTreasuryAccountFn(ctx, s, tripID, in)
	}
	return &models.TripTreasuryAccount{}, nil
}

func (m *mockAccountService) GetTreasuryAccount(ctx context.Context, s services.Session, tripID string) (*models.TripTreasuryAccount, error) {
	if m.getTreasuryAccountFn != nil {
		return m.getTreasuryAccountFn(ctx, s, tripID)
	}
	return &models.TripTreasuryAccount{}, nil
}

// --- helpers ---

func setupAccountRouter(handler *AccountHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/trips/:tripID", injectSession(testUserID, false))
	g.PUT("/participants/:id/account", handler.UpsertParticipantAccount)
	g.GET("/accounts", handler.GetParticipantAccounts)
	g.GET("/treasury-account", handler.GetTreasuryAccount)
	g.PUT("/treasury-account", handler.UpsertTreasuryAccount)
	return r
}

// --- tests ---

func TestAccountHandler_UpsertParticipantAccount(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockAccountService{
			upsertParticipantAccountFn: func(_ context.Context, _ services.Session, _, participantID string, in services.BankAccountInput) (*models.ParticipantAccount, error) {
				if !in.IsPublic || in.BankName != "Kakao" {
					t.Errorf("unexpected input %+v", in)
				}
				return &models.ParticipantAccount{ParticipantID: participantID, BankName: in.BankName, IsPublic: in.IsPublic}, nil
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc))

		rec := doRequest(r, http.MethodPut, "/trips/"+testTripID+"/participants/"+testEntityID+"/account",
			`{"bank_name":"Kakao","account_number":"3333-01","account_holder":"Ana","is_public":true}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 for missing details", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockAccountService{}))

		rec := doRequest(r, http.MethodPut, "/trips/"+testTripID+"/participants/"+testEntityID+"/account",
			`{"bank_name":"Kakao","account_number":" ","account_holder":"Ana"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 403 for another participant", func(t *testing.T) {
		svc := &mockAccountService{
			upsertParticipantAccountFn: func(context.Context, services.Session, string, string, services.BankAccountInput) (*models.ParticipantAccount, error) {
				return nil, apperrors.Authorization("participant_account", "account_owner_required")
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc))

		rec := doRequest(r, http.MethodPut, "/trips/"+testTripID+"/participants/"+testEntityID+"/account",
			`{"bank_name":"Kakao","account_number":"1","account_holder":"Ana"}`)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_TreasuryAccount(t *testing.T) {
	t.Run("returns 404 before it is set", func(t *testing.T) {
		svc := &mockAccountService{
			getTreasuryAccountFn: func(context.Context, services.Session, string) (*models.TripTreasuryAccount, error) {
				return nil, apperrors.ErrTreasuryAccountNotFound
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc))

		rec := doRequest(r, http.MethodGet, "/trips/"+testTripID+"/treasury-account", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TREASURY_ACCOUNT_NOT_FOUND")
	})

	t.Run("passes the memo", func(t *testing.T) {
		svc := &mockAccountService{
			upsertTreasuryAccountFn: func(_ context.Context, _ services.Session, _ string, in services.BankAccountInput) (*models.TripTreasuryAccount, error) {
				if in.Memo != "Write your name" {
					t.Errorf("unexpected memo %q", in.Memo)
				}
				return &models.TripTreasuryAccount{Memo: in.Memo}, nil
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc))

		rec := doRequest(r, http.MethodPut, "/trips/"+testTripID+"/treasury-account",
			`{"bank_name":"Toss","account_number":"1000","account_holder":"Ben","memo":"Write your name"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("lists visible accounts", func(t *testing.T) {
		svc := &mockAccountService{
			listParticipantAccountsFn: func(context.Context, services.Session, string) ([]models.ParticipantAccount, error) {
				return []models.ParticipantAccount{{BankName: "Kakao"}}, nil
			},
		}
		r := setupAccountRouter(NewAccountHandler(svc))

		rec := doRequest(r, http.MethodGet, "/trips/"+testTripID+"/accounts", "")
		if rec.Code != http.StatusOK || len(parseJSON(t, rec)["accounts"].([]interface{})) != 1 {
			t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
		}
	})
}
