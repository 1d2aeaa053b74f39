package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/models"
	"tripledger/internal/pagination"
	"tripledger/internal/services"
)

// --- mock services ---

type mockExpenseService struct {
	createExpenseFn      func(ctx context.Context, s services.Session, tripID string, in services.ExpenseInput) (*models.Expense, error)
	getExpenseFn         func(ctx context.Context, s services.Session, tripID, expenseID string) (*models.Expense, error)
	listExpensesFn       func(ctx context.Context, s services.Session, tripID string, req pagination.ListRequest) (*pagination.PageResponse[models.Expense], error)
	updateExpenseFn      func(ctx context.Context, s services.Session, tripID, expenseID string, upd services.ExpenseUpdate) (*models.Expense, error)
	updateParticipantsFn func(ctx context.Context, s services.Session, tripID, expenseID string, participantIDs []string, expectedRevision *int64) (*models.Expense, error)
	deleteExpenseFn      func(ctx context.Context, s services.Session, tripID, expenseID string) error
	restoreExpenseFn     func(ctx context.Context, s services.Session, tripID, expenseID string) (*models.Expense, error)
	hardDeleteExpenseFn  func(ctx context.Context, s services.Session, tripID, expenseID string) error
	settleExpenseFn      func(ctx context.Context, s services.Session, tripID, expenseID string, recordPayout bool) (*models.Expense, error)
	unsettleExpenseFn    func(ctx context.Context, s services.Session, tripID, expenseID string) (*models.Expense, error)
	addExpenseImageFn    func(ctx context.Context, s services.Session, tripID, expenseID string, upload services.ImageUpload) (*models.ExpenseImage, error)
	removeExpenseImageFn func(ctx context.Context, s services.Session, tripID, expenseID, imageID string) error
}

func (m *mockExpenseService) CreateExpense(ctx context.Context, s services.Session, tripID string, in services.ExpenseInput) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(ctx, s, tripID, in)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetExpense(ctx context.Context, s services.Session, tripID, expenseID string) (*models.Expense, error) {
	if m.getExpenseFn != nil {
		return m.getExpenseFn(ctx, s, tripID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) ListExpenses(ctx context.Context, s services.Session, tripID string, req pagination.ListRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.listExpensesFn != nil {
		return m.listExpensesFn(ctx, s, tripID, req)
	}
	result := pagination.NewPageResponse[models.Expense](nil, 1, 20, 0)
	return &result, nil
}

func (m *mockExpenseService) UpdateExpense(ctx context.Context, s services.Session, tripID, expenseID string, upd services.ExpenseUpdate) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(ctx, s, tripID, expenseID, upd)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpenseParticipants(ctx context.Context, s services.Session, tripID, expenseID string, participantIDs []string, expectedRevision *int64) (*models.Expense, error) {
	if m.updateParticipantsFn != nil {
		return m.updateParticipantsFn(ctx, s, tripID, expenseID, participantIDs, expectedRevision)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(ctx context.Context, s services.Session, tripID, expenseID string) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(ctx, s, tripID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) RestoreExpense(ctx context.Context, s services.Session, tripID, expenseID string) (*models.Expense, error) {
	if m.restoreExpenseFn != nil {
		return m.restoreExpenseFn(ctx, s, tripID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) HardDeleteExpense(ctx context.Context, s services.Session, tripID, expenseID string) error {
	if m.hardDeleteExpenseFn != nil {
		return m.hardDeleteExpenseFn(ctx, s, tripID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) SettleExpense(ctx context.Context, s services.Session, tripID, expenseID string, recordPayout bool) (*models.Expense, error) {
	if m.settleExpenseFn != nil {
		return m.settleExpenseFn(ctx, s, tripID, expenseID, recordPayout)
	}
	return &models.Expense{IsSettled: true}, nil
}

func (m *mockExpenseService) UnsettleExpense(ctx context.Context, s services.Session, tripID, expenseID string) (*models.Expense, error) {
	if m.unsettleExpenseFn != nil {
		return m.unsettleExpenseFn(ctx, s, tripID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) AddExpenseImage(ctx context.Context, s services.Session, tripID, expenseID string, upload services.ImageUpload) (*models.ExpenseImage, error) {
	if m.addExpenseImageFn != nil {
		return m.addExpenseImageFn(ctx, s, tripID, expenseID, upload)
	}
	return &models.ExpenseImage{}, nil
}

func (m *mockExpenseService) RemoveExpenseImage(ctx context.Context, s services.Session, tripID, expenseID, imageID string) error {
	if m.removeExpenseImageFn != nil {
		return m.removeExpenseImageFn(ctx, s, tripID, expenseID, imageID)
	}
	return nil
}

type mockAuditService struct {
	historyFn func(ctx context.Context, s services.Session, tripID, entityType, entityID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}

func (m *mockAuditService) Record(_ *gorm.DB, _ services.AuditRecord) error { return nil }

func (m *mockAuditService) History(ctx context.Context, s services.Session, tripID, entityType, entityID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, s, tripID, entityType, entityID, page)
	}
	result := pagination.NewPageResponse[models.AuditLog](nil, 1, 20, 0)
	return &result, nil
}

// --- helpers ---

const expensesPath = "/trips/" + testTripID + "/expenses"

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/trips/:tripID/expenses", injectSession(testUserID, false))
	g.GET("", handler.GetExpenses)
	g.POST("", handler.CreateExpense)
	g.GET("/:id", handler.GetExpense)
	g.PUT("/:id", handler.UpdateExpense)
	g.DELETE("/:id", handler.DeleteExpense)
	g.PUT("/:id/participants", handler.UpdateExpenseParticipants)
	g.POST("/:id/restore", handler.RestoreExpense)
	g.DELETE("/:id/permanent", handler.HardDeleteExpense)
	g.POST("/:id/settle", handler.SettleExpense)
	g.DELETE("/:id/settle", handler.UnsettleExpense)
	g.POST("/:id/images", handler.AddExpenseImage)
	g.DELETE("/:id/images/:imageID", handler.RemoveExpenseImage)
	g.GET("/:id/history", handler.GetExpenseHistory)
	return r
}

func multipartImage(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="receipt.png"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return body, w.FormDataContentType()
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// --- tests ---

func TestExpenseHandler_Create(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(_ context.Context, _ services.Session, _ string, in services.ExpenseInput) (*models.Expense, error) {
				if in.Amount != 9000 || len(in.ParticipantIDs) != 2 {
					t.Errorf("unexpected input %+v", in)
				}
				return &models.Expense{PayerID: in.PayerID, Amount: in.Amount, ParticipantIDs: in.ParticipantIDs, Revision: 1}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, expensesPath,
			`{"payer_id":"`+testEntityID+`","amount":9000,"description":"Dinner","participant_ids":["`+testEntityID+`","`+testEntityID2+`"]}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["revision"] != float64(1) {
			t.Errorf("expected revision 1, got %v", expense["revision"])
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"zero amount", `{"payer_id":"` + testEntityID + `","amount":0,"participant_ids":["` + testEntityID + `"]}`},
		{"negative amount", `{"payer_id":"` + testEntityID + `","amount":-5,"participant_ids":["` + testEntityID + `"]}`},
		{"empty share set", `{"payer_id":"` + testEntityID + `","amount":100,"participant_ids":[]}`},
		{"bad participant id", `{"payer_id":"` + testEntityID + `","amount":100,"participant_ids":["nope"]}`},
		{"missing payer", `{"amount":100,"participant_ids":["` + testEntityID + `"]}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 for "+tt.name, func(t *testing.T) {
			r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))
			rec := doRequest(r, http.MethodPost, expensesPath, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestExpenseHandler_List(t *testing.T) {
	svc := &mockExpenseService{
		listExpensesFn: func(_ context.Context, _ services.Session, _ string, req pagination.ListRequest) (*pagination.PageResponse[models.Expense], error) {
			if !req.IncludeDeleted {
				t.Error("expected include_deleted to be passed")
			}
			result := pagination.NewPageResponse([]models.Expense{{Amount: 1}}, 1, 20, 1)
			return &result, nil
		},
	}
	r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, expensesPath+"?include_deleted=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := len(parseJSON(t, rec)["data"].([]interface{})); got != 1 {
		t.Errorf("expected 1 expense, got %d", got)
	}
}

func TestExpenseHandler_Update(t *testing.T) {
	t.Run("passes only the sent fields", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(_ context.Context, _ services.Session, _, _ string, upd services.ExpenseUpdate) (*models.Expense, error) {
				if upd.PayerID != nil || upd.Description != nil {
					t.Errorf("expected only amount, got %+v", upd)
				}
				if upd.Amount == nil || *upd.Amount != 500 {
					t.Errorf("expected amount 500")
				}
				if upd.ExpectedRevision == nil || *upd.ExpectedRevision != 3 {
					t.Errorf("expected revision 3")
				}
				return &models.Expense{Amount: 500, Revision: 4}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, expensesPath+"/"+testEntityID, `{"amount":500,"expected_revision":3}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 409 on a stale revision", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(context.Context, services.Session, string, string, services.ExpenseUpdate) (*models.Expense, error) {
				return nil, apperrors.ErrRevisionMismatch
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, expensesPath+"/"+testEntityID, `{"amount":500,"expected_revision":1}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "REVISION_MISMATCH")
		assertErrorRule(t, result, "conflict", "revision_mismatch")
	})

	t.Run("replaces participants", func(t *testing.T) {
		svc := &mockExpenseService{
			updateParticipantsFn: func(_ context.Context, _ services.Session, _, _ string, ids []string, rev *int64) (*models.Expense, error) {
				if len(ids) != 1 || rev != nil {
					t.Errorf("unexpected call %v %v", ids, rev)
				}
				return &models.Expense{ParticipantIDs: ids}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, expensesPath+"/"+testEntityID+"/participants", `{"participant_ids":["`+testEntityID2+`"]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_Lifecycle(t *testing.T) {
	var calls []string
	svc := &mockExpenseService{
		deleteExpenseFn: func(context.Context, services.Session, string, string) error {
			calls = append(calls, "delete")
			return nil
		},
		restoreExpenseFn: func(context.Context, services.Session, string, string) (*models.Expense, error) {
			calls = append(calls, "restore")
			return nil, apperrors.Validation("expense", "participant_removed", "A participant of this expense was removed")
		},
		hardDeleteExpenseFn: func(context.Context, services.Session, string, string) error {
			calls = append(calls, "hard_delete")
			return apperrors.Authorization("expense", "admin_required")
		},
	}
	r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))
	id := expensesPath + "/" + testEntityID

	if rec := doRequest(r, http.MethodDelete, id, ""); rec.Code != http.StatusOK {
		t.Errorf("delete: expected 200, got %d", rec.Code)
	}
	rec := doRequest(r, http.MethodPost, id+"/restore", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("restore: expected 400, got %d", rec.Code)
	}
	assertErrorRule(t, parseJSON(t, rec), "validation", "participant_removed")
	if rec := doRequest(r, http.MethodDelete, id+"/permanent", ""); rec.Code != http.StatusForbidden {
		t.Errorf("permanent: expected 403, got %d", rec.Code)
	}

	if len(calls) != 3 {
		t.Errorf("expected 3 service calls, got %v", calls)
	}
}

func TestExpenseHandler_Settle(t *testing.T) {
	t.Run("defaults to no payout without a body", func(t *testing.T) {
		svc := &mockExpenseService{
			settleExpenseFn: func(_ context.Context, _ services.Session, _, _ string, recordPayout bool) (*models.Expense, error) {
				if recordPayout {
					t.Error("expected no payout")
				}
				return &models.Expense{IsSettled: true}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, expensesPath+"/"+testEntityID+"/settle", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("records the payout when asked", func(t *testing.T) {
		svc := &mockExpenseService{
			settleExpenseFn: func(_ context.Context, _ services.Session, _, _ string, recordPayout bool) (*models.Expense, error) {
				if !recordPayout {
					t.Error("expected payout")
				}
				return &models.Expense{IsSettled: true}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, expensesPath+"/"+testEntityID+"/settle", `{"record_payout":true}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 409 when not settled", func(t *testing.T) {
		svc := &mockExpenseService{
			unsettleExpenseFn: func(context.Context, services.Session, string, string) (*models.Expense, error) {
				return nil, apperrors.Conflict("expense", "not_settled", "Expense is not settled")
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, expensesPath+"/"+testEntityID+"/settle", "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorRule(t, parseJSON(t, rec), "conflict", "not_settled")
	})
}

func TestExpenseHandler_Images(t *testing.T) {
	upload := func(r *gin.Engine, contentType string, data []byte) *httptest.ResponseRecorder {
		body, formType := multipartImage(t, contentType, data)
		req := httptest.NewRequest(http.MethodPost, expensesPath+"/"+testEntityID+"/images", body)
		req.Header.Set("Content-Type", formType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("returns 201 and streams the file", func(t *testing.T) {
		svc := &mockExpenseService{
			addExpenseImageFn: func(_ context.Context, _ services.Session, _, expenseID string, up services.ImageUpload) (*models.ExpenseImage, error) {
				data, err := io.ReadAll(up.Reader)
				if err != nil {
					t.Fatalf("read upload: %v", err)
				}
				if !bytes.Equal(data, pngHeader) || up.MimeType != "image/png" || up.Filename != "receipt.png" {
					t.Errorf("unexpected upload %s %s %d bytes", up.Filename, up.MimeType, len(data))
				}
				return &models.ExpenseImage{ExpenseID: expenseID, MimeType: up.MimeType, URL: "http://blob"}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := upload(r, "image/png", pngHeader)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		img := parseJSON(t, rec)["image"].(map[string]interface{})
		if img["url"] != "http://blob" {
			t.Errorf("expected signed url, got %v", img["url"])
		}
	})

	t.Run("sniffs an undeclared type", func(t *testing.T) {
		svc := &mockExpenseService{
			addExpenseImageFn: func(_ context.Context, _ services.Session, _, _ string, up services.ImageUpload) (*models.ExpenseImage, error) {
				if up.MimeType != "image/png" {
					t.Errorf("expected sniffed image/png, got %s", up.MimeType)
				}
				data, _ := io.ReadAll(up.Reader)
				if !bytes.Equal(data, pngHeader) {
					t.Error("sniffing must not consume the upload")
				}
				return &models.ExpenseImage{}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		if rec := upload(r, "application/octet-stream", pngHeader); rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 for non-images", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{
			addExpenseImageFn: func(context.Context, services.Session, string, string, services.ImageUpload) (*models.ExpenseImage, error) {
				t.Error("service must not be called")
				return nil, nil
			},
		}, &mockAuditService{}))

		rec := upload(r, "application/pdf", []byte("%PDF-1.4"))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorRule(t, parseJSON(t, rec), "validation", "image_mime_invalid")
	})

	t.Run("returns 400 without a file", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))
		rec := doRequest(r, http.MethodPost, expensesPath+"/"+testEntityID+"/images", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("removes an image", func(t *testing.T) {
		var removed string
		svc := &mockExpenseService{
			removeExpenseImageFn: func(_ context.Context, _ services.Session, _, _, imageID string) error {
				removed = imageID
				return nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, expensesPath+"/"+testEntityID+"/images/"+testEntityID2, "")
		if rec.Code != http.StatusOK || removed != testEntityID2 {
			t.Fatalf("expected 200 removing %s, got %d %q", testEntityID2, rec.Code, removed)
		}
	})
}

func TestExpenseHandler_History(t *testing.T) {
	audit := &mockAuditService{
		historyFn: func(_ context.Context, _ services.Session, tripID, entityType, entityID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
			if tripID != testTripID || entityType != models.EntityExpense || entityID != testEntityID {
				t.Errorf("unexpected history query %s %s %s", tripID, entityType, entityID)
			}
			result := pagination.NewPageResponse([]models.AuditLog{
				{Action: models.AuditUpdate}, {Action: models.AuditCreate},
			}, page.Page, 20, 2)
			return &result, nil
		},
	}
	r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, audit))

	rec := doRequest(r, http.MethodGet, expensesPath+"/"+testEntityID+"/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := parseJSON(t, rec)["data"].([]interface{})
	if len(data) != 2 || data[0].(map[string]interface{})["action"] != models.AuditUpdate {
		t.Errorf("unexpected history %v", data)
	}
}
