package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tripledger/internal/config"
	apperrors "tripledger/internal/errors"
	"tripledger/internal/middleware"
	"tripledger/internal/models"
	"tripledger/internal/validator"
)

const (
	testUserID    = "01930000-0000-7000-8000-000000000001"
	testTripID    = "01930000-0000-7000-8000-0000000000a1"
	testEntityID  = "01930000-0000-7000-8000-0000000000b1"
	testEntityID2 = "01930000-0000-7000-8000-0000000000b2"
)

// --- mock services ---

type mockUserService struct {
	registerFn     func(ctx context.Context, email, password, displayName string) (*models.User, error)
	attemptLoginFn func(ctx context.Context, email, password string) (*models.User, error)
	getUserByIDFn  func(ctx context.Context, id string) (*models.User, error)
}

func (m *mockUserService) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, email, password, displayName)
	}
	return &models.User{}, nil
}

func (m *mockUserService) AttemptLogin(ctx context.Context, email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(ctx, email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(ctx, id)
	}
	return &models.User{}, nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	config.Set(&config.Config{JWTSecret: "handler-test-secret", JWTExpirationDur: time.Hour})
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.GET("/profile", injectSession(testUserID, false), handler.GetProfile)
	return r
}

func injectSession(userID string, isAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextIsAdmin, isAdmin)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertErrorRule(t *testing.T, result map[string]interface{}, kind, rule string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["kind"] != kind || errObj["rule"] != rule {
		t.Errorf("expected %s/%s, got %v/%v", kind, rule, errObj["kind"], errObj["rule"])
	}
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with a token", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(_ context.Context, email, _, displayName string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: testUserID}, Email: email, DisplayName: displayName, Role: models.RoleMember}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, http.MethodPost, "/auth/register",
			`{"email":"ana@example.com","password":"password123","display_name":"Ana"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		token, _ := result["token"].(string)
		if token == "" {
			t.Fatal("expected non-empty token")
		}
		claims, err := middleware.ParseToken(token)
		if err != nil {
			t.Fatalf("token does not verify: %v", err)
		}
		if claims.UserID != testUserID {
			t.Errorf("expected subject %s, got %s", testUserID, claims.UserID)
		}
		user := result["user"].(map[string]interface{})
		if user["display_name"] != "Ana" || user["role"] != models.RoleMember {
			t.Errorf("unexpected user %v", user)
		}
	})

	t.Run("returns 400 for invalid payloads", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))
		for _, body := range []string{
			`{"email":"not-an-email","password":"password123"}`,
			`{"email":"ana@example.com","password":"short"}`,
			`{"password":"password123"}`,
			`not json`,
		} {
			rec := doRequest(r, http.MethodPost, "/auth/register", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("body %s: expected 400, got %d", body, rec.Code)
				continue
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		}
	})

	t.Run("returns 409 for a taken email", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(context.Context, string, string, string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, http.MethodPost, "/auth/register", `{"email":"ana@example.com","password":"password123"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "DUPLICATE_EMAIL")
		assertErrorRule(t, result, "conflict", "email_unique")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with a token", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(_ context.Context, email, password string) (*models.User, error) {
				if email != "ana@example.com" || password != "password123" {
					t.Errorf("unexpected credentials %s/%s", email, password)
				}
				return &models.User{Base: models.Base{ID: testUserID}, Email: email, Role: models.RoleAdmin}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"password123"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		claims, err := middleware.ParseToken(parseJSON(t, rec)["token"].(string))
		if err != nil {
			t.Fatalf("token does not verify: %v", err)
		}
		if claims.Role != models.RoleAdmin {
			t.Errorf("expected admin role claim, got %s", claims.Role)
		}
	})

	t.Run("returns 401 for bad credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(context.Context, string, string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	t.Run("returns the session user", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(_ context.Context, id string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: id}, Email: "ana@example.com"}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, http.MethodGet, "/profile", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["id"] != testUserID {
			t.Errorf("expected id %s, got %v", testUserID, user["id"])
		}
	})

	t.Run("returns 401 without a session", func(t *testing.T) {
		r := gin.New()
		r.GET("/profile", NewAuthHandler(&mockUserService{}).GetProfile)

		rec := doRequest(r, http.MethodGet, "/profile", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})
}
