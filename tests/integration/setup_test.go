package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tripledger/internal/blobstore"
	"tripledger/internal/config"
	"tripledger/internal/handlers"
	"tripledger/internal/logger"
	"tripledger/internal/metrics"
	"tripledger/internal/notify"
	"tripledger/internal/server"
	"tripledger/internal/services"
	"tripledger/internal/testutil"
	"tripledger/internal/validator"
)

const (
	adminEmail   = "admin@trip.test"
	testPassword = "password123"
	testSecret   = "integration-secret"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Bus     *notify.Bus
	Metrics *metrics.Metrics
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{
		Env:              "test",
		JWTSecret:        testSecret,
		JWTExpirationDur: time.Hour,
	})
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	blobs, err := blobstore.NewFileStore(t.TempDir(), "http://ledger.test", testSecret)
	if err != nil {
		t.Fatalf("failed to open blob store: %v", err)
	}
	bus := notify.NewBus(logger.Named("notify"))
	appMetrics := metrics.New()
	t.Cleanup(appMetrics.CountMutations(bus))

	// Services
	userService := services.NewUserService(db, []string{adminEmail})
	auditService := services.NewAuditService(db)
	tripService := services.NewTripService(db, bus, blobs)
	participantService := services.NewParticipantService(db, bus)
	accountService := services.NewAccountService(db, bus)
	expenseService := services.NewExpenseService(db, auditService, bus, blobs, time.Minute)
	treasuryService := services.NewTreasuryService(db, auditService, bus)
	duesService := services.NewDuesService(db, auditService, bus)
	settlementService := services.NewSettlementService(db)

	router := server.NewRouter(server.Handlers{
		Auth:        handlers.NewAuthHandler(userService),
		Trip:        handlers.NewTripHandler(tripService),
		Participant: handlers.NewParticipantHandler(participantService),
		Account:     handlers.NewAccountHandler(accountService),
		Expense:     handlers.NewExpenseHandler(expenseService, auditService),
		Treasury:    handlers.NewTreasuryHandler(treasuryService, auditService),
		Dues:        handlers.NewDuesHandler(duesService, auditService),
		Settlement:  handlers.NewSettlementHandler(settlementService),
		Change:      handlers.NewChangeHandler(tripService, bus, appMetrics),
		Blob:        handlers.NewBlobHandler(blobs),
	}, server.Options{Metrics: appMetrics, MetricsAPIKey: "metrics-key"})

	return &testApp{DB: db, Router: router, Bus: bus, Metrics: appMetrics}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// mustStatus fails the test when the response status differs from want.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorOf returns the error object of a failed response.
func errorOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	return errObj
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"display_name":"Test User"}`, email, testPassword)
	rec := app.request(http.MethodPost, "/api/v1/auth/register", body, "")
	mustStatus(t, rec, http.StatusCreated)
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/login", body, "")
	mustStatus(t, rec, http.StatusOK)
	return parseJSON(t, rec)["token"].(string)
}

// tripFixture is a trip created by the admin with Alice as its treasurer.
type tripFixture struct {
	TripID       string
	AdminToken   string
	AliceToken   string
	BobToken     string
	Participants map[string]string // name -> participant id
}

func (f *tripFixture) path(suffix string) string {
	return "/api/v1/trips/" + f.TripID + suffix
}

// setupTrip creates a trip with Alice, Bob and Carol. Alice and Bob claim
// their participants and Alice is made treasurer.
func (app *testApp) setupTrip(t *testing.T) *tripFixture {
	t.Helper()

	adminToken, _ := app.registerUser(t, adminEmail)
	aliceToken, _ := app.registerUser(t, "alice@trip.test")
	bobToken, _ := app.registerUser(t, "bob@trip.test")

	rec := app.request(http.MethodPost, "/api/v1/trips",
		`{"name":"Jeju","participant_names":["Alice","Bob","Carol"]}`, adminToken)
	mustStatus(t, rec, http.StatusCreated)
	trip := parseJSON(t, rec)["trip"].(map[string]interface{})
	f := &tripFixture{
		TripID:       trip["id"].(string),
		AdminToken:   adminToken,
		AliceToken:   aliceToken,
		BobToken:     bobToken,
		Participants: map[string]string{},
	}

	mustStatus(t, app.request(http.MethodPost, f.path("/participants/claim"), `{"name":"alice"}`, aliceToken), http.StatusOK)
	mustStatus(t, app.request(http.MethodPost, f.path("/participants/claim"), `{"name":"Bob"}`, bobToken), http.StatusOK)

	rec = app.request(http.MethodGet, f.path("/participants"), "", adminToken)
	mustStatus(t, rec, http.StatusOK)
	for _, raw := range parseJSON(t, rec)["participants"].([]interface{}) {
		p := raw.(map[string]interface{})
		f.Participants[p["name"].(string)] = p["id"].(string)
	}
	if len(f.Participants) != 3 {
		t.Fatalf("expected 3 participants, got %v", f.Participants)
	}

	rec = app.request(http.MethodPut, f.path("/participants/"+f.Participants["Alice"]+"/treasurer"),
		`{"is_treasurer":true}`, adminToken)
	mustStatus(t, rec, http.StatusOK)

	return f
}
