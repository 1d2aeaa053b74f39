package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripledger/internal/blobstore"
	"tripledger/internal/config"
	"tripledger/internal/database"
	"tripledger/internal/handlers"
	"tripledger/internal/logger"
	"tripledger/internal/metrics"
	"tripledger/internal/notify"
	"tripledger/internal/server"
	"tripledger/internal/services"
	"tripledger/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Tripledger API
// @version         1.0
// @description     Tripledger records shared trip expenses, runs the trip treasury and computes who owes whom.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	bus := notify.NewBus(logger.Named("notify"))
	appMetrics := metrics.New()
	stopCounting := appMetrics.CountMutations(bus)
	defer stopCounting()

	blobs, err := blobstore.NewFileStore(appConfig.BlobDir, appConfig.PublicBaseURL, appConfig.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db, appConfig.AdminEmails)
	auditService := services.NewAuditService(db)
	tripService := services.NewTripService(db, bus, blobs)
	participantService := services.NewParticipantService(db, bus)
	accountService := services.NewAccountService(db, bus)
	expenseService := services.NewExpenseService(db, auditService, bus, blobs, appConfig.BlobURLTTL)
	treasuryService := services.NewTreasuryService(db, auditService, bus)
	duesService := services.NewDuesService(db, auditService, bus)
	settlementService := services.NewSettlementService(db)

	// Initialize handlers and router
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
	}, server.Options{
		Metrics:       appMetrics,
		MetricsAPIKey: appConfig.MetricsAPIKey,
		Swagger:       appConfig.Env != "production",
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Tripledger server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
