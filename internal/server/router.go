// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"tripledger/internal/handlers"
	"tripledger/internal/metrics"
	"tripledger/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "tripledger/internal/docs" // Import swagger docs
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Trip        *handlers.TripHandler
	Participant *handlers.ParticipantHandler
	Account     *handlers.AccountHandler
	Expense     *handlers.ExpenseHandler
	Treasury    *handlers.TreasuryHandler
	Dues        *handlers.DuesHandler
	Settlement  *handlers.SettlementHandler
	Change      *handlers.ChangeHandler
	Blob        *handlers.BlobHandler
}

// Options configures the router.
type Options struct {
	// Metrics is optional; /metrics is only mounted when it is set.
	Metrics       *metrics.Metrics
	MetricsAPIKey string
	// Swagger mounts the API documentation under /swagger.
	Swagger bool
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
	}
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.Metrics != nil {
		router.GET("/metrics", middleware.ServiceKeyMiddleware(opts.MetricsAPIKey), gin.WrapH(opts.Metrics.Handler()))
	}

	// Signed receipt URLs carry their own token.
	router.GET("/blobs/*path", h.Blob.ServeBlob)

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", h.Auth.GetProfile)

	// Trip routes
	trips := protected.Group("/trips")
	trips.POST("", h.Trip.CreateTrip)
	trips.GET("", h.Trip.GetTrips)

	trip := trips.Group("/:tripID")
	trip.GET("", h.Trip.GetTrip)
	trip.PUT("", h.Trip.RenameTrip)
	trip.DELETE("", h.Trip.DeleteTrip)
	trip.GET("/changes", h.Change.StreamChanges)
	trip.GET("/settlements", h.Settlement.GetSettlements)
	trip.GET("/balances", h.Settlement.GetNetBalances)

	// Participant routes
	participants := trip.Group("/participants")
	participants.GET("", h.Participant.GetParticipants)
	participants.POST("", h.Participant.AddParticipant)
	participants.POST("/claim", h.Participant.ClaimParticipant)
	participants.PUT("/:id", h.Participant.RenameParticipant)
	participants.DELETE("/:id", h.Participant.RemoveParticipant)
	participants.PUT("/:id/treasurer", h.Participant.SetTreasurer)
	participants.PUT("/:id/account", h.Account.UpsertParticipantAccount)

	// Bank account routes
	trip.GET("/accounts", h.Account.GetParticipantAccounts)
	trip.GET("/treasury-account", h.Account.GetTreasuryAccount)
	trip.PUT("/treasury-account", h.Account.UpsertTreasuryAccount)

	// Expense routes
	expenses := trip.Group("/expenses")
	expenses.POST("", h.Expense.CreateExpense)
	expenses.GET("", h.Expense.GetExpenses)
	expenses.GET("/:id", h.Expense.GetExpense)
	expenses.PUT("/:id", h.Expense.UpdateExpense)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)
	expenses.PUT("/:id/participants", h.Expense.UpdateExpenseParticipants)
	expenses.POST("/:id/restore", h.Expense.RestoreExpense)
	expenses.DELETE("/:id/permanent", h.Expense.HardDeleteExpense)
	expenses.POST("/:id/settle", h.Expense.SettleExpense)
	expenses.DELETE("/:id/settle", h.Expense.UnsettleExpense)
	expenses.POST("/:id/images", h.Expense.AddExpenseImage)
	expenses.DELETE("/:id/images/:imageID", h.Expense.RemoveExpenseImage)
	expenses.GET("/:id/history", h.Expense.GetExpenseHistory)

	// Treasury routes
	treasury := trip.Group("/treasury")
	treasury.POST("", h.Treasury.RecordTransaction)
	treasury.GET("", h.Treasury.GetTransactions)
	treasury.POST("/dues-payments", h.Treasury.RecordDuesPayments)
	treasury.GET("/summary", h.Treasury.GetSummary)
	treasury.DELETE("/:id", h.Treasury.DeleteTransaction)
	treasury.POST("/:id/restore", h.Treasury.RestoreTransaction)
	treasury.DELETE("/:id/permanent", h.Treasury.HardDeleteTransaction)
	treasury.GET("/:id/history", h.Treasury.GetTransactionHistory)

	// Dues routes
	dues := trip.Group("/dues")
	dues.POST("", h.Dues.CreateGoal)
	dues.GET("", h.Dues.GetGoals)
	dues.GET("/:id/progress", h.Dues.GetProgress)
	dues.DELETE("/:id", h.Dues.DeleteGoal)
	dues.POST("/:id/restore", h.Dues.RestoreGoal)
	dues.DELETE("/:id/permanent", h.Dues.HardDeleteGoal)
	dues.GET("/:id/history", h.Dues.GetGoalHistory)

	return router
}
