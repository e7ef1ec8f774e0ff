package handler

import (
	"galactic-bank-api/internal/adapter/http/middleware"
	redisStore "galactic-bank-api/internal/adapter/storage/redis"
	"galactic-bank-api/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	TransactionSvc ports.TransactionService
	AccountSvc     ports.AccountService
	APIKeySvc      ports.APIKeyService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	keyHandler := NewAPIKeyHandler(deps.APIKeySvc)
	v1.POST("/keys", rl("keys"), keyHandler.Issue)

	// --- API-key-authenticated routes ---
	auth := middleware.APIKeyAuth(deps.APIKeySvc, deps.Logger)

	accountHandler := NewAccountHandler(deps.AccountSvc)
	accounts := v1.Group("/accounts", auth)
	{
		accounts.POST("", rl("accounts"), accountHandler.Create)
		accounts.GET("", rl("reads"), accountHandler.List)
		accounts.GET("/:id", rl("reads"), accountHandler.Get)
		accounts.DELETE("/:id", rl("accounts"), accountHandler.Delete)
	}

	txHandler := NewTransactionHandler(deps.TransactionSvc)
	transactions := v1.Group("/transactions", auth)
	{
		transactions.POST("", rl("transactions"), txHandler.Process)
		transactions.GET("", rl("reads"), txHandler.List)
		transactions.GET("/:id", rl("reads"), txHandler.Get)
	}

	return r
}
