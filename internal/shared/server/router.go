package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-ats-backend/internal/admin"
	"resume-ats-backend/internal/llm/openai"
	"resume-ats-backend/internal/payments"
	"resume-ats-backend/internal/resumes"
	"resume-ats-backend/internal/shared/config"
	"resume-ats-backend/internal/shared/metrics"
	"resume-ats-backend/internal/shared/server/middleware"
	"resume-ats-backend/internal/shared/server/respond"
	"resume-ats-backend/internal/shared/storage/db"
	localstore "resume-ats-backend/internal/shared/storage/object/local"
	"resume-ats-backend/internal/usage"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: "DEFAULT",
			GroupFor: func(c *gin.Context) string {
				if c.FullPath() == "/api/resume/quick-score" {
					return "QUICK"
				}
				return "DEFAULT"
			},
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT": {Rate: 1, Burst: 10},
				"QUICK":   {Rate: 5, Burst: 30},
			},
		}),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabasePath != "" {
		conn, err := db.Connect(context.Background(), cfg.DatabasePath, db.DefaultOptions())
		if err != nil {
			log.Printf("failed to open database, falling back to memory: %v", err)
		} else if err := db.RunMigrations(context.Background(), conn); err != nil {
			log.Printf("failed to run migrations, falling back to memory: %v", err)
			_ = conn.Close()
		} else {
			sqlDB = conn
		}
	}

	var repo resumes.Repo
	var usageSvc *usage.Service
	if sqlDB != nil {
		repo = &resumes.SQLiteRepo{DB: sqlDB}
		usageSvc = usage.NewSQLiteService(usage.NewSQLiteStore(sqlDB, cfg.FreeAnalysisLimit))
	} else {
		repo = resumes.NewMemoryRepo()
		usageSvc = usage.NewService(cfg.FreeAnalysisLimit)
	}

	aiClient := openai.NewClient(openai.Options{
		Provider: cfg.AIProvider,
		APIKey:   cfg.AIAPIKey,
		Model:    cfg.AIModel,
		BaseURL:  cfg.AIBaseURL,
		Timeout:  time.Duration(cfg.AITimeoutSeconds) * time.Second,
	})

	resumeSvc := resumes.NewService(repo, aiClient, usageSvc, cfg.PaymentsEnabled)
	resumeHandler := &resumes.Handler{
		Svc:            resumeSvc,
		Store:          localstore.New(cfg.LocalStoreDir),
		AIConfigured:   aiClient.Configured(),
		AIProvider:     cfg.AIProvider,
		AIModel:        cfg.AIModel,
		ChatEnabled:    cfg.ChatEnabled,
		ImproveEnabled: cfg.ImproveEnabled,
	}
	if sqlDB != nil {
		resumeHandler.DBCheck = sqlDB.PingContext
	}

	adminHandler := &admin.Handler{Svc: resumeSvc, Secret: cfg.AdminSecret}
	payHandler := &payments.Handler{
		PayPal: payments.NewPayPalClient(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalSecret),
		Usage:  usageSvc,
	}

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	resumeHandler.RegisterRoutes(api.Group("/resume"))
	adminHandler.RegisterRoutes(api.Group("/admin"))
	payHandler.RegisterRoutes(api.Group("/pay"))

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
