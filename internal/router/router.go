package router

import (
	"time"

	"github.com/Igordev7/PricetireForce/internal/config"
	"github.com/Igordev7/PricetireForce/internal/handler"
	"github.com/Igordev7/PricetireForce/internal/ingest"
	"github.com/Igordev7/PricetireForce/internal/middleware"
	"github.com/Igordev7/PricetireForce/internal/normalize"
	"github.com/Igordev7/PricetireForce/internal/repository"
	"github.com/Igordev7/PricetireForce/internal/service"
	"github.com/Igordev7/PricetireForce/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewPriceHistoryRepository(db)

	// ── Ingestion pipeline ───────────────────────────────────────────────────
	pipeline := ingest.NewPipeline(
		normalize.New(normalize.DefaultTables()),
		ingest.NewColumnIdentifier(ingest.DefaultHeaderTables()),
		productRepo,
		historyRepo,
		ingest.Config{DefaultCity: cfg.DefaultCity, DefaultRegion: cfg.DefaultRegion},
	)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	importSvc := service.NewImportService(pipeline, dispatcher, cfg.ImportNotifyEmail)
	dashboardSvc := service.NewDashboardService(historyRepo, productRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	uploadH := handler.NewUploadHandler(importSvc, rdb)
	dashboardH := handler.NewDashboardHandler(dashboardSvc, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	r.POST("/refresh", authH.Refresh)

	// Protected
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	protected := r.Group("/", jwtMW)
	{
		protected.POST("/upload", uploadH.Upload)
		protected.GET("/dashboard-data", dashboardH.Data)
		protected.GET("/analytics", dashboardH.Analytics)
	}

	return r
}
