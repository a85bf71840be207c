package router

import (
	"time"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/config"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/handler"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/middleware"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/repository"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/service"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/worker"

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
	productRepo := repository.NewProductRepository(db)
	compositionRepo := repository.NewCompositionRepository(db)
	ledgerRepo := repository.NewStockLedgerRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)
	lockWait := time.Duration(cfg.LockWaitMS) * time.Millisecond
	cacheTTL := time.Duration(cfg.LineageCacheTTLSecs) * time.Second

	productSvc := service.NewProductService(productRepo, compositionRepo, ledgerRepo)
	compositionSvc := service.NewCompositionService(productRepo, compositionRepo)
	stockSvc := service.NewStockService(productRepo, compositionRepo, ledgerRepo, dispatcher, lockWait)
	lineageSvc := service.NewLineageService(productRepo, rdb, cacheTTL)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(productSvc)
	kitsH := handler.NewKitsHandler(compositionSvc, stockSvc)
	stockH := handler.NewStockHandler(stockSvc)
	lineageH := handler.NewLineageHandler(lineageSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.GetByID)
			products.DELETE("/:id", productsH.Deactivate)
			products.PATCH("/:id/reactivate", productsH.Reactivate)
			products.PATCH("/:id/stock-mode", productsH.SetStockMode)
		}

		kits := v1.Group("/kits")
		{
			kits.POST("/:id/components", kitsH.AddComponent)
			kits.DELETE("/:id/components/:component_id", kitsH.RemoveComponent)
			kits.GET("/:id/components", kitsH.GetComposition)
			kits.GET("/:id/validate", kitsH.ValidateKit)
			kits.GET("/:id/availability", kitsH.Availability)
			kits.POST("/:id/assemble", kitsH.Assemble)
			kits.POST("/:id/disassemble", kitsH.Disassemble)
		}

		stock := v1.Group("/stock")
		{
			stock.PATCH("/:id/adjust", stockH.Adjust)
			stock.GET("/movements", stockH.ListMovements)
			stock.GET("/alerts", stockH.Alerts)
		}

		lineage := v1.Group("/lineage")
		{
			lineage.POST("", lineageH.LinkPredecessor)
			lineage.GET("/:id", lineageH.GetLineage)
		}
	}

	return r
}
