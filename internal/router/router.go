package router

import (
	"time"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/config"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/handler"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/middleware"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/repository"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/service"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	r.Use(middleware.RateLimiter(200, time.Minute)) // 200 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	inventoryRepo := repository.NewInventoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	returnRepo := repository.NewReturnRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	inventorySvc := service.NewInventoryService(inventoryRepo, productRepo, storeRepo, settingsRepo, rdb, dispatcher, cfg.SummaryCacheTTLSeconds)
	saleSvc := service.NewSaleService(saleRepo, inventorySvc, inventoryRepo, productRepo, customerRepo, settingsRepo, storeRepo)
	returnSvc := service.NewReturnService(returnRepo, saleRepo, inventorySvc, inventoryRepo, customerRepo, settingsRepo)
	transferSvc := service.NewTransferService(inventoryRepo, storeRepo, inventorySvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(db, rdb)
	inventoryH := handler.NewInventoryHandler(inventorySvc, transferSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	returnsH := handler.NewReturnsHandler(returnSvc)
	settingsH := handler.NewSettingsHandler(storeRepo, settingsRepo)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", healthH.Check)

	v1 := r.Group("/v1")
	{
		inv := v1.Group("/inventory")
		{
			inv.POST("", inventoryH.Create)
			inv.GET("", inventoryH.List)
			inv.GET("/summary", inventoryH.Summary)
			inv.GET("/bulk-data", inventoryH.BulkData)
			inv.GET("/alerts", inventoryH.LowStockAlerts)
			inv.GET("/movements", inventoryH.Movements)
			inv.GET("/available-products", inventoryH.AvailableProducts)
			inv.POST("/adjust-stock", inventoryH.AdjustStock)
			inv.POST("/stock-take", inventoryH.StockTake)
			inv.POST("/transfer", inventoryH.Transfer)
			inv.GET("/:id", inventoryH.Get)
			inv.DELETE("/:id", inventoryH.Delete)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/stats", salesH.Stats)
			sales.GET("/reports/daily", salesH.DailyReport)
			sales.GET("/payment-methods", settingsH.ListPaymentMethods)
			sales.GET("/:id", salesH.Get)
			sales.POST("/:id/void", salesH.Void)
		}

		v1.GET("/stores", settingsH.ListStores)

		returns := v1.Group("/returns")
		{
			returns.POST("", returnsH.Create)
			returns.GET("", returnsH.List)
			returns.GET("/stats", returnsH.Stats)
			returns.GET("/sales/returnable", returnsH.Returnable)
			returns.GET("/:id", returnsH.Get)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
