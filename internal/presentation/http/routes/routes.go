package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/config"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/internal/presentation/http/handler"
	"github.com/sangkips/tablepos-api/internal/presentation/http/middleware"
	"github.com/sangkips/tablepos-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Roles allowed to delete bills and change store or printer configuration.
var managerRoles = []string{"admin", "manager"}

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Order    *handler.OrderHandler
	Settings *handler.SettingsHandler
	Printer  *handler.PrinterHandler
	Catalog  *handler.CatalogHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
	Log             logrus.FieldLogger
}

// NewRateLimiter builds the per-client limiter from the rate limit config.
func NewRateLimiter(cfg *config.RateLimitConfig) *middleware.ClientRateLimiter {
	rlCfg := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rlCfg.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rlCfg.BurstSize = cfg.Requests
	}
	rlCfg.CleanupInterval = 5 * time.Minute
	rlCfg.EntryTTL = 10 * time.Minute
	return middleware.NewClientRateLimiter(rlCfg)
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		}
		if deps.RateLimiter != nil {
			body["rateLimiter"] = deps.RateLimiter.Stats()
		}
		c.JSON(200, body)
	})

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerOrderRoutes(protected, h, deps)
		registerSettingsRoutes(protected, h)
		registerPrinterRoutes(protected, h)
		registerCatalogRoutes(protected, h)
	}

	return router
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := protected.Group("/order")
	{
		orders.GET("", h.Order.List)
		// A retried create must never decrement stock twice
		orders.POST("/create", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}), h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.GET("/:id/history", h.Order.History)
		orders.PUT("/:id/complete", h.Order.Complete)
		orders.PUT("/:id/update", h.Order.UpdateBill)
		orders.POST("/:id/kot", h.Order.PrintKOT)
		orders.DELETE("/:id/delete", middleware.RequireRole(managerRoles...), h.Order.Delete)
	}
}

func registerSettingsRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", middleware.RequireRole(managerRoles...), h.Settings.UpdateSettings)
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/config", h.Printer.GetConfig)
		printerGroup.PUT("/config", middleware.RequireRole(managerRoles...), h.Printer.UpdateConfig)
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.GET("/jobs", h.Printer.ListJobs)
		printerGroup.POST("/jobs/:id/retry", h.Printer.RetryJob)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/products", h.Catalog.ListProducts)
	protected.GET("/kitchens", h.Catalog.ListKitchens)
	protected.GET("/tables", h.Catalog.ListTables)
}
