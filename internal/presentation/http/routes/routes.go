package routes

import (
	"time"

	"github.com/erpdesk/erpdesk-api/internal/config"
	"github.com/erpdesk/erpdesk-api/internal/domain/enum"
	domainRepo "github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/handler"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/middleware"
	"github.com/erpdesk/erpdesk-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Supplier  *handler.SupplierHandler
	Customer  *handler.CustomerHandler
	Item      *handler.ItemHandler
	Purchase  *handler.PurchaseHandler
	Sale      *handler.SaleHandler
	Inventory *handler.InventoryHandler
	Finance   *handler.FinanceHandler
	Dashboard *handler.DashboardHandler
	Backup    *handler.BackupHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
}

// NewRateLimiter builds the API rate limiter from config
func NewRateLimiter(cfg *config.RateLimitConfig) *middleware.RateLimiter {
	rlCfg := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rlCfg.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rlCfg.BurstSize = cfg.Requests
	}
	rlCfg.CleanupInterval = 5 * time.Minute
	rlCfg.EntryTTL = 10 * time.Minute
	return middleware.NewRateLimiter(rlCfg)
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	handler.UseJSONFieldNames()

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = NewRateLimiter(&deps.Cfg.RateLimit)
	}

	v1 := router.Group("/api/v1")
	{
		// Public routes share the limiter keyed by client IP.
		public := v1.Group("")
		public.Use(rateLimiter.Middleware())
		registerAuthRoutes(public, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	adminOnly := middleware.RequireRole(enum.RoleAdmin)
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.Profile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	protected.GET("/dashboard", h.Dashboard.Show)

	suppliers := protected.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", adminOnly, h.Supplier.Delete)
	}

	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", adminOnly, h.Customer.Delete)
	}

	items := protected.Group("/items")
	{
		items.GET("", h.Item.List)
		items.POST("", h.Item.Create)
		items.GET("/categories", h.Item.Categories)
		items.GET("/:id", h.Item.Get)
		items.PUT("/:id", h.Item.Update)
		items.DELETE("/:id", adminOnly, h.Item.Delete)
	}

	purchases := protected.Group("/purchases")
	{
		purchases.GET("", h.Purchase.List)
		purchases.POST("", idempotent, h.Purchase.Create)
		purchases.GET("/stats", h.Purchase.Stats)
		purchases.GET("/:id", h.Purchase.Get)
		purchases.PUT("/:id", h.Purchase.Update)
		purchases.DELETE("/:id", adminOnly, h.Purchase.Delete)
	}

	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", idempotent, h.Sale.Create)
		sales.GET("/stats", h.Sale.Stats)
		sales.GET("/:id", h.Sale.Get)
		sales.PUT("/:id", h.Sale.Update)
		sales.DELETE("/:id", adminOnly, h.Sale.Delete)
	}

	inventory := protected.Group("/inventory")
	{
		inventory.GET("", h.Inventory.List)
		inventory.GET("/summary", h.Inventory.Summary)
		inventory.GET("/low-stock", h.Inventory.LowStock)
		inventory.GET("/out-of-stock", h.Inventory.OutOfStock)
		inventory.GET("/:id", h.Inventory.Get)
	}

	finance := protected.Group("/finance")
	{
		finance.GET("/totals", h.Finance.Totals)
		finance.GET("/summary", h.Finance.Summary)
		finance.GET("/top-customers", h.Finance.TopCustomers)
		finance.GET("/top-items", h.Finance.TopItems)
		finance.GET("/monthly", h.Finance.Monthly)
	}

	users := protected.Group("/users")
	users.Use(adminOnly)
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}

	backups := protected.Group("/admin/backups")
	backups.Use(adminOnly)
	{
		backups.GET("", h.Backup.List)
		backups.POST("", h.Backup.Create)
	}
}
