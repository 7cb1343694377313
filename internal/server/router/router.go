package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/server/handlers"
	"github.com/mamadbah2/posadmin/internal/server/middleware"
)

// Handlers groups the HTTP adapters mounted under /api/v1.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Sales       *handlers.SalesHandler
	Purchases   *handlers.PurchasesHandler
	Inventory   *handlers.InventoryHandler
	Products    *handlers.ProductsHandler
	Users       *handlers.UsersHandler
	Statistics  *handlers.StatisticsHandler
	Preferences *handlers.PreferencesHandler
}

// Options holds the cross-cutting pieces of the engine.
type Options struct {
	AllowedOrigins []string
	Authenticator  middleware.Authenticator
	Metrics        *middleware.Metrics
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, opts Options, logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.Auth(opts.Authenticator))
	admin := authed.Group("")
	admin.Use(middleware.RequireAdmin())

	authed.GET("/auth/me", h.Auth.Me)
	authed.POST("/auth/logout", h.Auth.Logout)
	admin.POST("/auth/register", h.Auth.Register)

	sales := authed.Group("/sales")
	sales.GET("", h.Sales.List)
	sales.GET("/pages/:n", h.Sales.Page)
	sales.PUT("/filters", h.Sales.SetFilter)
	sales.DELETE("/filters", h.Sales.ClearFilters)
	sales.GET("/draft", h.Sales.Draft)
	sales.POST("/draft/lines", h.Sales.AddLine)
	sales.DELETE("/draft/lines/:index", h.Sales.RemoveLine)
	sales.PUT("/draft/details", h.Sales.SetDetails)
	sales.DELETE("/draft", h.Sales.ResetDraft)
	sales.POST("", h.Sales.Register)
	sales.PUT("/:id", h.Sales.Update)
	sales.DELETE("/:id", h.Sales.Delete)
	sales.POST("/:id/duplicate", h.Sales.Duplicate)
	sales.POST("/:id/invoice-email", h.Sales.EmailInvoice)

	purchases := authed.Group("/purchases")
	purchases.GET("", h.Purchases.List)
	purchases.GET("/providers", h.Purchases.Providers)
	purchases.GET("/pages/:n", h.Purchases.Page)
	purchases.PUT("/filters", h.Purchases.SetFilter)
	purchases.DELETE("/filters", h.Purchases.ClearFilters)
	purchases.GET("/draft", h.Purchases.Draft)
	purchases.POST("/draft/lines", h.Purchases.AddLine)
	purchases.DELETE("/draft/lines/:index", h.Purchases.RemoveLine)
	purchases.PUT("/draft/provider", h.Purchases.SetProvider)
	purchases.DELETE("/draft", h.Purchases.ResetDraft)
	purchases.POST("", h.Purchases.Register)
	purchases.PUT("/:id", h.Purchases.Update)
	purchases.DELETE("/:id", h.Purchases.Delete)
	purchases.POST("/:id/duplicate", h.Purchases.Duplicate)

	authed.GET("/inventory", h.Inventory.List)
	authed.POST("/inventory", h.Inventory.Register)

	products := authed.Group("/products")
	products.GET("", h.Products.List)
	products.GET("/search", h.Products.Search)
	products.POST("", h.Products.Create)
	products.PUT("/:id", h.Products.Update)
	products.DELETE("/:id", h.Products.Delete)

	admin.GET("/users", h.Users.List)
	admin.PUT("/users/:id/role", h.Users.UpdateRole)

	authed.GET("/statistics/sales", h.Statistics.SalesReport())
	authed.GET("/statistics/purchases", h.Statistics.PurchasesReport())
	authed.GET("/statistics/finance", h.Statistics.FinanceReport())
	authed.GET("/dashboard", h.Statistics.Dashboard)
	authed.GET("/dashboard/history", h.Statistics.DashboardHistory)

	authed.GET("/preferences", h.Preferences.Get)
	authed.PUT("/preferences", h.Preferences.Update)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
