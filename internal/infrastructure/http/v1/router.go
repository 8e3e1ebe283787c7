// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	appctx "rxledger/internal/core/context"
	"rxledger/internal/core/security"
	"rxledger/internal/domain/audit"
	"rxledger/internal/domain/catalogs/product"
	"rxledger/internal/domain/documents/invoice"
	"rxledger/internal/domain/documents/refund"
	"rxledger/internal/domain/registers/stock"
	"rxledger/internal/domain/reports"
	"rxledger/internal/infrastructure/http/v1/handlers"
	"rxledger/internal/infrastructure/http/v1/middleware"
	"rxledger/internal/infrastructure/storage/postgres"
	"rxledger/internal/infrastructure/storage/postgres/catalog_repo"
	"rxledger/internal/infrastructure/storage/postgres/document_repo"
	"rxledger/internal/infrastructure/storage/postgres/register_repo"
	"rxledger/internal/infrastructure/storage/postgres/report_repo"
	"rxledger/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool.
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// FeatureGate answers subscription feature checks. Nil enables
	// everything.
	FeatureGate security.FeatureGate

	// AuditSink receives audit entries. Nil disables auditing.
	AuditSink audit.Sink
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Shared infrastructure
	txManager := postgres.NewTxManager(cfg.Pool)
	sequencer := postgres.NewSequenceGenerator(txManager)

	// Repositories
	branchRepo := catalog_repo.NewBranchRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	invoiceRepo := document_repo.NewInvoiceRepo(txManager)
	returnRepo := document_repo.NewReturnRepo(txManager)
	stockRepo := register_repo.NewStockRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)

	// Services
	stockService := stock.NewService(stockRepo)
	productService := product.NewService(productRepo, cfg.AuditSink)
	invoiceService := invoice.NewService(invoiceRepo, productRepo, stockService, sequencer, txManager, cfg.AuditSink)
	returnService := refund.NewService(returnRepo, invoiceRepo, stockService, txManager, cfg.AuditSink)
	reportService := reports.NewService(reportRepo, cfg.FeatureGate)

	// Handlers
	base := handlers.NewBaseHandler()
	branchHandler := handlers.NewBranchHandler(base, branchRepo)
	productHandler := handlers.NewProductHandler(base, productService)
	invoiceHandler := handlers.NewInvoiceHandler(base, invoiceService, returnService)
	returnHandler := handlers.NewReturnHandler(base, returnService)
	stockHandler := handlers.NewStockHandler(base, stockService)
	reportsHandler := handlers.NewReportsHandler(base, reportService)

	// API v1 (all endpoints require a valid token)
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Auth(cfg.JWTValidator))
	{
		apiV1.GET("/branches", branchHandler.List)
		apiV1.POST("/branches", middleware.RequireRole(appctx.RoleAdmin), branchHandler.Create)

		// Branch-scoped endpoints: token must grant the branch.
		scoped := apiV1.Group("/branches/:branchId")
		scoped.Use(middleware.BranchAccess())
		{
			scoped.GET("", branchHandler.Get)

			scoped.POST("/invoices", invoiceHandler.Create)
			scoped.GET("/invoices", invoiceHandler.List)
			scoped.GET("/invoices/:invoiceId", invoiceHandler.Get)
			scoped.GET("/invoices/:invoiceId/movements", stockHandler.GetMovements)

			scoped.POST("/invoices/:invoiceId/return", returnHandler.Process)
			scoped.GET("/invoices/:invoiceId/return", returnHandler.GetByInvoice)

			scoped.POST("/products", productHandler.Create)
			scoped.GET("/products", productHandler.List)
			scoped.GET("/products/:productId", productHandler.Get)
			scoped.PUT("/products/:productId", productHandler.Update)
			scoped.DELETE("/products/:productId", productHandler.Archive)
			scoped.GET("/products/:productId/stock", stockHandler.GetOnHand)

			scoped.GET("/reports/summary", reportsHandler.Summary)
			scoped.GET("/reports/advanced", reportsHandler.Advanced)
		}
	}

	return router
}
