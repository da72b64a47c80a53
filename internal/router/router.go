package router

import (
	"github.com/NeshaaSoftware/backend/internal/config"
	"github.com/NeshaaSoftware/backend/internal/handler"
	"github.com/NeshaaSoftware/backend/internal/ledger"
	"github.com/NeshaaSoftware/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	svc := ledger.NewService(db)

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)

	accountHandler := handler.NewAccountHandler(db, svc)
	protected.POST("/accounts", accountHandler.CreateAccount)
	protected.GET("/accounts", accountHandler.ListAccounts)
	protected.GET("/accounts/:id", accountHandler.GetAccount)

	registryHandler := handler.NewRegistryHandler(db)
	protected.POST("/commodities", registryHandler.CreateCommodity)
	protected.GET("/commodities", registryHandler.ListCommodities)
	protected.POST("/customers", registryHandler.CreateCustomer)
	protected.GET("/customers", registryHandler.ListCustomers)
	protected.POST("/courses", registryHandler.CreateCourse)
	protected.GET("/courses", registryHandler.ListCourses)
	protected.POST("/registrations", registryHandler.CreateRegistration)
	protected.GET("/registrations/:id", registryHandler.GetRegistration)

	invoiceHandler := handler.NewInvoiceHandler(db, svc)
	protected.POST("/invoices", invoiceHandler.CreateInvoice)
	protected.GET("/invoices", invoiceHandler.ListInvoices)
	protected.GET("/invoices/:id", invoiceHandler.GetInvoice)
	protected.PUT("/invoices/:id", invoiceHandler.UpdateInvoice)
	protected.POST("/invoice-items", invoiceHandler.CreateInvoiceItem)
	protected.PUT("/invoice-items/:id", invoiceHandler.UpdateInvoiceItem)
	protected.DELETE("/invoice-items/:id", invoiceHandler.DeleteInvoiceItem)

	transactionHandler := handler.NewTransactionHandler(db, svc)
	protected.POST("/transactions", transactionHandler.CreateTransaction)
	protected.GET("/transactions", transactionHandler.ListTransactions)
	protected.PUT("/transactions/:id", transactionHandler.UpdateTransaction)
	protected.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

	ctHandler := handler.NewCourseTransactionHandler(db, svc)
	protected.POST("/course-transactions", ctHandler.CreateCourseTransaction)
	protected.GET("/course-transactions", ctHandler.ListCourseTransactions)
	protected.PUT("/course-transactions/:id", ctHandler.UpdateCourseTransaction)
	protected.DELETE("/course-transactions/:id", ctHandler.DeleteCourseTransaction)
	protected.POST("/course-transactions/:id/make-transaction", ctHandler.MakeTransaction)
	protected.GET("/courses/:id/finance", ctHandler.GetCourseFinance)

	importExportHandler := handler.NewImportExportHandler(db, svc)
	protected.POST("/import/course-transactions", importExportHandler.ImportCourseTransactionsXLSX)
	protected.GET("/export/csv", importExportHandler.ExportCSV)
	protected.GET("/export/xlsx", importExportHandler.ExportXLSX)

	auditHandler := handler.NewAuditHandler(db)
	protected.GET("/logs", auditHandler.ListLogs)

	return r
}
