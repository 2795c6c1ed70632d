package http

import (
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-repuestos/internal/application/usecase"
	"github.com/jhoicas/pos-repuestos/internal/infrastructure/spool"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	SupplyUC  *usecase.SupplyUseCase
	SaleUC    *usecase.SaleUseCase
	PartnerUC *usecase.PartnerUseCase
	InvoiceUC *usecase.InvoiceUseCase
	ExpenseUC *usecase.ExpenseUseCase
	ReportUC  *usecase.ReportUseCase
	JWTSecret string
	Log       zerolog.Logger
	// Spool y Replayer son opcionales: sin cola local no se montan las rutas /admin/spool.
	Spool    *spool.Spool
	Replayer *spool.Replayer
}

// AppConfig opciones del servidor fiber.
type AppConfig struct {
	Name        string
	SwaggerFile string // vacío = sin Swagger UI
}

// NewApp crea la aplicación fiber con recover, log de peticiones, Swagger y /health.
func NewApp(cfg AppConfig, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "POS Repuestos API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	cashDesk := RequireRole(RoleManager, RoleCashier)
	stockDesk := RequireRole(RoleManager, RoleStock)
	managers := RequireRole(RoleManager)
	superAdmin := RequireRole(RoleSuperAdmin)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", stockDesk, productHandler.Create)
	products.Put("/:id", stockDesk, productHandler.Update)

	// Inventario: aprovisionamientos y libro de movimientos
	inventoryHandler := NewInventoryHandler(deps.SupplyUC, deps.ProductUC, deps.Log)
	protected.Get("/movements", stockDesk, inventoryHandler.ListMovements)
	supplies := protected.Group("/supplies", superAdmin)
	supplies.Post("/", inventoryHandler.ReceiveSupply)
	supplies.Get("/", inventoryHandler.ListSupplies)
	supplies.Get("/:id", inventoryHandler.GetSupply)

	// Sales
	sales := protected.Group("/sales", cashDesk)
	saleHandler := NewSaleHandler(deps.SaleUC, deps.Log)
	sales.Post("/", saleHandler.Commit)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/:id/ledger", saleHandler.RetryLedger)

	// Partners
	partners := protected.Group("/partners")
	partnerHandler := NewPartnerHandler(deps.PartnerUC, deps.Log)
	partners.Get("/", cashDesk, partnerHandler.List)
	partners.Post("/", managers, partnerHandler.Create)
	partners.Get("/:id", managers, partnerHandler.GetByID)
	partners.Post("/:id/transactions", managers, partnerHandler.RecordTransaction)
	partners.Get("/:id/transactions", managers, partnerHandler.Transactions)

	// Invoices (proformas y facturas)
	invoices := protected.Group("/invoices", cashDesk)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.Log)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/convert", invoiceHandler.Convert)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Post("/:id/send", invoiceHandler.Send)

	// Expenses: caja declara, gerencia revisa
	expenses := protected.Group("/expenses")
	expenseHandler := NewExpenseHandler(deps.ExpenseUC, deps.Log)
	expenses.Post("/", cashDesk, expenseHandler.Declare)
	expenses.Get("/", managers, expenseHandler.List)
	expenses.Post("/:id/approve", managers, expenseHandler.Approve)
	expenses.Post("/:id/reject", managers, expenseHandler.Reject)

	// Reports
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, deps.Log)
	reports.Get("/dashboard", managers, reportHandler.Dashboard)
	reports.Get("/profitability", superAdmin, reportHandler.Profitability)
	reports.Get("/low-stock", managers, reportHandler.LowStock)
	reports.Get("/reconcile", managers, reportHandler.Reconcile)

	if deps.Spool != nil && deps.Replayer != nil {
		admin := protected.Group("/admin/spool", superAdmin)
		spoolHandler := NewSpoolHandler(deps.Spool, deps.Replayer, deps.Log)
		admin.Get("/", spoolHandler.Status)
		admin.Post("/replay", spoolHandler.Replay)
		admin.Post("/:id/requeue", spoolHandler.Requeue)
	}
}
