package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"brideal-backend/controllers"
	"brideal-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App, log *zap.Logger) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request transaction (commits/rolls back around the handler)
	protected.Use(middlewares.RequestTx(log))

	// Customers
	protected.Post("/customer", controllers.CreateCustomer)
	protected.Get("/customers", controllers.GetCustomers)
	protected.Get("/customer/:id", controllers.GetCustomer)
	protected.Put("/customer/:id", controllers.UpdateCustomer)

	// Dealers
	protected.Post("/dealer", controllers.CreateDealer)
	protected.Get("/dealers", controllers.GetDealers)
	protected.Put("/dealer/:id", controllers.UpdateDealer)

	// Price book
	protected.Post("/products", controllers.CreateProducts) // batch create
	protected.Get("/products", controllers.GetProducts)
	protected.Put("/products/:id", controllers.UpdateProduct)

	// Deal building and derived views
	protected.Post("/deals/preview", controllers.PreviewDeal)
	protected.Post("/deals/export/csv", controllers.ExportDealCSV)
	protected.Post("/deals/export/email", controllers.ExportDealEmail)
	protected.Post("/deals/export/pdf", controllers.ExportDealPDF)
	protected.Post("/deals/submit", controllers.SubmitDeal)

	// Drafts
	protected.Post("/drafts", controllers.SaveDraft)
	protected.Get("/drafts", controllers.GetDrafts)
	protected.Get("/drafts/:id", controllers.GetDraft)
	protected.Put("/drafts/:id", controllers.UpdateDraft)
	protected.Delete("/drafts/:id", controllers.DeleteDraft)
}
