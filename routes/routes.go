package routes

import (
	"app/handlers"
	"app/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// --- Public routes ---
	api.Get("/health", handlers.HandleHealth)
	api.Get("/meta/date-range", handlers.HandleGetDateRange)

	api.Post("/auth/login", handlers.HandleLogin)

	api.Get("/sales/summary", handlers.HandleGetSalesSummary)
	api.Get("/sales/daily", handlers.HandleGetSalesDaily)
	api.Get("/seasonality/month-weekday", handlers.HandleGetSeasonality)

	api.Get("/forecast/mtd", handlers.HandleGetForecastMTD)
	api.Post("/insights/forecast", handlers.HandleForecastInsight)

	api.Get("/inventory/latest", handlers.HandleGetLatestInventory)

	api.Get("/goals", handlers.HandleGetGoals)
	api.Get("/settings", handlers.HandleGetSettings)
	api.Get("/import/history", handlers.HandleGetImportHistory)

	// --- Admin routes (mutations) ---
	admin := api.Group("/", middleware.JWTMiddleware, middleware.AdminRequired)
	admin.Post("/goals/upsert", handlers.HandleUpsertGoal)
	admin.Post("/settings", handlers.HandleSaveSettings)
	admin.Post("/import/payments", handlers.HandleImportPayments)
	admin.Post("/import/inventory", handlers.HandleImportInventory)
}
