package handlers

import (
	"context"
	"log"
	"time"

	"app/database"
	"app/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleHealth reports service and database health.
// GET /api/health
func HandleHealth(c *fiber.Ctx) error {
	if err := database.GetDB().Ping(context.Background()); err != nil {
		log.Printf("[HEALTH] Database ping failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "down"})
	}
	return c.JSON(fiber.Map{"status": "ok", "database": "up"})
}

// HandleGetDateRange returns the min/max transaction dates for a channel so
// clients can bound their date pickers.
// GET /api/meta/date-range
func HandleGetDateRange(c *fiber.Ctx) error {
	ctx := context.Background()
	channel := utils.NormalizeChannel(c.Query("channel", "Amazon"))

	var minDate, maxDate *time.Time
	err := database.GetDB().QueryRow(ctx,
		`SELECT MIN(date), MAX(date) FROM transactions WHERE COALESCE(channel,'Amazon') = $1`,
		channel).Scan(&minDate, &maxDate)
	if err != nil {
		log.Printf("[META] Date range query error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to read date range"})
	}

	data := fiber.Map{"channel": channel, "min_date": nil, "max_date": nil}
	if minDate != nil {
		data["min_date"] = minDate.Format("2006-01-02")
	}
	if maxDate != nil {
		data["max_date"] = maxDate.Format("2006-01-02")
	}
	return c.JSON(fiber.Map{"success": true, "data": data})
}
