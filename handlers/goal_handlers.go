package handlers

import (
	"context"
	"log"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleGetGoals lists the configured monthly revenue goals.
// GET /api/goals
func HandleGetGoals(c *fiber.Ctx) error {
	ctx := context.Background()
	rows, err := database.GetDB().Query(ctx, `
		SELECT goal_year, goal_month, channel, goal
		FROM month_goals
		ORDER BY goal_year DESC, goal_month DESC, channel`)
	if err != nil {
		log.Printf("[GOALS] Query error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load goals"})
	}
	defer rows.Close()

	goals := make([]models.MonthGoal, 0)
	for rows.Next() {
		var g models.MonthGoal
		if err := rows.Scan(&g.Year, &g.Month, &g.Channel, &g.Goal); err != nil {
			log.Printf("[GOALS] Scan error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to process goals"})
		}
		goals = append(goals, g)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"goals": goals}})
}

// HandleUpsertGoal creates or replaces one channel-month goal.
// POST /api/goals/upsert
func HandleUpsertGoal(c *fiber.Ctx) error {
	var req models.MonthGoal
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}
	if req.Year < 2000 || req.Year > 2100 || req.Month < 1 || req.Month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid year or month"})
	}
	if req.Goal < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Goal must be non-negative"})
	}
	req.Channel = utils.NormalizeChannel(req.Channel)

	_, err := database.GetDB().Exec(context.Background(), `
		INSERT INTO month_goals (goal_year, goal_month, channel, goal, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (goal_year, goal_month, channel)
		DO UPDATE SET goal = EXCLUDED.goal, updated_at = now()`,
		req.Year, req.Month, req.Channel, req.Goal)
	if err != nil {
		log.Printf("[GOALS] Upsert error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to save goal"})
	}
	return c.JSON(fiber.Map{"success": true, "data": req})
}

// HandleGetSettings returns the persisted assumption overrides.
// GET /api/settings
func HandleGetSettings(c *fiber.Ctx) error {
	ctx := context.Background()
	rows, err := database.GetDB().Query(ctx, `SELECT key, value FROM app_settings ORDER BY key`)
	if err != nil {
		log.Printf("[SETTINGS] Query error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load settings"})
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			log.Printf("[SETTINGS] Scan error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to process settings"})
		}
		settings[k] = v
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"settings": settings}})
}

// HandleSaveSettings upserts a batch of settings keys.
// POST /api/settings
func HandleSaveSettings(c *fiber.Ctx) error {
	var req map[string]string
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}
	if len(req) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "No settings supplied"})
	}

	ctx := context.Background()
	db := database.GetDB()
	for k, v := range req {
		if _, err := db.Exec(ctx, `
			INSERT INTO app_settings (key, value, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			k, v); err != nil {
			log.Printf("[SETTINGS] Upsert error for %s: %v", k, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to save settings"})
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"saved": len(req)}})
}
