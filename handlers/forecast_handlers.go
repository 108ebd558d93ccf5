package handlers

import (
	"context"
	"log"
	"time"

	"app/database"
	"app/forecast"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// HandleGetForecastMTD computes the month-to-date projection payload:
// projection, backtest accuracy, growth significance and goal pace.
// GET /api/forecast/mtd
func HandleGetForecastMTD(c *fiber.Ctx) error {
	ctx := context.Background()
	channel := utils.NormalizeChannel(c.Query("channel", "Amazon"))

	series, err := loadDailyTotals(ctx, channel)
	if err != nil {
		log.Printf("[FORECAST] Failed to load daily totals: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load revenue series"})
	}
	if len(series) == 0 {
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"projection": nil}})
	}

	asOf := series[len(series)-1].Date
	if raw := c.Query("as_of_date"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid as_of_date"})
		}
		asOf = parsed
	}

	assumptions := parseAssumptions(c)
	projection := forecast.Project(series, asOf, assumptions)
	if projection == nil {
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"projection": nil}})
	}

	payload := buildForecastPayload(ctx, channel, asOf, assumptions, projection, series)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"projection": payload}})
}

// buildForecastPayload assembles the API body around a computed projection.
func buildForecastPayload(ctx context.Context, channel string, asOf time.Time, assumptions forecast.Assumptions, projection *forecast.Projection, series []forecast.DailyTotal) models.ForecastPayload {
	payload := models.ForecastPayload{
		AsOfDate:       asOf.Format("2006-01-02"),
		MTDActual:      projection.MTDActual,
		ProjectedTotal: projection.ProjectedTotal,
		GrowthFactor:   projection.GrowthFactor,
		CILow:          projection.CILow,
		CIHigh:         projection.CIHigh,
		ElapsedDays:    projection.ElapsedDays,
		MonthDays:      projection.MonthDays,
		Chart:          make([]models.ForecastChartRow, 0, len(projection.Chart)),
		Backtest:       []forecast.BacktestMonth{},
	}
	for _, pt := range projection.Chart {
		payload.Chart = append(payload.Chart, models.ForecastChartRow{
			Date:          pt.Date.Format("2006-01-02"),
			ActualDaily:   pt.Actual,
			ForecastDaily: pt.Forecast,
		})
	}

	if bt := forecast.Backtest(series, projection.ElapsedDays, projection.MonthStart, assumptions); bt != nil {
		payload.MAPE = &bt.MAPE
		payload.MAPEMonths = bt.Count
		payload.Backtest = bt.Details
	}
	payload.StatSig = forecast.TestSignificance(series, asOf, assumptions)

	var goal float64
	err := database.GetDB().QueryRow(ctx,
		`SELECT goal FROM month_goals WHERE goal_year = $1 AND goal_month = $2 AND channel = $3`,
		asOf.Year(), int(asOf.Month()), channel).Scan(&goal)
	switch {
	case err == pgx.ErrNoRows:
		// no goal configured for this month
	case err != nil:
		log.Printf("[FORECAST] Failed to read month goal: %v", err)
	case goal > 0:
		pace := projection.ProjectedTotal / goal
		delta := pace - 1.0
		payload.Goal = &goal
		payload.PaceToGoal = &pace
		payload.PaceDelta = &delta
	}
	return payload
}
