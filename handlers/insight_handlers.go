package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"app/config"
	"app/forecast"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// HandleForecastInsight computes the current projection and asks Gemini for
// a short narrative summary of it.
// POST /api/insights/forecast
func HandleForecastInsight(c *fiber.Ctx) error {
	if config.AppConfig.GeminiAPIKey == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "message": "Insights are not configured"})
	}

	ctx := context.Background()
	channel := utils.NormalizeChannel(c.Query("channel", "Amazon"))

	series, err := loadDailyTotals(ctx, channel)
	if err != nil {
		log.Printf("[INSIGHTS] Failed to load daily totals: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load revenue series"})
	}
	if len(series) == 0 {
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"insight": nil}})
	}

	asOf := series[len(series)-1].Date
	assumptions := parseAssumptions(c)
	projection := forecast.Project(series, asOf, assumptions)
	if projection == nil {
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"insight": nil}})
	}
	backtest := forecast.Backtest(series, projection.ElapsedDays, projection.MonthStart, assumptions)
	significance := forecast.TestSignificance(series, asOf, assumptions)

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Printf("[INSIGHTS] Error creating Gemini client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to initialize insight client"})
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-1.5-pro-latest")
	resp, err := model.GenerateContent(ctx, genai.Text(insightPrompt(channel, projection, backtest, significance)))
	if err != nil {
		log.Printf("[INSIGHTS] Error generating content: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to generate insight"})
	}

	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"insight":    text.String(),
		"projection": projection,
	}})
}

func insightPrompt(channel string, p *forecast.Projection, bt *forecast.BacktestResult, sig *forecast.Significance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a revenue analyst. Summarize this %s month-to-date forecast in 3 short sentences for an executive.\n", channel)
	fmt.Fprintf(&b, "MTD actual: %.0f. Projected month total: %.0f (95%% band %.0f-%.0f). Growth factor: %.2f. Day %d of %d.\n",
		p.MTDActual, p.ProjectedTotal, p.CILow, p.CIHigh, p.GrowthFactor, p.ElapsedDays, p.MonthDays)
	if bt != nil {
		fmt.Fprintf(&b, "Backtested MAPE over %d prior months: %.1f%%.\n", bt.Count, bt.MAPE*100)
	}
	if sig != nil {
		fmt.Fprintf(&b, "Growth significance: z=%.2f, p=%.3f (current daily mean %.0f vs baseline %.0f).\n",
			sig.Z, sig.PValue, sig.MeanCurrent, sig.MeanBaseline)
	}
	b.WriteString("Mention whether the trend is statistically meaningful and how reliable the projection has been historically.")
	return b.String()
}
