package handlers

import (
	"context"
	"strconv"
	"time"

	"app/database"
	"app/forecast"
	"app/utils"

	"github.com/gofiber/fiber/v2"
)

// floatQuery reads a float query parameter, falling back to def on absence or
// garbage.
func floatQuery(c *fiber.Ctx, key string, def float64) float64 {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// intQuery reads an int query parameter with a default.
func intQuery(c *fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// parseAssumptions builds forecast assumptions from query parameters, using
// the documented defaults for anything not supplied.
func parseAssumptions(c *fiber.Ctx) forecast.Assumptions {
	d := forecast.DefaultAssumptions()
	return forecast.Assumptions{
		RecentWeight:         floatQuery(c, "recent_weight", d.RecentWeight),
		MoMWeight:            floatQuery(c, "mom_weight", d.MoMWeight),
		WeekdayStrength:      floatQuery(c, "weekday_strength", d.WeekdayStrength),
		ManualMultiplier:     floatQuery(c, "manual_multiplier", d.ManualMultiplier),
		PromoLiftPct:         floatQuery(c, "promo_lift_pct", d.PromoLiftPct),
		ContentLiftPct:       floatQuery(c, "content_lift_pct", d.ContentLiftPct),
		InstockRate:          floatQuery(c, "instock_rate", d.InstockRate),
		GrowthFloor:          floatQuery(c, "growth_floor", d.GrowthFloor),
		GrowthCeiling:        floatQuery(c, "growth_ceiling", d.GrowthCeiling),
		VolatilityMultiplier: floatQuery(c, "volatility_multiplier", d.VolatilityMultiplier),
	}
}

// loadDailyTotals reads the channel's revenue series aggregated to one row
// per date, restricted to mapped product lines.
func loadDailyTotals(ctx context.Context, channel string) ([]forecast.DailyTotal, error) {
	db := database.GetDB()
	rows, err := db.Query(ctx, `
		SELECT t.date,
		       COALESCE(SUM(CASE WHEN m.product_line IN ('IQBAR','IQMIX','IQJOE') THEN t.sales ELSE 0 END), 0) AS total
		FROM transactions t
		LEFT JOIN sku_mapping m ON UPPER(TRIM(t.sku)) = m.sku_key
		WHERE t.date IS NOT NULL
		  AND COALESCE(t.channel, 'Amazon') = $1
		GROUP BY t.date
		ORDER BY t.date`, utils.NormalizeChannel(channel))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []forecast.DailyTotal
	for rows.Next() {
		var dt forecast.DailyTotal
		if err := rows.Scan(&dt.Date, &dt.Total); err != nil {
			return nil, err
		}
		series = append(series, dt)
	}
	return series, rows.Err()
}

// pctDelta returns (curr-comp)/comp, or nil when the comparator is zero.
func pctDelta(curr, comp float64) *float64 {
	if comp == 0 {
		return nil
	}
	d := (curr - comp) / comp
	return &d
}

// dateRangeQuery reads start_date/end_date, defaulting to the trailing 30
// days ending at the latest transaction date for the channel.
func dateRangeQuery(ctx context.Context, c *fiber.Ctx, channel string) (time.Time, time.Time, error) {
	db := database.GetDB()
	var maxDate *time.Time
	err := db.QueryRow(ctx,
		`SELECT MAX(date) FROM transactions WHERE COALESCE(channel,'Amazon') = $1`,
		utils.NormalizeChannel(channel)).Scan(&maxDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := time.Now().UTC().Truncate(24 * time.Hour)
	if maxDate != nil {
		end = *maxDate
	}
	start := end.AddDate(0, 0, -29)

	if raw := c.Query("start_date"); raw != "" {
		if t, err := utils.ParseDate(raw); err == nil {
			start = t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := utils.ParseDate(raw); err == nil {
			end = t
		}
	}
	if start.After(end) {
		start, end = end, start
	}
	return start, end, nil
}
