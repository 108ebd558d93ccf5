package handlers

import (
	"context"
	"log"
	"time"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleGetSalesSummary aggregates revenue and units for a date range, with
// an optional previous-period comparison.
// GET /api/sales/summary
func HandleGetSalesSummary(c *fiber.Ctx) error {
	ctx := context.Background()
	db := database.GetDB()
	channel := utils.NormalizeChannel(c.Query("channel", "Amazon"))

	start, end, err := dateRangeQuery(ctx, c, channel)
	if err != nil {
		log.Printf("[SALES SUMMARY] Failed to resolve date range: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to resolve date range"})
	}

	summary := models.SalesSummary{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		ByLine:    map[string]float64{},
	}
	err = db.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN m.product_line IN ('IQBAR','IQMIX','IQJOE') THEN t.sales ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN m.product_line IN ('IQBAR','IQMIX','IQJOE') THEN t.quantity ELSE 0 END), 0)
		FROM transactions t
		LEFT JOIN sku_mapping m ON UPPER(TRIM(t.sku)) = m.sku_key
		WHERE t.date BETWEEN $1 AND $2
		  AND COALESCE(t.channel, 'Amazon') = $3`,
		start, end, channel).Scan(&summary.TotalSales, &summary.TotalUnits)
	if err != nil {
		log.Printf("[SALES SUMMARY] Query error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to aggregate sales"})
	}

	rows, err := db.Query(ctx, `
		SELECT m.product_line, COALESCE(SUM(t.sales), 0)
		FROM transactions t
		JOIN sku_mapping m ON UPPER(TRIM(t.sku)) = m.sku_key
		WHERE t.date BETWEEN $1 AND $2
		  AND COALESCE(t.channel, 'Amazon') = $3
		  AND m.product_line IN ('IQBAR','IQMIX','IQJOE')
		GROUP BY m.product_line`,
		start, end, channel)
	if err != nil {
		log.Printf("[SALES SUMMARY] Line split error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to aggregate sales"})
	}
	defer rows.Close()
	for rows.Next() {
		var line string
		var total float64
		if err := rows.Scan(&line, &total); err != nil {
			log.Printf("[SALES SUMMARY] Scan error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to process sales data"})
		}
		summary.ByLine[line] = total
	}

	// Previous period of equal length, immediately preceding the range.
	if c.Query("compare", "prev_period") == "prev_period" {
		days := int(end.Sub(start).Hours()/24) + 1
		compEnd := start.AddDate(0, 0, -1)
		compStart := compEnd.AddDate(0, 0, -(days - 1))
		var compSales, compUnits float64
		err = db.QueryRow(ctx, `
			SELECT COALESCE(SUM(CASE WHEN m.product_line IN ('IQBAR','IQMIX','IQJOE') THEN t.sales ELSE 0 END), 0),
			       COALESCE(SUM(CASE WHEN m.product_line IN ('IQBAR','IQMIX','IQJOE') THEN t.quantity ELSE 0 END), 0)
			FROM transactions t
			LEFT JOIN sku_mapping m ON UPPER(TRIM(t.sku)) = m.sku_key
			WHERE t.date BETWEEN $1 AND $2
			  AND COALESCE(t.channel, 'Amazon') = $3`,
			compStart, compEnd, channel).Scan(&compSales, &compUnits)
		if err == nil {
			summary.CompareSales = &compSales
			summary.SalesDelta = pctDelta(summary.TotalSales, compSales)
			summary.UnitsDelta = pctDelta(summary.TotalUnits, compUnits)
		} else {
			log.Printf("[SALES SUMMARY] Comparison window error: %v", err)
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": summary})
}

// HandleGetSalesDaily returns the daily revenue/units series for a range.
// GET /api/sales/daily
func HandleGetSalesDaily(c *fiber.Ctx) error {
	ctx := context.Background()
	db := database.GetDB()
	channel := utils.NormalizeChannel(c.Query("channel", "Amazon"))

	start, end, err := dateRangeQuery(ctx, c, channel)
	if err != nil {
		log.Printf("[SALES DAILY] Failed to resolve date range: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to resolve date range"})
	}

	rows, err := db.Query(ctx, `
		SELECT t.date,
		       COALESCE(SUM(CASE WHEN m.product_line IN ('IQBAR','IQMIX','IQJOE') THEN t.sales ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN m.product_line IN ('IQBAR','IQMIX','IQJOE') THEN t.quantity ELSE 0 END), 0)
		FROM transactions t
		LEFT JOIN sku_mapping m ON UPPER(TRIM(t.sku)) = m.sku_key
		WHERE t.date BETWEEN $1 AND $2
		  AND COALESCE(t.channel, 'Amazon') = $3
		GROUP BY t.date
		ORDER BY t.date`,
		start, end, channel)
	if err != nil {
		log.Printf("[SALES DAILY] Query error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load daily sales"})
	}
	defer rows.Close()

	points := make([]models.DailySalesPoint, 0)
	for rows.Next() {
		var date time.Time
		var sales, units float64
		if err := rows.Scan(&date, &sales, &units); err != nil {
			log.Printf("[SALES DAILY] Scan error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to process daily sales"})
		}
		points = append(points, models.DailySalesPoint{
			Date:  date.Format("2006-01-02"),
			Sales: sales,
			Units: units,
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.Format("2006-01-02"),
		"daily":      points,
	}})
}

// HandleGetSeasonality returns average revenue per month x weekday bucket
// across all history for the channel.
// GET /api/seasonality/month-weekday
func HandleGetSeasonality(c *fiber.Ctx) error {
	ctx := context.Background()
	db := database.GetDB()
	channel := utils.NormalizeChannel(c.Query("channel", "Amazon"))

	rows, err := db.Query(ctx, `
		SELECT EXTRACT(MONTH FROM daily.date)::int,
		       EXTRACT(DOW FROM daily.date)::int,
		       COALESCE(AVG(daily.total), 0)
		FROM (
			SELECT t.date,
			       COALESCE(SUM(CASE WHEN m.product_line IN ('IQBAR','IQMIX','IQJOE') THEN t.sales ELSE 0 END), 0) AS total
			FROM transactions t
			LEFT JOIN sku_mapping m ON UPPER(TRIM(t.sku)) = m.sku_key
			WHERE COALESCE(t.channel, 'Amazon') = $1
			GROUP BY t.date
		) daily
		GROUP BY 1, 2
		ORDER BY 1, 2`, channel)
	if err != nil {
		log.Printf("[SEASONALITY] Query error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load seasonality"})
	}
	defer rows.Close()

	cells := make([]models.SeasonalityCell, 0)
	for rows.Next() {
		var cell models.SeasonalityCell
		if err := rows.Scan(&cell.Month, &cell.Weekday, &cell.AvgSales); err != nil {
			log.Printf("[SEASONALITY] Scan error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to process seasonality"})
		}
		cells = append(cells, cell)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"cells": cells}})
}
