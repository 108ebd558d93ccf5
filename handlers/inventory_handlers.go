package handlers

import (
	"context"
	"log"
	"sort"
	"time"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// HandleGetLatestInventory returns the most recent inventory snapshot with
// weeks-of-supply math applied per SKU.
// GET /api/inventory/latest
func HandleGetLatestInventory(c *fiber.Ctx) error {
	ctx := context.Background()
	db := database.GetDB()

	weights := utils.WosWeights{
		W7:        intQuery(c, "w7", 40),
		W30:       intQuery(c, "w30", 30),
		W60:       intQuery(c, "w60", 20),
		W90:       intQuery(c, "w90", 10),
		TargetWos: floatQuery(c, "target_wos", 8.0),
	}

	var meta models.InventorySnapshotMeta
	var importedAt time.Time
	err := db.QueryRow(ctx, `
		SELECT id, imported_at, COALESCE(source_file, ''), row_count
		FROM inventory_snapshots
		ORDER BY id DESC
		LIMIT 1`).Scan(&meta.ID, &importedAt, &meta.SourceFile, &meta.RowCount)
	if err == pgx.ErrNoRows {
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"snapshot": nil, "rows": []models.InventoryRow{}, "by_line": fiber.Map{}}})
	}
	if err != nil {
		log.Printf("[INVENTORY] Snapshot query error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load snapshot"})
	}
	meta.ImportedAt = importedAt.Format(time.RFC3339)

	demand, err := loadDemandWindows(ctx)
	if err != nil {
		log.Printf("[INVENTORY] Demand query error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load demand windows"})
	}

	rows, err := db.Query(ctx, `
		SELECT UPPER(TRIM(i.sku)),
		       i.sku,
		       COALESCE(m.product_line, i.product_line, 'Unmapped'),
		       COALESCE(m.tag, i.product_name, i.sku),
		       i.total_quantity, i.available, i.inbound, i.reserved
		FROM inventory_items i
		JOIN sku_mapping m ON UPPER(TRIM(i.sku)) = m.sku_key
		WHERE i.snapshot_id = $1`, meta.ID)
	if err != nil {
		log.Printf("[INVENTORY] Items query error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load inventory items"})
	}
	defer rows.Close()

	payload := make([]models.InventoryRow, 0)
	for rows.Next() {
		var skuKey string
		var row models.InventoryRow
		if err := rows.Scan(&skuKey, &row.SKU, &row.ProductLine, &row.Tag,
			&row.TotalInventory, &row.Available, &row.Inbound, &row.Reserved); err != nil {
			log.Printf("[INVENTORY] Scan error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to process inventory"})
		}

		windows := demand[skuKey]
		row.Units30d = windows.Units30d
		row.DailyDemand = utils.DailyDemand(windows, weights)
		wos, hasDemand := utils.WeeksOfSupply(row.TotalInventory, row.Available, row.Inbound, row.DailyDemand)
		if hasDemand {
			row.WOS = &wos
		}
		row.Status = utils.ClassifyStock(row.Available, wos, hasDemand)
		if row.TotalInventory > 0 {
			row.PctAvail = row.Available / row.TotalInventory
		}
		row.RestockUnits = utils.RestockUnits(row.DailyDemand, weights.TargetWos, row.Available, row.Inbound)
		if oos, ok := utils.EstOOSDate(importedAt, row.TotalInventory, row.DailyDemand); ok {
			s := oos.Format("2006-01-02")
			row.EstOOSDate = &s
		}
		payload = append(payload, row)
	}

	sort.Slice(payload, func(i, j int) bool {
		if payload[i].ProductLine != payload[j].ProductLine {
			return payload[i].ProductLine < payload[j].ProductLine
		}
		wi, wj := payload[i].WOS, payload[j].WOS
		switch {
		case wi == nil:
			return false
		case wj == nil:
			return true
		default:
			return *wi < *wj
		}
	})

	byLine := fiber.Map{}
	for _, line := range utils.ProductLines {
		lineRows := make([]models.InventoryRow, 0)
		for _, row := range payload {
			if row.ProductLine == line {
				lineRows = append(lineRows, row)
			}
		}
		byLine[line] = lineRows
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"snapshot": meta,
		"rows":     payload,
		"by_line":  byLine,
		"weights":  weights,
	}})
}

// loadDemandWindows sums unit sales over the trailing 7/30/60/90-day windows
// ending at the latest transaction date, keyed by normalized SKU.
func loadDemandWindows(ctx context.Context) (map[string]utils.DemandWindows, error) {
	rows, err := database.GetDB().Query(ctx, `
		WITH bounds AS (SELECT MAX(date) AS max_date FROM transactions)
		SELECT UPPER(TRIM(COALESCE(t.sku, ''))),
		       SUM(CASE WHEN t.date >= bounds.max_date - 6 THEN t.quantity ELSE 0 END),
		       SUM(CASE WHEN t.date >= bounds.max_date - 29 THEN t.quantity ELSE 0 END),
		       SUM(CASE WHEN t.date >= bounds.max_date - 59 THEN t.quantity ELSE 0 END),
		       SUM(CASE WHEN t.date >= bounds.max_date - 89 THEN t.quantity ELSE 0 END)
		FROM transactions t, bounds
		WHERE bounds.max_date IS NOT NULL
		  AND t.quantity > 0 AND t.sales > 0
		GROUP BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	demand := make(map[string]utils.DemandWindows)
	for rows.Next() {
		var sku string
		var d utils.DemandWindows
		if err := rows.Scan(&sku, &d.Units7d, &d.Units30d, &d.Units60d, &d.Units90d); err != nil {
			return nil, err
		}
		demand[sku] = d
	}
	return demand, rows.Err()
}
