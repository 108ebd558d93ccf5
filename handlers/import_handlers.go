package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log"
	"path/filepath"
	"strings"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// readUploadRows decodes an uploaded CSV or XLSX file into raw string rows.
func readUploadRows(fileName string, data []byte) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(fileName), ".xlsx") {
		book, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer book.Close()
		sheets := book.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		return book.GetRows(sheets[0])
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// columnIndex finds the first normalized column containing any candidate.
func columnIndex(cols []string, candidates ...string) int {
	for i, c := range cols {
		for _, cand := range candidates {
			if strings.Contains(c, cand) {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// HandleImportPayments ingests a payments report. Rows with unparsable dates
// are dropped; duplicate rows (same composed key) are skipped by the unique
// constraint so re-uploads are idempotent.
// POST /api/import/payments
func HandleImportPayments(c *fiber.Ctx) error {
	ctx := context.Background()
	db := database.GetDB()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Missing upload file"})
	}
	channel := utils.NormalizeChannel(c.FormValue("channel", "Amazon"))

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Failed to open upload"})
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Failed to read upload"})
	}

	rows, err := readUploadRows(fileHeader.Filename, data)
	if err != nil {
		log.Printf("[IMPORT] Failed to decode %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Unreadable CSV/XLSX file"})
	}

	headerIdx := utils.DetectHeaderRow(rows)
	if headerIdx < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Could not locate a header row"})
	}
	cols := utils.NormalizeColumns(rows[headerIdx])
	dateIdx := columnIndex(cols, "date")
	skuIdx := columnIndex(cols, "sku")
	orderIdx := columnIndex(cols, "order")
	qtyIdx := columnIndex(cols, "quantity", "qty", "units")
	salesIdx := columnIndex(cols, "sales", "total", "amount")
	descIdx := columnIndex(cols, "description", "title")
	if dateIdx < 0 || salesIdx < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Missing date or sales column"})
	}

	inserted, skipped, rowCount := 0, 0, 0
	for _, row := range rows[headerIdx+1:] {
		rowCount++
		date, err := utils.ParseDate(cellAt(row, dateIdx))
		if err != nil {
			skipped++
			continue
		}
		sales, err := utils.ParseMoney(cellAt(row, salesIdx))
		if err != nil {
			skipped++
			continue
		}
		quantity, err := utils.ParseMoney(cellAt(row, qtyIdx))
		if err != nil {
			quantity = 0
		}
		sku := strings.TrimSpace(cellAt(row, skuIdx))
		orderID := strings.TrimSpace(cellAt(row, orderIdx))

		txKey := utils.BuildTxKey(date, sku, orderID, quantity, sales)
		tag, err := db.Exec(ctx, `
			INSERT INTO transactions (tx_key, date, sku, order_id, description, quantity, sales, channel, source_file)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (tx_key) DO NOTHING`,
			txKey, date, sku, orderID, strings.TrimSpace(cellAt(row, descIdx)),
			quantity, sales, channel, fileHeader.Filename)
		if err != nil {
			log.Printf("[IMPORT] Insert error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to save transactions"})
		}
		if tag.RowsAffected() > 0 {
			inserted++
		} else {
			skipped++
		}
	}

	record := models.ImportRecord{
		ID:       uuid.NewString(),
		FileName: fileHeader.Filename,
		DataType: "payments",
		Channel:  channel,
		RowCount: rowCount,
		Inserted: inserted,
		Skipped:  skipped,
	}
	if _, err := db.Exec(ctx, `
		INSERT INTO import_log (id, file_name, data_type, channel, row_count, inserted, skipped)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.FileName, record.DataType, record.Channel,
		record.RowCount, record.Inserted, record.Skipped); err != nil {
		log.Printf("[IMPORT] Failed to write import log: %v", err)
	}

	log.Printf("[IMPORT] %s: %d rows, %d inserted, %d skipped", fileHeader.Filename, rowCount, inserted, skipped)
	return c.JSON(fiber.Map{"success": true, "data": record})
}

// HandleImportInventory ingests an inventory snapshot report: one snapshot
// row plus one item row per SKU.
// POST /api/import/inventory
func HandleImportInventory(c *fiber.Ctx) error {
	ctx := context.Background()
	db := database.GetDB()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Missing upload file"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Failed to open upload"})
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Failed to read upload"})
	}

	rows, err := readUploadRows(fileHeader.Filename, data)
	if err != nil {
		log.Printf("[IMPORT] Failed to decode %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Unreadable CSV/XLSX file"})
	}
	if len(rows) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Empty inventory file"})
	}

	cols := utils.NormalizeColumns(rows[0])
	skuIdx := columnIndex(cols, "sku")
	nameIdx := columnIndex(cols, "product_name", "title", "name")
	totalIdx := columnIndex(cols, "total_quantity", "total")
	availIdx := columnIndex(cols, "fulfillable", "available")
	inboundIdx := columnIndex(cols, "inbound")
	reservedIdx := columnIndex(cols, "reserved")
	if skuIdx < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Missing sku column"})
	}

	var snapshotID int64
	if err := db.QueryRow(ctx, `
		INSERT INTO inventory_snapshots (source_file, row_count)
		VALUES ($1, $2) RETURNING id`,
		fileHeader.Filename, len(rows)-1).Scan(&snapshotID); err != nil {
		log.Printf("[IMPORT] Snapshot insert error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create snapshot"})
	}

	inserted, skipped := 0, 0
	for _, row := range rows[1:] {
		sku := strings.TrimSpace(cellAt(row, skuIdx))
		if sku == "" {
			skipped++
			continue
		}
		total, _ := utils.ParseMoney(cellAt(row, totalIdx))
		avail, _ := utils.ParseMoney(cellAt(row, availIdx))
		inbound, _ := utils.ParseMoney(cellAt(row, inboundIdx))
		reserved, _ := utils.ParseMoney(cellAt(row, reservedIdx))
		name := strings.TrimSpace(cellAt(row, nameIdx))

		if _, err := db.Exec(ctx, `
			INSERT INTO inventory_items (snapshot_id, sku, product_name, product_line, total_quantity, available, inbound, reserved)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			snapshotID, sku, name, utils.NormalizeProductLine(name),
			total, avail, inbound, reserved); err != nil {
			log.Printf("[IMPORT] Item insert error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to save inventory items"})
		}
		inserted++
	}

	record := models.ImportRecord{
		ID:       uuid.NewString(),
		FileName: fileHeader.Filename,
		DataType: "inventory",
		Channel:  "Amazon",
		RowCount: len(rows) - 1,
		Inserted: inserted,
		Skipped:  skipped,
	}
	if _, err := db.Exec(ctx, `
		INSERT INTO import_log (id, file_name, data_type, channel, row_count, inserted, skipped)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.FileName, record.DataType, record.Channel,
		record.RowCount, record.Inserted, record.Skipped); err != nil {
		log.Printf("[IMPORT] Failed to write import log: %v", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"snapshot_id": snapshotID, "import": record}})
}

// HandleGetImportHistory lists recent uploads, newest first.
// GET /api/import/history
func HandleGetImportHistory(c *fiber.Ctx) error {
	ctx := context.Background()
	rows, err := database.GetDB().Query(ctx, `
		SELECT id, file_name, data_type, channel, row_count, inserted, skipped, imported_at
		FROM import_log
		ORDER BY imported_at DESC
		LIMIT 100`)
	if err != nil {
		log.Printf("[IMPORT] History query error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load import history"})
	}
	defer rows.Close()

	history := make([]models.ImportRecord, 0)
	for rows.Next() {
		var rec models.ImportRecord
		if err := rows.Scan(&rec.ID, &rec.FileName, &rec.DataType, &rec.Channel,
			&rec.RowCount, &rec.Inserted, &rec.Skipped, &rec.ImportedAt); err != nil {
			log.Printf("[IMPORT] History scan error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to process import history"})
		}
		history = append(history, rec)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"history": history}})
}
