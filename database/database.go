package database

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// db holds the application-wide connection pool.
var db *pgxpool.Pool

// InitDB sets up the database connection pool and bootstraps the schema.
func InitDB(databaseURL string) {
	var err error
	db, err = pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	if err = db.Ping(context.Background()); err != nil {
		log.Fatalf("Database ping failed: %v\n", err)
	}

	if err = initTables(context.Background()); err != nil {
		log.Fatalf("Schema bootstrap failed: %v\n", err)
	}

	log.Println("Successfully connected to the database")
}

// GetDB returns the shared connection pool.
func GetDB() *pgxpool.Pool {
	return db
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if db != nil {
		db.Close()
		log.Println("Database connection pool closed")
	}
}

// initTables creates the reporting schema when it does not exist yet.
func initTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			tx_key TEXT UNIQUE NOT NULL,
			date DATE NOT NULL,
			sku TEXT,
			order_id TEXT,
			description TEXT,
			quantity DOUBLE PRECISION DEFAULT 0,
			sales DOUBLE PRECISION DEFAULT 0,
			channel TEXT DEFAULT 'Amazon',
			source_file TEXT,
			imported_at TIMESTAMPTZ DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (date)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_channel ON transactions (channel)`,
		`CREATE TABLE IF NOT EXISTS sku_mapping (
			sku_key TEXT PRIMARY KEY,
			product_line TEXT,
			tag TEXT,
			unit_count TEXT,
			size TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_snapshots (
			id BIGSERIAL PRIMARY KEY,
			imported_at TIMESTAMPTZ DEFAULT now(),
			source_file TEXT,
			row_count INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_items (
			id BIGSERIAL PRIMARY KEY,
			snapshot_id BIGINT REFERENCES inventory_snapshots(id) ON DELETE CASCADE,
			sku TEXT,
			product_name TEXT,
			product_line TEXT,
			total_quantity DOUBLE PRECISION DEFAULT 0,
			available DOUBLE PRECISION DEFAULT 0,
			inbound DOUBLE PRECISION DEFAULT 0,
			reserved DOUBLE PRECISION DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_items_snapshot ON inventory_items (snapshot_id)`,
		`CREATE TABLE IF NOT EXISTS month_goals (
			goal_year INTEGER NOT NULL,
			goal_month INTEGER NOT NULL,
			channel TEXT NOT NULL DEFAULT 'Amazon',
			goal DOUBLE PRECISION NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ DEFAULT now(),
			PRIMARY KEY (goal_year, goal_month, channel)
		)`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS import_log (
			id UUID PRIMARY KEY,
			file_name TEXT NOT NULL,
			data_type TEXT NOT NULL,
			channel TEXT DEFAULT 'Amazon',
			row_count INTEGER DEFAULT 0,
			inserted INTEGER DEFAULT 0,
			skipped INTEGER DEFAULT 0,
			imported_at TIMESTAMPTZ DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
