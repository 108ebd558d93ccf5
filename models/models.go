package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// --- Ingestion ---

// Transaction is one deduplicated sales row as stored in Postgres.
type Transaction struct {
	ID         int64     `json:"id"`
	TxKey      string    `json:"tx_key"`
	Date       time.Time `json:"date"`
	SKU        string    `json:"sku"`
	OrderID    string    `json:"order_id"`
	Quantity   float64   `json:"quantity"`
	Sales      float64   `json:"sales"`
	Channel    string    `json:"channel"`
	SourceFile string    `json:"source_file"`
}

// ImportRecord is one row of the upload audit log.
type ImportRecord struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	DataType   string    `json:"data_type"`
	Channel    string    `json:"channel"`
	RowCount   int       `json:"row_count"`
	Inserted   int       `json:"inserted"`
	Skipped    int       `json:"skipped"`
	ImportedAt time.Time `json:"imported_at"`
}

// --- Goals & settings ---

// MonthGoal is a revenue target for one channel-month.
type MonthGoal struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Channel string  `json:"channel"`
	Goal    float64 `json:"goal"`
}
