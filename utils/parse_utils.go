package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeColumns lowercases header names and collapses runs of
// non-alphanumerics to single underscores, so "Sales (O to Y)" and
// "sales_o_to_y" address the same column.
func NormalizeColumns(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		c = strings.ToLower(strings.TrimSpace(c))
		c = nonAlnum.ReplaceAllString(c, "_")
		out[i] = strings.Trim(c, "_")
	}
	return out
}

// DetectHeaderRow scans the first rows of an upload for the one that looks
// like a header: it must mention a date column and either a SKU or sales
// column. Returns -1 when nothing matches.
func DetectHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		cols := NormalizeColumns(rows[i])
		hasDate, hasKey := false, false
		for _, c := range cols {
			if strings.Contains(c, "date") {
				hasDate = true
			}
			if strings.Contains(c, "sku") || strings.Contains(c, "sales") || strings.Contains(c, "total") {
				hasKey = true
			}
		}
		if hasDate && hasKey {
			return i
		}
	}
	return -1
}

// ParseMoney parses currency text tolerant of symbols, thousands separators
// and parenthesized negatives ("(1,234.50)").
func ParseMoney(value string) (float64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, nil
	}
	negative := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		negative = true
		v = v[1 : len(v)-1]
	}
	v = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "").Replace(v)
	if v == "" || v == "-" {
		return 0, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", value, err)
	}
	if negative {
		d = d.Neg()
	}
	f, _ := d.Float64()
	return f, nil
}

// dateFormats are tried in order; uploads mix ISO, US and spreadsheet styles.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"02-Jan-2006",
}

// ParseDate parses an upload date in any of the supported formats, returning
// a UTC midnight timestamp.
func ParseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	var lastErr error
	for _, layout := range dateFormats {
		t, err := time.Parse(layout, v)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", value, lastErr)
}

// BuildTxKey composes the dedup key for a transaction row. Two uploads of the
// same report produce identical keys, so re-imports insert nothing.
func BuildTxKey(date time.Time, sku, orderID string, quantity, sales float64) string {
	return strings.Join([]string{
		date.Format("2006-01-02"),
		strings.ToUpper(strings.TrimSpace(sku)),
		strings.TrimSpace(orderID),
		fmt.Sprintf("%.4f", quantity),
		fmt.Sprintf("%.4f", sales),
	}, "|")
}
