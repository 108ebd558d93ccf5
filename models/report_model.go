package models

import "app/forecast"

// DailySalesPoint is one day of the /api/sales/daily series.
type DailySalesPoint struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
	Units float64 `json:"units"`
}

// SalesSummary aggregates a date range with an optional comparison window.
// Delta fields are nil when the comparison window has no revenue to divide by.
type SalesSummary struct {
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	TotalSales   float64            `json:"total_sales"`
	TotalUnits   float64            `json:"total_units"`
	ByLine       map[string]float64 `json:"by_line"`
	CompareSales *float64           `json:"compare_sales,omitempty"`
	SalesDelta   *float64           `json:"sales_delta,omitempty"`
	UnitsDelta   *float64           `json:"units_delta,omitempty"`
}

// SeasonalityCell is one month x weekday bucket of average revenue.
type SeasonalityCell struct {
	Month    int     `json:"month"`
	Weekday  int     `json:"weekday"`
	AvgSales float64 `json:"avg_sales"`
}

// ForecastPayload is the /api/forecast/mtd response body. Pointer fields are
// omitted when the underlying computation had insufficient data.
type ForecastPayload struct {
	AsOfDate       string                   `json:"as_of_date"`
	MTDActual      float64                  `json:"mtd_actual"`
	ProjectedTotal float64                  `json:"projected_total"`
	GrowthFactor   float64                  `json:"growth_factor"`
	CILow          float64                  `json:"ci_low"`
	CIHigh         float64                  `json:"ci_high"`
	ElapsedDays    int                      `json:"elapsed_days"`
	MonthDays      int                      `json:"month_days"`
	Goal           *float64                 `json:"goal,omitempty"`
	PaceToGoal     *float64                 `json:"pace_to_goal,omitempty"`
	PaceDelta      *float64                 `json:"pace_delta,omitempty"`
	MAPE           *float64                 `json:"mape,omitempty"`
	MAPEMonths     int                      `json:"mape_months"`
	StatSig        *forecast.Significance   `json:"stat_sig,omitempty"`
	Chart          []ForecastChartRow       `json:"chart"`
	Backtest       []forecast.BacktestMonth `json:"backtest"`
}

// ForecastChartRow is a chart point with the date rendered as ISO-8601.
type ForecastChartRow struct {
	Date          string  `json:"date"`
	ActualDaily   float64 `json:"actual_daily"`
	ForecastDaily float64 `json:"forecast_daily"`
}

// InventoryRow is one SKU of the weeks-of-supply payload. WOS and EstOOSDate
// are nil when the SKU shows no demand.
type InventoryRow struct {
	ProductLine    string   `json:"product_line"`
	Tag            string   `json:"tag"`
	SKU            string   `json:"sku"`
	WOS            *float64 `json:"wos,omitempty"`
	Status         string   `json:"status"`
	PctAvail       float64  `json:"pct_avail"`
	DailyDemand    float64  `json:"daily_demand"`
	Units30d       float64  `json:"units_30d"`
	TotalInventory float64  `json:"total_inventory"`
	Inbound        float64  `json:"inbound"`
	Available      float64  `json:"available"`
	Reserved       float64  `json:"reserved"`
	RestockUnits   float64  `json:"restock_units"`
	EstOOSDate     *string  `json:"est_oos_date,omitempty"`
}

// InventorySnapshotMeta describes the snapshot an inventory payload came from.
type InventorySnapshotMeta struct {
	ID         int64  `json:"id"`
	ImportedAt string `json:"imported_at"`
	SourceFile string `json:"source_file"`
	RowCount   int    `json:"row_count"`
}
