package utils

import (
	"math"
	"time"
)

// DemandWindows are trailing unit-sales sums per SKU used to estimate daily
// demand.
type DemandWindows struct {
	Units7d  float64
	Units30d float64
	Units60d float64
	Units90d float64
}

// WosWeights weight the demand windows and carry the restock target.
type WosWeights struct {
	W7        int     `json:"w7"`
	W30       int     `json:"w30"`
	W60       int     `json:"w60"`
	W90       int     `json:"w90"`
	TargetWos float64 `json:"target_wos"`
}

// DefaultWosWeights favor the most recent week: 40/30/20/10 with an 8-week
// restock target.
func DefaultWosWeights() WosWeights {
	return WosWeights{W7: 40, W30: 30, W60: 20, W90: 10, TargetWos: 8.0}
}

// DailyDemand blends the window averages into one units-per-day estimate.
// All-zero weights fall back to the defaults.
func DailyDemand(d DemandWindows, w WosWeights) float64 {
	total := w.W7 + w.W30 + w.W60 + w.W90
	if total == 0 {
		w = DefaultWosWeights()
		total = w.W7 + w.W30 + w.W60 + w.W90
	}
	return (d.Units7d/7.0)*(float64(w.W7)/float64(total)) +
		(d.Units30d/30.0)*(float64(w.W30)/float64(total)) +
		(d.Units60d/60.0)*(float64(w.W60)/float64(total)) +
		(d.Units90d/90.0)*(float64(w.W90)/float64(total))
}

// WeeksOfSupply divides effective stock by weekly demand. The second return
// is false when there is no demand to divide by.
func WeeksOfSupply(totalInventory, available, inbound, dailyDemand float64) (float64, bool) {
	if dailyDemand <= 0 {
		return 0, false
	}
	stock := math.Max(totalInventory, available+inbound)
	return stock / (dailyDemand * 7.0), true
}

// ClassifyStock maps availability and weeks of supply onto the status ladder.
func ClassifyStock(available float64, wos float64, hasDemand bool) string {
	switch {
	case available <= 0:
		return "OOS"
	case !hasDemand:
		return "No Demand"
	case wos < 2:
		return "Critical"
	case wos < 4:
		return "Restock"
	case wos < 8:
		return "At Risk"
	default:
		return "Healthy"
	}
}

// RestockUnits is how many units must arrive to reach the target weeks of
// supply on top of what is already available or inbound.
func RestockUnits(dailyDemand, targetWos, available, inbound float64) float64 {
	return math.Max(0, dailyDemand*7.0*targetWos-(available+inbound))
}

// EstOOSDate projects the date stock runs out at the current demand rate.
// Returns false when demand is zero.
func EstOOSDate(base time.Time, totalInventory, dailyDemand float64) (time.Time, bool) {
	if dailyDemand <= 0 {
		return time.Time{}, false
	}
	days := totalInventory / dailyDemand
	return base.Add(time.Duration(days * 24 * float64(time.Hour))), true
}
