package forecast

import (
	"math"
	"sort"
	"time"
)

// BacktestMonth is the projection replay for one historical month.
type BacktestMonth struct {
	Month     string  `json:"month"` // YYYY-MM
	Predicted float64 `json:"predicted"`
	Actual    float64 `json:"actual"`
	APE       float64 `json:"ape"`
}

// BacktestResult aggregates the replay accuracy across qualifying months.
type BacktestResult struct {
	MAPE    float64         `json:"mape"`
	Count   int             `json:"count"`
	Details []BacktestMonth `json:"details"`
}

// Backtest replays Project against every month strictly before
// currentMonthStart, cutting each month off at min(asOfDay, month length) and
// feeding the projector only data visible at that cutoff. Months with a
// non-positive actual total are skipped. Returns nil when no month qualifies.
func Backtest(series []DailyTotal, asOfDay int, currentMonthStart time.Time, a Assumptions) *BacktestResult {
	if len(series) == 0 {
		return nil
	}
	currentMonthStart = dateOnly(currentMonthStart)
	ts := Normalize(series, currentMonthStart.AddDate(0, 0, -1))
	if len(ts) == 0 {
		return nil
	}

	seen := make(map[string]time.Time)
	for _, dt := range ts {
		key := dt.Date.Format("2006-01")
		if _, ok := seen[key]; !ok {
			seen[key] = time.Date(dt.Date.Year(), dt.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		}
	}

	var details []BacktestMonth
	for key, monthStart := range seen {
		monthLen := daysInMonth(monthStart.Year(), monthStart.Month())
		cutoffDay := asOfDay
		if cutoffDay > monthLen {
			cutoffDay = monthLen
		}
		if cutoffDay < 1 {
			cutoffDay = 1
		}
		asOf := monthStart.AddDate(0, 0, cutoffDay-1)
		if !asOf.Before(currentMonthStart) {
			continue
		}

		var visible []DailyTotal
		for _, dt := range ts {
			if !dt.Date.After(asOf) {
				visible = append(visible, dt)
			}
		}
		pred := Project(visible, asOf, a)
		if pred == nil {
			continue
		}

		monthEnd := monthStart.AddDate(0, 0, monthLen-1)
		actual, _ := sumBetween(ts, monthStart, monthEnd)
		if actual <= 0 {
			continue
		}
		details = append(details, BacktestMonth{
			Month:     key,
			Predicted: pred.ProjectedTotal,
			Actual:    actual,
			APE:       math.Abs(pred.ProjectedTotal-actual) / actual,
		})
	}
	if len(details) == 0 {
		return nil
	}

	sort.Slice(details, func(i, j int) bool { return details[i].Month < details[j].Month })
	var sum float64
	for _, d := range details {
		sum += d.APE
	}
	return &BacktestResult{
		MAPE:    sum / float64(len(details)),
		Count:   len(details),
		Details: details,
	}
}
