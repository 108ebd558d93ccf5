// Package forecast implements the month-to-date revenue projection engine:
// a per-weekday seasonal baseline, a blended growth factor, a Gaussian
// confidence band, a historical backtest and a growth significance test.
// The package is pure: no I/O, no shared state, safe for concurrent use.
package forecast

import (
	"math"
	"sort"
	"time"
)

// DailyTotal is one day of aggregated revenue. The caller (normally the
// persistence layer) pre-aggregates to one row per date.
type DailyTotal struct {
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
}

// ChartPoint is one calendar day of the projection chart. Elapsed days carry
// Actual, remaining days carry Forecast, the other field is zero.
type ChartPoint struct {
	Date     time.Time `json:"date"`
	Actual   float64   `json:"actual_daily"`
	Forecast float64   `json:"forecast_daily"`
}

// Projection is the primary engine result for one month.
type Projection struct {
	MTDActual      float64      `json:"mtd_actual"`
	ProjectedTotal float64      `json:"projected_total"`
	GrowthFactor   float64      `json:"growth_factor"`
	CILow          float64      `json:"ci_low"`
	CIHigh         float64      `json:"ci_high"`
	Chart          []ChartPoint `json:"chart"`
	ElapsedDays    int          `json:"elapsed_days"`
	MonthDays      int          `json:"month_days"`
	MonthStart     time.Time    `json:"month_start"`
	MonthEnd       time.Time    `json:"month_end"`
}

const (
	// baselineWindowDays is the preferred trailing history window for the
	// weekday baseline and the significance baseline sample.
	baselineWindowDays = 84
	// minBaselinePoints is the minimum window population before falling back
	// to all available history.
	minBaselinePoints = 14
	// zeroEps guards ratio denominators.
	zeroEps = 1e-9
)

// safeRatio divides num by den, returning fallback when the denominator is
// zero or indistinguishable from it.
func safeRatio(num, den, fallback float64) float64 {
	if math.Abs(den) < zeroEps {
		return fallback
	}
	return num / den
}

// normalCDF is the standard normal CDF via the error function.
func normalCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Normalize sorts the series by date, drops rows without a usable date and
// truncates to rows on or before asOf. The input slice is left untouched.
func Normalize(series []DailyTotal, asOf time.Time) []DailyTotal {
	asOf = dateOnly(asOf)
	out := make([]DailyTotal, 0, len(series))
	for _, dt := range series {
		if dt.Date.IsZero() {
			continue
		}
		d := dateOnly(dt.Date)
		if d.After(asOf) {
			continue
		}
		out = append(out, DailyTotal{Date: d, Total: dt.Total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// sumBetween adds totals with start <= date <= end and reports the row count.
func sumBetween(series []DailyTotal, start, end time.Time) (float64, int) {
	var sum float64
	var n int
	for _, dt := range series {
		if dt.Date.Before(start) || dt.Date.After(end) {
			continue
		}
		sum += dt.Total
		n++
	}
	return sum, n
}

// weekdayBaseline holds the per-weekday means over the chosen history window.
type weekdayBaseline struct {
	avg        [7]float64
	hasData    [7]bool
	overallAvg float64
	window     []DailyTotal
}

// buildBaseline selects the baseline window from history strictly before
// monthStart and computes per-weekday and overall means.
func buildBaseline(hist []DailyTotal, monthStart time.Time) weekdayBaseline {
	window := make([]DailyTotal, 0, len(hist))
	cutoff := monthStart.AddDate(0, 0, -baselineWindowDays)
	for _, dt := range hist {
		if !dt.Date.Before(cutoff) {
			window = append(window, dt)
		}
	}
	if len(window) < minBaselinePoints {
		window = hist
	}

	var b weekdayBaseline
	b.window = window
	var sums [7]float64
	var counts [7]int
	var total float64
	for _, dt := range window {
		wd := int(dt.Date.Weekday())
		sums[wd] += dt.Total
		counts[wd]++
		total += dt.Total
	}
	for wd := 0; wd < 7; wd++ {
		if counts[wd] > 0 {
			b.avg[wd] = sums[wd] / float64(counts[wd])
			b.hasData[wd] = true
		}
	}
	if len(window) > 0 {
		b.overallAvg = total / float64(len(window))
	}
	return b
}

// raw returns the unstrengthened per-weekday mean, falling back to the
// overall mean for weekdays with no observations.
func (b weekdayBaseline) raw(wd time.Weekday) float64 {
	if b.hasData[int(wd)] {
		return b.avg[int(wd)]
	}
	return b.overallAvg
}

// expected applies the weekday-strength assumption, scaling the deviation of
// the weekday mean from the overall anchor.
func (b weekdayBaseline) expected(wd time.Weekday, strength float64) float64 {
	return b.overallAvg + strength*(b.raw(wd)-b.overallAvg)
}

// residualStd is the sample standard deviation of (actual - raw weekday
// baseline) over the baseline window. Zero with fewer than two points.
func (b weekdayBaseline) residualStd() float64 {
	n := len(b.window)
	if n < 2 {
		return 0
	}
	var sum float64
	resid := make([]float64, 0, n)
	for _, dt := range b.window {
		r := dt.Total - b.raw(dt.Date.Weekday())
		resid = append(resid, r)
		sum += r
	}
	mean := sum / float64(n)
	var ss float64
	for _, r := range resid {
		ss += (r - mean) * (r - mean)
	}
	return math.Sqrt(ss / float64(n-1))
}

// growthFactor blends the recent-trend and month-over-month signals into one
// bounded multiplier. Signals that fail their data gate are skipped; with no
// qualifying signal the factor defaults to 1.0 before the assumption
// multiplier and clamp are applied.
func growthFactor(ts []DailyTotal, asOf, monthStart time.Time, mtdActual float64, elapsedDays int, a Assumptions) float64 {
	// Recent trend: trailing 14 days against the preceding 14.
	recentSum, recentN := sumBetween(ts, asOf.AddDate(0, 0, -13), asOf)
	priorSum, priorN := sumBetween(ts, asOf.AddDate(0, 0, -27), asOf.AddDate(0, 0, -14))
	recentGrowth := 1.0
	if priorN > 0 {
		recentMean := safeRatio(recentSum, float64(recentN), 0)
		priorMean := safeRatio(priorSum, float64(priorN), 0)
		recentGrowth = safeRatio(recentMean, priorMean, 1.0)
	}

	// Month over month: current MTD against the previous month through the
	// same elapsed-day cutoff, clamped to that month's length.
	prevMonthEnd := monthStart.AddDate(0, 0, -1)
	prevMonthStart := time.Date(prevMonthEnd.Year(), prevMonthEnd.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevAsOfDay := elapsedDays
	if n := daysInMonth(prevMonthEnd.Year(), prevMonthEnd.Month()); prevAsOfDay > n {
		prevAsOfDay = n
	}
	prevCutoff := prevMonthStart.AddDate(0, 0, prevAsOfDay-1)
	prevSum, prevN := sumBetween(ts, prevMonthStart, prevCutoff)
	momGrowth := 1.0
	if prevN > 0 {
		momGrowth = safeRatio(mtdActual, prevSum, 1.0)
	}

	type signal struct{ value, weight float64 }
	var signals []signal
	if priorN >= 7 {
		signals = append(signals, signal{recentGrowth, math.Max(a.RecentWeight, 0)})
	}
	if prevN > 0 {
		signals = append(signals, signal{momGrowth, math.Max(a.MoMWeight, 0)})
	}
	if len(signals) == 0 {
		signals = append(signals, signal{1.0, 1.0})
	}

	var weighted, weightSum float64
	for _, s := range signals {
		weighted += s.value * s.weight
		weightSum += s.weight
	}
	gf := safeRatio(weighted, weightSum, 1.0)
	gf *= a.EffectiveMultiplier()
	return math.Min(a.GrowthCeiling, math.Max(a.GrowthFloor, gf))
}

// Project computes the month-to-date projection for the month containing
// asOf. It returns nil when the series, the current-month slice or the
// pre-month history is empty; callers treat nil as "insufficient data".
func Project(series []DailyTotal, asOf time.Time, a Assumptions) *Projection {
	if len(series) == 0 {
		return nil
	}
	asOf = dateOnly(asOf)
	ts := Normalize(series, asOf)
	if len(ts) == 0 {
		return nil
	}

	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthDays := daysInMonth(asOf.Year(), asOf.Month())
	monthEnd := monthStart.AddDate(0, 0, monthDays-1)

	mtdActual, currentN := sumBetween(ts, monthStart, asOf)
	if currentN == 0 {
		return nil
	}
	elapsedDays := asOf.Day()

	var hist []DailyTotal
	for _, dt := range ts {
		if dt.Date.Before(monthStart) {
			hist = append(hist, dt)
		}
	}
	if len(hist) == 0 {
		return nil
	}
	baseline := buildBaseline(hist, monthStart)

	gf := growthFactor(ts, asOf, monthStart, mtdActual, elapsedDays, a)

	predicted := make(map[time.Time]float64, monthDays-elapsedDays)
	var remaining float64
	remainingDays := 0
	for d := asOf.AddDate(0, 0, 1); !d.After(monthEnd); d = d.AddDate(0, 0, 1) {
		pred := math.Max(0, baseline.expected(d.Weekday(), a.WeekdayStrength)*gf)
		predicted[d] = pred
		remaining += pred
		remainingDays++
	}
	projectedTotal := mtdActual + remaining

	forecastStd := math.Sqrt(math.Max(float64(remainingDays), 1)) *
		baseline.residualStd() * math.Max(a.VolatilityMultiplier, 0.1)
	ciLow := math.Max(0, projectedTotal-1.96*forecastStd)
	ciHigh := projectedTotal + 1.96*forecastStd

	actualByDate := make(map[time.Time]float64, currentN)
	for _, dt := range ts {
		if !dt.Date.Before(monthStart) && !dt.Date.After(asOf) {
			actualByDate[dt.Date] += dt.Total
		}
	}
	chart := make([]ChartPoint, 0, monthDays)
	for d := monthStart; !d.After(monthEnd); d = d.AddDate(0, 0, 1) {
		chart = append(chart, ChartPoint{
			Date:     d,
			Actual:   actualByDate[d],
			Forecast: predicted[d],
		})
	}

	return &Projection{
		MTDActual:      mtdActual,
		ProjectedTotal: projectedTotal,
		GrowthFactor:   gf,
		CILow:          ciLow,
		CIHigh:         ciHigh,
		Chart:          chart,
		ElapsedDays:    elapsedDays,
		MonthDays:      monthDays,
		MonthStart:     monthStart,
		MonthEnd:       monthEnd,
	}
}
