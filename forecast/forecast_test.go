package forecast

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// constantSeries returns n consecutive days ending at end, all at value.
func constantSeries(end time.Time, n int, value float64) []DailyTotal {
	out := make([]DailyTotal, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, DailyTotal{Date: end.AddDate(0, 0, -i), Total: value})
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestProjectFlatSeriesMidMonth(t *testing.T) {
	// 30 consecutive days at 100/day ending on June 15 of a 30-day month.
	series := constantSeries(day(2025, time.June, 15), 30, 100)
	p := Project(series, day(2025, time.June, 15), DefaultAssumptions())
	if p == nil {
		t.Fatal("expected a projection, got nil")
	}
	if !almostEqual(p.MTDActual, 1500) {
		t.Errorf("MTDActual = %v, want 1500", p.MTDActual)
	}
	if !almostEqual(p.GrowthFactor, 1.0) {
		t.Errorf("GrowthFactor = %v, want 1.0", p.GrowthFactor)
	}
	if !almostEqual(p.ProjectedTotal, 3000) {
		t.Errorf("ProjectedTotal = %v, want 3000", p.ProjectedTotal)
	}
	if p.ElapsedDays != 15 || p.MonthDays != 30 {
		t.Errorf("ElapsedDays/MonthDays = %d/%d, want 15/30", p.ElapsedDays, p.MonthDays)
	}
	// Flat history has zero residual so the band collapses onto the point.
	if !almostEqual(p.CILow, 3000) || !almostEqual(p.CIHigh, 3000) {
		t.Errorf("CI = [%v, %v], want [3000, 3000]", p.CILow, p.CIHigh)
	}
}

func TestProjectFlatLongHistory(t *testing.T) {
	// Plenty of history so both growth signals qualify; a flat series with a
	// neutral multiplier must project v * month_days.
	series := constantSeries(day(2025, time.June, 10), 150, 250)
	p := Project(series, day(2025, time.June, 10), DefaultAssumptions())
	if p == nil {
		t.Fatal("expected a projection, got nil")
	}
	if !almostEqual(p.GrowthFactor, 1.0) {
		t.Errorf("GrowthFactor = %v, want 1.0", p.GrowthFactor)
	}
	if !almostEqual(p.ProjectedTotal, 250*30) {
		t.Errorf("ProjectedTotal = %v, want %v", p.ProjectedTotal, 250.0*30)
	}
}

func TestProjectEmptySeries(t *testing.T) {
	if p := Project(nil, day(2025, time.June, 15), DefaultAssumptions()); p != nil {
		t.Errorf("expected nil projection for empty series, got %+v", p)
	}
	if p := Project([]DailyTotal{}, day(2025, time.June, 15), DefaultAssumptions()); p != nil {
		t.Errorf("expected nil projection for empty slice, got %+v", p)
	}
}

func TestProjectNoCurrentMonthData(t *testing.T) {
	// History exists but nothing inside the current month.
	series := constantSeries(day(2025, time.May, 31), 60, 100)
	if p := Project(series, day(2025, time.June, 15), DefaultAssumptions()); p != nil {
		t.Errorf("expected nil projection without MTD rows, got %+v", p)
	}
}

func TestProjectNoHistory(t *testing.T) {
	// Only current-month data: no baseline window, no projection.
	series := constantSeries(day(2025, time.June, 15), 15, 100)
	if p := Project(series, day(2025, time.June, 15), DefaultAssumptions()); p != nil {
		t.Errorf("expected nil projection without history, got %+v", p)
	}
}

func TestGrowthFactorStaysClamped(t *testing.T) {
	a := DefaultAssumptions()

	// Strong acceleration: current month 10x the previous.
	var series []DailyTotal
	for d := day(2025, time.March, 1); d.Before(day(2025, time.June, 1)); d = d.AddDate(0, 0, 1) {
		series = append(series, DailyTotal{Date: d, Total: 50})
	}
	for d := day(2025, time.June, 1); !d.After(day(2025, time.June, 15)); d = d.AddDate(0, 0, 1) {
		series = append(series, DailyTotal{Date: d, Total: 500})
	}
	p := Project(series, day(2025, time.June, 15), a)
	if p == nil {
		t.Fatal("expected a projection, got nil")
	}
	if p.GrowthFactor < a.GrowthFloor || p.GrowthFactor > a.GrowthCeiling {
		t.Errorf("GrowthFactor %v outside [%v, %v]", p.GrowthFactor, a.GrowthFloor, a.GrowthCeiling)
	}
	if !almostEqual(p.GrowthFactor, a.GrowthCeiling) {
		t.Errorf("GrowthFactor = %v, want ceiling %v for a 10x jump", p.GrowthFactor, a.GrowthCeiling)
	}

	// Collapse: a sharp decline must stop at the floor.
	var decline []DailyTotal
	for d := day(2025, time.March, 1); d.Before(day(2025, time.June, 1)); d = d.AddDate(0, 0, 1) {
		decline = append(decline, DailyTotal{Date: d, Total: 500})
	}
	for d := day(2025, time.June, 1); !d.After(day(2025, time.June, 15)); d = d.AddDate(0, 0, 1) {
		decline = append(decline, DailyTotal{Date: d, Total: 10})
	}
	p = Project(decline, day(2025, time.June, 15), a)
	if p == nil {
		t.Fatal("expected a projection, got nil")
	}
	if !almostEqual(p.GrowthFactor, a.GrowthFloor) {
		t.Errorf("GrowthFactor = %v, want floor %v for a collapse", p.GrowthFactor, a.GrowthFloor)
	}
}

func TestGrowthClampCollapsesToPoint(t *testing.T) {
	a := DefaultAssumptions()
	a.GrowthFloor = 1.0
	a.GrowthCeiling = 1.0
	a.ManualMultiplier = 5.0

	series := constantSeries(day(2025, time.June, 15), 120, 100)
	p := Project(series, day(2025, time.June, 15), a)
	if p == nil {
		t.Fatal("expected a projection, got nil")
	}
	if !almostEqual(p.GrowthFactor, 1.0) {
		t.Errorf("GrowthFactor = %v, want 1.0 with a collapsed clamp", p.GrowthFactor)
	}
}

func TestConfidenceBandBracketsProjection(t *testing.T) {
	// Noisy-ish weekday pattern so the residual is non-zero.
	var series []DailyTotal
	for d := day(2025, time.February, 1); !d.After(day(2025, time.June, 12)); d = d.AddDate(0, 0, 1) {
		v := 100.0
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			v = 160
		case time.Wednesday:
			v = 70
		}
		if d.Day()%5 == 0 {
			v += 25
		}
		series = append(series, DailyTotal{Date: d, Total: v})
	}
	p := Project(series, day(2025, time.June, 12), DefaultAssumptions())
	if p == nil {
		t.Fatal("expected a projection, got nil")
	}
	if p.CILow > p.ProjectedTotal || p.CIHigh < p.ProjectedTotal {
		t.Errorf("CI [%v, %v] does not bracket %v", p.CILow, p.CIHigh, p.ProjectedTotal)
	}
	if p.CILow < 0 {
		t.Errorf("CILow = %v, want >= 0", p.CILow)
	}
	if p.CIHigh-p.CILow <= 0 {
		t.Errorf("expected a non-degenerate band, got [%v, %v]", p.CILow, p.CIHigh)
	}
}

func TestVolatilityMultiplierWidensBand(t *testing.T) {
	var series []DailyTotal
	for d := day(2025, time.March, 1); !d.After(day(2025, time.June, 10)); d = d.AddDate(0, 0, 1) {
		v := 100.0
		if d.Weekday() == time.Saturday {
			v = 180
		}
		// Day-of-month spikes land on different weekdays each month, so the
		// per-weekday residual is non-zero.
		if d.Day()%7 == 0 {
			v += 30
		}
		series = append(series, DailyTotal{Date: d, Total: v})
	}
	base := Project(series, day(2025, time.June, 10), DefaultAssumptions())
	wide := DefaultAssumptions()
	wide.VolatilityMultiplier = 3.0
	p := Project(series, day(2025, time.June, 10), wide)
	if base == nil || p == nil {
		t.Fatal("expected projections, got nil")
	}
	if (p.CIHigh - p.CILow) <= (base.CIHigh - base.CILow) {
		t.Errorf("volatility 3.0 band [%v, %v] not wider than base [%v, %v]",
			p.CILow, p.CIHigh, base.CILow, base.CIHigh)
	}
}

func TestWeekdayStrengthZeroFlattensBaseline(t *testing.T) {
	// With strength 0 every remaining day projects at the overall mean.
	var series []DailyTotal
	for d := day(2025, time.March, 1); !d.After(day(2025, time.June, 10)); d = d.AddDate(0, 0, 1) {
		v := 100.0
		if d.Weekday() == time.Sunday {
			v = 240
		}
		series = append(series, DailyTotal{Date: d, Total: v})
	}
	a := DefaultAssumptions()
	a.WeekdayStrength = 0
	p := Project(series, day(2025, time.June, 10), a)
	if p == nil {
		t.Fatal("expected a projection, got nil")
	}
	var forecasts []float64
	for _, pt := range p.Chart {
		if pt.Forecast > 0 {
			forecasts = append(forecasts, pt.Forecast)
		}
	}
	if len(forecasts) == 0 {
		t.Fatal("expected forecast days in the chart")
	}
	for _, f := range forecasts {
		if !almostEqual(f, forecasts[0]) {
			t.Errorf("forecasts vary with strength 0: %v vs %v", f, forecasts[0])
		}
	}
}

func TestProjectIdempotent(t *testing.T) {
	series := constantSeries(day(2025, time.June, 15), 90, 123.45)
	a := DefaultAssumptions()
	p1 := Project(series, day(2025, time.June, 15), a)
	p2 := Project(series, day(2025, time.June, 15), a)
	if p1 == nil || p2 == nil {
		t.Fatal("expected projections, got nil")
	}
	if !reflect.DeepEqual(p1, p2) {
		t.Errorf("repeated calls differ: %+v vs %+v", p1, p2)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	series := []DailyTotal{
		{Date: day(2025, time.June, 3), Total: 100},
		{Date: day(2025, time.June, 1), Total: 90},
		{Date: day(2025, time.May, 20), Total: 80},
		{Date: day(2025, time.May, 10), Total: 85},
	}
	before := make([]DailyTotal, len(series))
	copy(before, series)
	Project(series, day(2025, time.June, 3), DefaultAssumptions())
	if !reflect.DeepEqual(series, before) {
		t.Errorf("input slice mutated: %+v", series)
	}
}

func TestChartCoversFullMonth(t *testing.T) {
	series := constantSeries(day(2025, time.June, 10), 60, 100)
	p := Project(series, day(2025, time.June, 10), DefaultAssumptions())
	if p == nil {
		t.Fatal("expected a projection, got nil")
	}
	if len(p.Chart) != p.MonthDays {
		t.Fatalf("chart has %d points, want %d", len(p.Chart), p.MonthDays)
	}
	for i, pt := range p.Chart {
		wantDate := p.MonthStart.AddDate(0, 0, i)
		if !pt.Date.Equal(wantDate) {
			t.Errorf("chart[%d].Date = %v, want %v", i, pt.Date, wantDate)
		}
		if i < p.ElapsedDays && pt.Forecast != 0 {
			t.Errorf("chart[%d] elapsed day has forecast %v", i, pt.Forecast)
		}
		if i >= p.ElapsedDays && pt.Actual != 0 {
			t.Errorf("chart[%d] future day has actual %v", i, pt.Actual)
		}
	}
}

func TestNormalizeDropsAndSorts(t *testing.T) {
	series := []DailyTotal{
		{Date: day(2025, time.June, 5), Total: 3},
		{Date: time.Time{}, Total: 99}, // unusable date, dropped
		{Date: day(2025, time.June, 1), Total: 1},
		{Date: day(2025, time.June, 20), Total: 7}, // after as-of, dropped
		{Date: day(2025, time.June, 3), Total: 2},
	}
	got := Normalize(series, day(2025, time.June, 10))
	want := []DailyTotal{
		{Date: day(2025, time.June, 1), Total: 1},
		{Date: day(2025, time.June, 3), Total: 2},
		{Date: day(2025, time.June, 5), Total: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %+v, want %+v", got, want)
	}
}

func TestEffectiveMultiplier(t *testing.T) {
	a := DefaultAssumptions()
	if !almostEqual(a.EffectiveMultiplier(), 1.0) {
		t.Errorf("default EffectiveMultiplier = %v, want 1.0", a.EffectiveMultiplier())
	}
	a.ManualMultiplier = 1.2
	a.PromoLiftPct = 0.1
	a.ContentLiftPct = 0.05
	a.InstockRate = 0.9
	want := 1.2 * 1.1 * 1.05 * 0.9
	if !almostEqual(a.EffectiveMultiplier(), want) {
		t.Errorf("EffectiveMultiplier = %v, want %v", a.EffectiveMultiplier(), want)
	}
}

func TestSafeRatio(t *testing.T) {
	tests := []struct {
		name               string
		num, den, fallback float64
		want               float64
	}{
		{"normal", 10, 4, 1, 2.5},
		{"zero denominator", 10, 0, 1, 1},
		{"near-zero denominator", 10, 1e-12, 1, 1},
		{"negative", -9, 3, 1, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := safeRatio(tt.num, tt.den, tt.fallback); !almostEqual(got, tt.want) {
				t.Errorf("safeRatio(%v, %v, %v) = %v, want %v", tt.num, tt.den, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestNormalCDF(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1.96, 0.9750021},
		{-1.96, 0.0249979},
		{1, 0.8413447},
	}
	for _, tt := range tests {
		if got := normalCDF(tt.x); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("normalCDF(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}
