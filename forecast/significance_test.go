package forecast

import (
	"math"
	"testing"
	"time"
)

// shiftedSeries returns a baseline period at baseValue followed by a current
// month at curValue, with mild alternating noise so variances are non-zero.
func shiftedSeries(monthStart time.Time, asOfDay int, baseValue, curValue float64) []DailyTotal {
	var series []DailyTotal
	for i := baselineWindowDays; i >= 1; i-- {
		v := baseValue
		if i%2 == 0 {
			v += 5
		}
		series = append(series, DailyTotal{Date: monthStart.AddDate(0, 0, -i), Total: v})
	}
	for i := 0; i < asOfDay; i++ {
		v := curValue
		if i%2 == 0 {
			v += 5
		}
		series = append(series, DailyTotal{Date: monthStart.AddDate(0, 0, i), Total: v})
	}
	return series
}

func TestSignificanceDetectsShift(t *testing.T) {
	monthStart := day(2025, time.June, 1)
	series := shiftedSeries(monthStart, 15, 100, 200)
	sig := TestSignificance(series, day(2025, time.June, 15), DefaultAssumptions())
	if sig == nil {
		t.Fatal("expected a significance result, got nil")
	}
	if sig.Z <= 0 {
		t.Errorf("Z = %v, want > 0 for a doubling", sig.Z)
	}
	if sig.PValue < 0 || sig.PValue > 1 {
		t.Errorf("PValue = %v, want [0, 1]", sig.PValue)
	}
	if sig.Confidence < 0 || sig.Confidence > 1 {
		t.Errorf("Confidence = %v, want [0, 1]", sig.Confidence)
	}
	if !almostEqual(sig.Confidence, 1-sig.PValue) {
		t.Errorf("Confidence = %v, want 1 - PValue = %v", sig.Confidence, 1-sig.PValue)
	}
	if sig.PValue > 0.01 {
		t.Errorf("PValue = %v, want near zero for a doubling", sig.PValue)
	}
	if sig.MeanCurrent <= sig.MeanBaseline {
		t.Errorf("MeanCurrent %v not above MeanBaseline %v", sig.MeanCurrent, sig.MeanBaseline)
	}
}

func TestSignificanceFlatSeriesNotSignificant(t *testing.T) {
	monthStart := day(2025, time.June, 1)
	series := shiftedSeries(monthStart, 15, 100, 100)
	sig := TestSignificance(series, day(2025, time.June, 15), DefaultAssumptions())
	if sig == nil {
		t.Fatal("expected a significance result, got nil")
	}
	if math.Abs(sig.Z) > 1 {
		t.Errorf("Z = %v, want near zero for identical distributions", sig.Z)
	}
	if sig.PValue < 0.3 {
		t.Errorf("PValue = %v, want large for identical distributions", sig.PValue)
	}
}

func TestSignificanceMultiplierAdjustsCurrentMean(t *testing.T) {
	monthStart := day(2025, time.June, 1)
	series := shiftedSeries(monthStart, 15, 100, 100)
	a := DefaultAssumptions()
	a.ManualMultiplier = 2.0
	sig := TestSignificance(series, day(2025, time.June, 15), a)
	if sig == nil {
		t.Fatal("expected a significance result, got nil")
	}
	if sig.MeanCurrent < 2*sig.MeanBaseline*0.95 {
		t.Errorf("MeanCurrent = %v, want roughly double MeanBaseline %v", sig.MeanCurrent, sig.MeanBaseline)
	}
	if sig.Z <= 0 {
		t.Errorf("Z = %v, want > 0 once the multiplier doubles the current mean", sig.Z)
	}
}

func TestSignificanceInsufficientSamples(t *testing.T) {
	if sig := TestSignificance(nil, day(2025, time.June, 15), DefaultAssumptions()); sig != nil {
		t.Errorf("expected nil for empty series, got %+v", sig)
	}

	// Baseline sample of one point: below the n >= 2 guard.
	series := []DailyTotal{
		{Date: day(2025, time.May, 31), Total: 100},
		{Date: day(2025, time.June, 1), Total: 110},
		{Date: day(2025, time.June, 2), Total: 90},
		{Date: day(2025, time.June, 3), Total: 120},
	}
	if sig := TestSignificance(series, day(2025, time.June, 3), DefaultAssumptions()); sig != nil {
		t.Errorf("expected nil with a single baseline point, got %+v", sig)
	}

	// Current sample of one point.
	series = []DailyTotal{
		{Date: day(2025, time.May, 20), Total: 100},
		{Date: day(2025, time.May, 25), Total: 105},
		{Date: day(2025, time.June, 1), Total: 110},
	}
	if sig := TestSignificance(series, day(2025, time.June, 1), DefaultAssumptions()); sig != nil {
		t.Errorf("expected nil with a single current point, got %+v", sig)
	}
}

func TestSignificanceZeroStandardError(t *testing.T) {
	// Both samples perfectly constant: the combined standard error is zero
	// and the statistic is undefined.
	var series []DailyTotal
	for d := day(2025, time.April, 1); !d.After(day(2025, time.June, 10)); d = d.AddDate(0, 0, 1) {
		series = append(series, DailyTotal{Date: d, Total: 100})
	}
	if sig := TestSignificance(series, day(2025, time.June, 10), DefaultAssumptions()); sig != nil {
		t.Errorf("expected nil for zero standard error, got %+v", sig)
	}
}
