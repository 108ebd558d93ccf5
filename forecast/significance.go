package forecast

import (
	"math"
	"time"
)

// Significance is the two-sample z-test of current month-to-date revenue
// against the trailing baseline period.
type Significance struct {
	Z            float64 `json:"z"`
	PValue       float64 `json:"p_value"`
	Confidence   float64 `json:"confidence"`
	MeanCurrent  float64 `json:"mean_current"`
	MeanBaseline float64 `json:"mean_baseline"`
}

// sampleStats returns mean and sample standard deviation (n-1 denominator).
func sampleStats(values []float64) (mean, std float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)
	if n < 2 {
		return mean, 0
	}
	var ss float64
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(ss / float64(n-1))
}

// TestSignificance compares the current month-to-date daily totals against
// the 84 days preceding the month start. The current mean is scaled by the
// assumption multiplier so business levers affect the test the same way they
// affect the projection. Returns nil when either sample has fewer than two
// points or the combined standard error is zero.
func TestSignificance(series []DailyTotal, asOf time.Time, a Assumptions) *Significance {
	if len(series) == 0 {
		return nil
	}
	asOf = dateOnly(asOf)
	ts := Normalize(series, asOf)
	if len(ts) == 0 {
		return nil
	}

	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	baselineStart := monthStart.AddDate(0, 0, -baselineWindowDays)

	var current, baseline []float64
	for _, dt := range ts {
		switch {
		case !dt.Date.Before(monthStart) && !dt.Date.After(asOf):
			current = append(current, dt.Total)
		case !dt.Date.Before(baselineStart) && dt.Date.Before(monthStart):
			baseline = append(baseline, dt.Total)
		}
	}
	if len(current) < 2 || len(baseline) < 2 {
		return nil
	}

	meanCur, stdCur := sampleStats(current)
	meanBase, stdBase := sampleStats(baseline)
	meanCur *= a.EffectiveMultiplier()

	se := math.Sqrt(stdCur*stdCur/float64(len(current)) + stdBase*stdBase/float64(len(baseline)))
	if se < zeroEps {
		return nil
	}
	z := (meanCur - meanBase) / se
	p := 2 * (1 - normalCDF(math.Abs(z)))
	return &Significance{
		Z:            z,
		PValue:       p,
		Confidence:   1 - p,
		MeanCurrent:  meanCur,
		MeanBaseline: meanBase,
	}
}
