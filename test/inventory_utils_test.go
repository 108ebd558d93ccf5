package main

import (
	"math"
	"testing"
	"time"

	"app/utils"
)

func TestDailyDemandWeighting(t *testing.T) {
	// Uniform demand: every window implies the same rate, so the blend
	// equals it regardless of the weights.
	d := utils.DemandWindows{Units7d: 70, Units30d: 300, Units60d: 600, Units90d: 900}
	got := utils.DailyDemand(d, utils.DefaultWosWeights())
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("DailyDemand = %v, want 10", got)
	}

	// Recent spike dominates under the default recency weighting.
	spiky := utils.DemandWindows{Units7d: 140, Units30d: 300, Units60d: 600, Units90d: 900}
	if utils.DailyDemand(spiky, utils.DefaultWosWeights()) <= got {
		t.Error("recent spike should raise blended demand")
	}
}

func TestDailyDemandZeroWeightsFallBack(t *testing.T) {
	d := utils.DemandWindows{Units7d: 70, Units30d: 300, Units60d: 600, Units90d: 900}
	zero := utils.WosWeights{}
	if got := utils.DailyDemand(d, zero); math.Abs(got-10) > 1e-9 {
		t.Errorf("DailyDemand with zero weights = %v, want 10 (default weights)", got)
	}
}

func TestWeeksOfSupply(t *testing.T) {
	wos, ok := utils.WeeksOfSupply(140, 100, 20, 10)
	if !ok {
		t.Fatal("expected demand to be present")
	}
	// Effective stock is max(140, 120) = 140; weekly demand 70.
	if math.Abs(wos-2) > 1e-9 {
		t.Errorf("WeeksOfSupply = %v, want 2", wos)
	}

	if _, ok := utils.WeeksOfSupply(140, 100, 20, 0); ok {
		t.Error("expected no result with zero demand")
	}
}

func TestClassifyStock(t *testing.T) {
	cases := []struct {
		name      string
		available float64
		wos       float64
		hasDemand bool
		want      string
	}{
		{"out of stock", 0, 5, true, "OOS"},
		{"no demand", 10, 0, false, "No Demand"},
		{"critical", 10, 1.5, true, "Critical"},
		{"restock", 10, 3, true, "Restock"},
		{"at risk", 10, 6, true, "At Risk"},
		{"healthy", 10, 12, true, "Healthy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := utils.ClassifyStock(tc.available, tc.wos, tc.hasDemand); got != tc.want {
				t.Errorf("ClassifyStock = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRestockUnits(t *testing.T) {
	// 10/day at an 8-week target needs 560 units; 120 already covered.
	if got := utils.RestockUnits(10, 8, 100, 20); math.Abs(got-440) > 1e-9 {
		t.Errorf("RestockUnits = %v, want 440", got)
	}
	// Overstocked SKUs never go negative.
	if got := utils.RestockUnits(1, 1, 500, 0); got != 0 {
		t.Errorf("RestockUnits = %v, want 0", got)
	}
}

func TestEstOOSDate(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got, ok := utils.EstOOSDate(base, 100, 10)
	if !ok {
		t.Fatal("expected an estimate with positive demand")
	}
	want := base.AddDate(0, 0, 10)
	if got.Sub(want) > time.Hour || want.Sub(got) > time.Hour {
		t.Errorf("EstOOSDate = %v, want about %v", got, want)
	}

	if _, ok := utils.EstOOSDate(base, 100, 0); ok {
		t.Error("expected no estimate with zero demand")
	}
}
