package forecast

// Assumptions are the user-tunable inputs to the projection. Zero values are
// not meaningful defaults; construct with DefaultAssumptions and override.
type Assumptions struct {
	RecentWeight         float64 `json:"recent_weight"`
	MoMWeight            float64 `json:"mom_weight"`
	WeekdayStrength      float64 `json:"weekday_strength"`
	ManualMultiplier     float64 `json:"manual_multiplier"`
	PromoLiftPct         float64 `json:"promo_lift_pct"`
	ContentLiftPct       float64 `json:"content_lift_pct"`
	InstockRate          float64 `json:"instock_rate"`
	GrowthFloor          float64 `json:"growth_floor"`
	GrowthCeiling        float64 `json:"growth_ceiling"`
	VolatilityMultiplier float64 `json:"volatility_multiplier"`
}

// DefaultAssumptions returns the documented defaults: a 60/40 blend of the
// recent-trend and month-over-month signals, neutral business levers, and a
// growth clamp of [0.5, 1.8].
func DefaultAssumptions() Assumptions {
	return Assumptions{
		RecentWeight:         0.6,
		MoMWeight:            0.4,
		WeekdayStrength:      1.0,
		ManualMultiplier:     1.0,
		PromoLiftPct:         0.0,
		ContentLiftPct:       0.0,
		InstockRate:          1.0,
		GrowthFloor:          0.5,
		GrowthCeiling:        1.8,
		VolatilityMultiplier: 1.0,
	}
}

// EffectiveMultiplier collapses the business levers into the single
// multiplicative factor applied to the blended growth signal and to the
// significance test's current-period mean.
func (a Assumptions) EffectiveMultiplier() float64 {
	return a.ManualMultiplier * (1.0 + a.PromoLiftPct) * (1.0 + a.ContentLiftPct) * a.InstockRate
}
