package analysis

// SweepSummary aggregates a sweep into the figures the reports print.
// HalfCrossingR0 is the first R0 whose attack rate exceeds one half, or -1
// when no point reaches it.
type SweepSummary struct {
	Points         int     `json:"points"`
	MinAttackRate  float64 `json:"min_attack_rate"`
	MaxAttackRate  float64 `json:"max_attack_rate"`
	Monotone       bool    `json:"monotone"`
	HalfCrossingR0 float64 `json:"half_crossing_r0"`
}

// Summarize scans sweep points in input order. An empty sweep yields the
// zero summary.
func Summarize(points []SweepPoint) SweepSummary {
	if len(points) == 0 {
		return SweepSummary{}
	}

	summary := SweepSummary{
		Points:         len(points),
		MinAttackRate:  points[0].AttackRate,
		MaxAttackRate:  points[0].AttackRate,
		Monotone:       true,
		HalfCrossingR0: -1,
	}

	const slack = 1e-9
	for i, pt := range points {
		if pt.AttackRate < summary.MinAttackRate {
			summary.MinAttackRate = pt.AttackRate
		}
		if pt.AttackRate > summary.MaxAttackRate {
			summary.MaxAttackRate = pt.AttackRate
		}
		if i > 0 && pt.AttackRate < points[i-1].AttackRate-slack {
			summary.Monotone = false
		}
		if summary.HalfCrossingR0 < 0 && pt.AttackRate > 0.5 {
			summary.HalfCrossingR0 = pt.R0
		}
	}
	return summary
}
