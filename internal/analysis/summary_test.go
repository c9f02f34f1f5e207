package analysis

import "testing"

func TestSummarize(t *testing.T) {
	points := []SweepPoint{
		{R0: 1.1, AttackRate: 0.18},
		{R0: 1.7, AttackRate: 0.55},
		{R0: 3.0, AttackRate: 0.94},
	}
	summary := Summarize(points)
	if summary.Points != 3 {
		t.Fatalf("expected 3 points, got %d", summary.Points)
	}
	if summary.MinAttackRate != 0.18 || summary.MaxAttackRate != 0.94 {
		t.Fatalf("unexpected bounds: %+v", summary)
	}
	if !summary.Monotone {
		t.Fatalf("expected monotone sweep")
	}
	if summary.HalfCrossingR0 != 1.7 {
		t.Fatalf("expected half crossing at R0=1.7, got %g", summary.HalfCrossingR0)
	}
}

func TestSummarizeNonMonotone(t *testing.T) {
	points := []SweepPoint{
		{R0: 2.0, AttackRate: 0.8},
		{R0: 1.2, AttackRate: 0.3},
	}
	summary := Summarize(points)
	if summary.Monotone {
		t.Fatalf("expected non-monotone sweep")
	}
	if summary.HalfCrossingR0 != 2.0 {
		t.Fatalf("expected half crossing at the first point, got %g", summary.HalfCrossingR0)
	}
}

func TestSummarizeNoHalfCrossing(t *testing.T) {
	summary := Summarize([]SweepPoint{{R0: 1.05, AttackRate: 0.09}})
	if summary.HalfCrossingR0 != -1 {
		t.Fatalf("expected no half crossing, got %g", summary.HalfCrossingR0)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if summary := Summarize(nil); summary != (SweepSummary{}) {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}
