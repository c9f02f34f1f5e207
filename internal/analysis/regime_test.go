package analysis

import (
	"errors"
	"testing"

	"github.com/epistack/epi-sim/internal/sir"
)

func TestClassifySupercritical(t *testing.T) {
	p := sir.Params{Beta: 0.3, Gamma: 0.1, N: 100000}
	tr, err := sir.Simulate(p, sir.Split(p.N, 100, 0), sir.DailyGrid(365))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	regime, err := Classify(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if regime.Kind != RegimeSupercritical {
		t.Fatalf("expected supercritical, got %s", regime.Kind)
	}
	if !regime.InteriorPeak {
		t.Fatalf("expected an interior peak")
	}
	if regime.HerdCrossingTime <= 0 {
		t.Fatalf("expected a herd-immunity crossing, got %g", regime.HerdCrossingTime)
	}
	if regime.FinalSusceptible >= 0.1 {
		t.Fatalf("expected deep susceptible depletion, got %g", regime.FinalSusceptible)
	}
	if len(regime.Notes) == 0 {
		t.Fatalf("expected classification notes")
	}
}

func TestClassifySubcritical(t *testing.T) {
	p := sir.Params{Beta: 0.1, Gamma: 0.1, N: 100000}
	tr, err := sir.Simulate(p, sir.Split(p.N, 100, 0), sir.DailyGrid(365))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	regime, err := Classify(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if regime.Kind != RegimeSubcritical {
		t.Fatalf("expected subcritical, got %s", regime.Kind)
	}
	if regime.InteriorPeak {
		t.Fatalf("declining epidemics have no interior peak")
	}
	if regime.HerdCrossingTime != -1 {
		t.Fatalf("expected no herd crossing, got %g", regime.HerdCrossingTime)
	}
}

func TestClassifyEmptyTrajectory(t *testing.T) {
	if _, err := Classify(&sir.Trajectory{}); !errors.Is(err, sir.ErrEmptyTrajectory) {
		t.Fatalf("expected ErrEmptyTrajectory, got %v", err)
	}
}
