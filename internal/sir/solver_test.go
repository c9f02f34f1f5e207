package sir

import (
	"errors"
	"math"
	"testing"
)

var (
	seasonalParams = Params{Beta: 0.3, Gamma: 0.1, N: 100000}
	seasonalInit   = InitialState{S0: 99900, I0: 100, R0: 0}
)

func TestSimulateValidatesInputs(t *testing.T) {
	grid := DailyGrid(10)

	if _, err := Simulate(Params{Beta: 0, Gamma: 0.1, N: 1000}, Split(1000, 10, 0), grid); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
	if _, err := Simulate(seasonalParams, InitialState{S0: 1, I0: 1, R0: 1}, grid); !errors.Is(err, ErrInvalidInitialState) {
		t.Fatalf("expected ErrInvalidInitialState, got %v", err)
	}
	if _, err := Simulate(seasonalParams, seasonalInit, TimeGrid{}); !errors.Is(err, ErrEmptyTimeGrid) {
		t.Fatalf("expected ErrEmptyTimeGrid, got %v", err)
	}
	if _, err := Simulate(seasonalParams, seasonalInit, TimeGrid{0, 5, 3}); !errors.Is(err, ErrInvalidTimeGrid) {
		t.Fatalf("expected ErrInvalidTimeGrid, got %v", err)
	}
}

func TestSimulateConservesPopulation(t *testing.T) {
	tr, err := Simulate(seasonalParams, seasonalInit, DailyGrid(365))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := float64(seasonalParams.N)
	for i := range tr.Times {
		total := tr.S[i] + tr.I[i] + tr.R[i]
		if rel := math.Abs(total-n) / n; rel > 1e-4 {
			t.Fatalf("conservation violated at t=%g: total=%g (rel %g)", tr.Times[i], total, rel)
		}
	}
}

func TestSimulateCompartmentsStayNonNegative(t *testing.T) {
	tr, err := Simulate(seasonalParams, seasonalInit, DailyGrid(365))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range tr.Times {
		if tr.S[i] < 0 || tr.I[i] < 0 || tr.R[i] < 0 {
			t.Fatalf("negative compartment at t=%g: S=%g I=%g R=%g", tr.Times[i], tr.S[i], tr.I[i], tr.R[i])
		}
	}
}

func TestSimulateRecoveredMonotone(t *testing.T) {
	tr, err := Simulate(seasonalParams, seasonalInit, DailyGrid(365))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slack := 1e-9 * float64(seasonalParams.N)
	for i := 1; i < tr.Len(); i++ {
		if tr.R[i] < tr.R[i-1]-slack {
			t.Fatalf("recovered decreased at t=%g: %g -> %g", tr.Times[i], tr.R[i-1], tr.R[i])
		}
	}
}

func TestSimulateSupercriticalPeak(t *testing.T) {
	tr, err := Simulate(seasonalParams, seasonalInit, DailyGrid(365))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	peak := 0
	for i := range tr.I {
		if tr.I[i] > tr.I[peak] {
			peak = i
		}
	}
	if peak == 0 || peak == tr.Len()-1 {
		t.Fatalf("expected interior peak, got index %d of %d", peak, tr.Len())
	}
	if tr.I[peak] <= seasonalInit.I0 {
		t.Fatalf("peak %g should exceed the seed %g", tr.I[peak], seasonalInit.I0)
	}

	// Theory puts the peak share at 1 - 1/R0 - ln(R0)/R0, about 0.30 here.
	share := tr.I[peak] / float64(seasonalParams.N)
	if share < 0.25 || share > 0.35 {
		t.Fatalf("peak share %g outside the expected band", share)
	}
	if tr.Times[peak] < 20 || tr.Times[peak] > 100 {
		t.Fatalf("peak time %g outside the expected band", tr.Times[peak])
	}
}

func TestSimulateSubcriticalDecline(t *testing.T) {
	p := Params{Beta: 0.1, Gamma: 0.1, N: 100000}
	init := Split(p.N, 100, 0)
	tr, err := Simulate(p, init, DailyGrid(365))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	margin := 1e-6 * init.I0
	for i := range tr.I {
		if tr.I[i] > init.I0+margin {
			t.Fatalf("infected exceeded the seed at t=%g: %g", tr.Times[i], tr.I[i])
		}
		if i > 0 && tr.I[i] > tr.I[i-1]+margin {
			t.Fatalf("infected increased at t=%g: %g -> %g", tr.Times[i], tr.I[i-1], tr.I[i])
		}
	}

	if attack := tr.R[tr.Len()-1] / float64(p.N); attack >= 0.5 {
		t.Fatalf("borderline epidemic should stay small, attack rate %g", attack)
	}
}

func TestSimulateSeasonalBurnsOut(t *testing.T) {
	tr, err := Simulate(seasonalParams, seasonalInit, DailyGrid(365))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attack := tr.R[tr.Len()-1] / float64(seasonalParams.N); attack <= 0.9 {
		t.Fatalf("expected attack rate above 0.9, got %g", attack)
	}
	if _, inf, _ := tr.Final(); inf > 1 {
		t.Fatalf("epidemic should have burned out, final infected %g", inf)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	grid := DailyGrid(365)
	first, err := Simulate(seasonalParams, seasonalInit, grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Simulate(seasonalParams, seasonalInit, grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first.Times {
		if first.S[i] != second.S[i] || first.I[i] != second.I[i] || first.R[i] != second.R[i] {
			t.Fatalf("runs diverged at index %d", i)
		}
	}
}

func TestSimulateSinglePointGrid(t *testing.T) {
	tr, err := Simulate(seasonalParams, seasonalInit, TimeGrid{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Len() != 1 {
		t.Fatalf("expected one sample, got %d", tr.Len())
	}
	if tr.S[0] != seasonalInit.S0 || tr.I[0] != seasonalInit.I0 || tr.R[0] != seasonalInit.R0 {
		t.Fatalf("single sample should be the initial state: %+v", tr)
	}
}

func TestSimulateDuplicateTimesRepeatSample(t *testing.T) {
	tr, err := Simulate(seasonalParams, seasonalInit, TimeGrid{0, 5, 5, 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.S[1] != tr.S[2] || tr.I[1] != tr.I[2] || tr.R[1] != tr.R[2] {
		t.Fatalf("duplicate grid times should repeat the sample")
	}
	if tr.I[1] == tr.I[0] {
		t.Fatalf("solution should have moved between day 0 and day 5")
	}
}

func TestSimulateNonZeroStart(t *testing.T) {
	tr, err := Simulate(seasonalParams, seasonalInit, TimeGrid{30, 40, 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.S[0] != seasonalInit.S0 || tr.I[0] != seasonalInit.I0 {
		t.Fatalf("initial state should sit at the first grid time")
	}
	if tr.I[2] <= tr.I[0] {
		t.Fatalf("epidemic should be growing over days 30-50")
	}
}

func TestSimulateLargePopulation(t *testing.T) {
	p := Params{Beta: 0.3, Gamma: 0.1, N: 100_000_000}
	tr, err := Simulate(p, Split(p.N, 1000, 0), DailyGrid(365))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := float64(p.N)
	for i := range tr.Times {
		if rel := math.Abs(tr.S[i]+tr.I[i]+tr.R[i]-n) / n; rel > 1e-4 {
			t.Fatalf("conservation violated at t=%g (rel %g)", tr.Times[i], rel)
		}
	}
}
