// Package sir implements the deterministic SIR compartmental model: parameter
// and state types with fail-fast validation, and an adaptive Runge-Kutta
// integrator that samples the solution on a caller-supplied time grid.
// The package performs no I/O and holds no global state.
package sir

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidParams       = errors.New("sir: invalid model parameters")
	ErrInvalidInitialState = errors.New("sir: invalid initial state")
	ErrEmptyTimeGrid       = errors.New("sir: empty time grid")
	ErrInvalidTimeGrid     = errors.New("sir: invalid time grid")
	ErrEmptyTrajectory     = errors.New("sir: empty trajectory")
	ErrInvalidPopulation   = errors.New("sir: population must be positive")
	ErrStepUnderflow       = errors.New("sir: step size underflow")
)

// initialStateTol is the relative slack allowed between S0+I0+R0 and N,
// admitting compartment splits that were themselves computed in floating point.
const initialStateTol = 1e-6

// Params holds the SIR transmission dynamics: rates in units of 1/day and the
// closed population size shared by all compartments.
type Params struct {
	Beta  float64
	Gamma float64
	N     int64
}

// Validate rejects non-positive or non-finite rates and populations.
func (p Params) Validate() error {
	if !isFinite(p.Beta) || p.Beta <= 0 {
		return fmt.Errorf("%w: beta must be positive and finite, got %g", ErrInvalidParams, p.Beta)
	}
	if !isFinite(p.Gamma) || p.Gamma <= 0 {
		return fmt.Errorf("%w: gamma must be positive and finite, got %g", ErrInvalidParams, p.Gamma)
	}
	if p.N <= 0 {
		return fmt.Errorf("%w: population must be positive, got %d", ErrInvalidParams, p.N)
	}
	return nil
}

// InitialState is the compartment split at the first grid time. The fields
// are counts, not fractions, and must sum to the population size.
type InitialState struct {
	S0 float64
	I0 float64
	R0 float64
}

// Validate rejects negative or non-finite compartments and splits that do not
// sum to n within a small relative tolerance.
func (s InitialState) Validate(n int64) error {
	for _, c := range []struct {
		name  string
		value float64
	}{{"S0", s.S0}, {"I0", s.I0}, {"R0", s.R0}} {
		if !isFinite(c.value) || c.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative and finite, got %g", ErrInvalidInitialState, c.name, c.value)
		}
	}
	total := s.S0 + s.I0 + s.R0
	if math.Abs(total-float64(n)) > initialStateTol*float64(n) {
		return fmt.Errorf("%w: compartments sum to %g, expected population %d", ErrInvalidInitialState, total, n)
	}
	return nil
}

// Split builds the conventional initial state with everyone susceptible
// except the given infected and recovered counts.
func Split(n int64, infected, recovered float64) InitialState {
	return InitialState{
		S0: float64(n) - infected - recovered,
		I0: infected,
		R0: recovered,
	}
}

// TimeGrid lists the times, in days, at which the solution is reported.
// Entries must be finite and non-decreasing; duplicates repeat the sample.
type TimeGrid []float64

// Validate rejects empty, unordered or non-finite grids.
func (g TimeGrid) Validate() error {
	if len(g) == 0 {
		return ErrEmptyTimeGrid
	}
	for i, t := range g {
		if !isFinite(t) {
			return fmt.Errorf("%w: non-finite time at index %d", ErrInvalidTimeGrid, i)
		}
		if i > 0 && t < g[i-1] {
			return fmt.Errorf("%w: t[%d]=%g precedes t[%d]=%g", ErrInvalidTimeGrid, i, t, i-1, g[i-1])
		}
	}
	return nil
}

// DailyGrid returns days 0 through horizonDays inclusive at unit spacing.
func DailyGrid(horizonDays int) TimeGrid {
	if horizonDays < 1 {
		return TimeGrid{0}
	}
	grid := make(TimeGrid, horizonDays+1)
	floats.Span(grid, 0, float64(horizonDays))
	return grid
}

// UniformGrid returns n equally spaced times from start to end inclusive.
func UniformGrid(start, end float64, n int) TimeGrid {
	if n < 2 {
		return TimeGrid{start}
	}
	grid := make(TimeGrid, n)
	floats.Span(grid, start, end)
	return grid
}

// Trajectory is the sampled solution. S, I and R are index-aligned with
// Times and carry the parameters that produced them.
type Trajectory struct {
	Params Params
	Times  []float64
	S      []float64
	I      []float64
	R      []float64
}

// Len returns the number of samples.
func (tr *Trajectory) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.Times)
}

// At returns the sample at index i as (time, S, I, R).
func (tr *Trajectory) At(i int) (t, s, inf, rec float64) {
	return tr.Times[i], tr.S[i], tr.I[i], tr.R[i]
}

// Final returns the compartments at the last sample.
func (tr *Trajectory) Final() (s, inf, rec float64) {
	last := tr.Len() - 1
	return tr.S[last], tr.I[last], tr.R[last]
}

func (tr *Trajectory) set(i int, y [3]float64) {
	tr.S[i] = y[0]
	tr.I[i] = y[1]
	tr.R[i] = y[2]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
