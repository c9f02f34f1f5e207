// Package analysis derives epidemiological metrics from simulated
// trajectories: reproduction numbers, peak detection, attack rates,
// sensitivity sweeps and qualitative regime classification.
package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/epistack/epi-sim/internal/sir"
)

// PeakInfo locates the maximum of the infected curve.
type PeakInfo struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// ReproductionNumber returns the basic reproduction number beta/gamma,
// recomputed from the parameters on every call.
func ReproductionNumber(p sir.Params) float64 {
	return p.Beta / p.Gamma
}

// Peak returns the time and height of the infected maximum. Ties resolve to
// the earliest sample.
func Peak(tr *sir.Trajectory) (PeakInfo, error) {
	idx, err := peakIndex(tr)
	if err != nil {
		return PeakInfo{}, err
	}
	return PeakInfo{Time: tr.Times[idx], Value: tr.I[idx]}, nil
}

// peakIndex returns the earliest index of the infected maximum.
func peakIndex(tr *sir.Trajectory) (int, error) {
	if tr.Len() == 0 {
		return 0, sir.ErrEmptyTrajectory
	}
	return floats.MaxIdx(tr.I), nil
}

// AttackRate returns the recovered share of the population at the final
// sample, the cumulative fraction ever infected.
func AttackRate(tr *sir.Trajectory) (float64, error) {
	if tr.Len() == 0 {
		return 0, sir.ErrEmptyTrajectory
	}
	if tr.Params.N <= 0 {
		return 0, fmt.Errorf("%w: got %d", sir.ErrInvalidPopulation, tr.Params.N)
	}
	_, _, rec := tr.Final()
	return rec / float64(tr.Params.N), nil
}

// TotalCases converts an attack rate back into a case count for reporting.
func TotalCases(attackRate float64, n int64) float64 {
	return attackRate * float64(n)
}
