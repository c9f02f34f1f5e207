package analysis

import (
	"fmt"

	"github.com/epistack/epi-sim/internal/sir"
)

// RegimeKind labels the qualitative behavior of an epidemic.
type RegimeKind string

const (
	RegimeSupercritical RegimeKind = "supercritical"
	RegimeSubcritical   RegimeKind = "subcritical"
)

// Regime summarizes threshold behavior for a trajectory: whether the
// epidemic could grow, whether it actually peaked inside the horizon, and
// when the susceptible pool crossed the herd-immunity threshold.
type Regime struct {
	Kind             RegimeKind `json:"kind"`
	R0               float64    `json:"r0"`
	InteriorPeak     bool       `json:"interior_peak"`
	HerdCrossingTime float64    `json:"herd_crossing_time"`
	FinalSusceptible float64    `json:"final_susceptible_share"`
	Notes            []string   `json:"notes,omitempty"`
}

// Classify evaluates threshold heuristics over a trajectory. The herd
// crossing time is -1 when the susceptible share never fell below 1/R0.
func Classify(tr *sir.Trajectory) (Regime, error) {
	if tr.Len() == 0 {
		return Regime{}, sir.ErrEmptyTrajectory
	}

	r0 := ReproductionNumber(tr.Params)
	n := float64(tr.Params.N)
	res := Regime{R0: r0, HerdCrossingTime: -1}

	s, _, _ := tr.Final()
	res.FinalSusceptible = s / n

	peakIdx, err := peakIndex(tr)
	if err != nil {
		return Regime{}, err
	}
	res.InteriorPeak = peakIdx > 0 && peakIdx < tr.Len()-1 && tr.I[peakIdx] > tr.I[0]

	if r0 > 1 {
		res.Kind = RegimeSupercritical
		res.Notes = append(res.Notes, "transmission outpaces recovery; infections can grow")
		threshold := 1 / r0
		for i := range tr.Times {
			if tr.S[i]/n < threshold {
				res.HerdCrossingTime = tr.Times[i]
				res.Notes = append(res.Notes, fmt.Sprintf("susceptible share fell below 1/R0 at day %g", tr.Times[i]))
				break
			}
		}
		if res.HerdCrossingTime < 0 {
			res.Notes = append(res.Notes, "susceptible pool never crossed the herd-immunity threshold")
		}
	} else {
		res.Kind = RegimeSubcritical
		res.Notes = append(res.Notes, "recovery matches or outpaces transmission; infections decline")
	}

	if !res.InteriorPeak {
		res.Notes = append(res.Notes, "no interior peak inside the horizon")
	}

	return res, nil
}
