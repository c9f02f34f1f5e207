package models

import (
	"time"

	"github.com/epistack/epi-sim/internal/analysis"
	"github.com/epistack/epi-sim/internal/sir"
)

// ModelParams mirrors sir.Params with stable JSON field names.
type ModelParams struct {
	Beta       float64 `json:"beta"`
	Gamma      float64 `json:"gamma"`
	Population int64   `json:"population"`
}

// NewModelParams converts core parameters into the report form.
func NewModelParams(p sir.Params) ModelParams {
	return ModelParams{Beta: p.Beta, Gamma: p.Gamma, Population: p.N}
}

// Domain converts back into core parameters.
func (m ModelParams) Domain() sir.Params {
	return sir.Params{Beta: m.Beta, Gamma: m.Gamma, N: m.Population}
}

// InitialSplit mirrors sir.InitialState with descriptive JSON names.
type InitialSplit struct {
	Susceptible float64 `json:"susceptible"`
	Infected    float64 `json:"infected"`
	Recovered   float64 `json:"recovered"`
}

// NewInitialSplit converts a core initial state into the report form.
func NewInitialSplit(s sir.InitialState) InitialSplit {
	return InitialSplit{Susceptible: s.S0, Infected: s.I0, Recovered: s.R0}
}

// Domain converts back into a core initial state.
func (s InitialSplit) Domain() sir.InitialState {
	return sir.InitialState{S0: s.Susceptible, I0: s.Infected, R0: s.Recovered}
}

// TrajectorySeries carries the sampled curves for JSON and file export.
type TrajectorySeries struct {
	Times       []float64 `json:"times"`
	Susceptible []float64 `json:"susceptible"`
	Infected    []float64 `json:"infected"`
	Recovered   []float64 `json:"recovered"`
}

// NewTrajectorySeries exposes a trajectory's slices without copying;
// trajectories are never mutated after simulation.
func NewTrajectorySeries(tr *sir.Trajectory) *TrajectorySeries {
	if tr == nil {
		return nil
	}
	return &TrajectorySeries{
		Times:       tr.Times,
		Susceptible: tr.S,
		Infected:    tr.I,
		Recovered:   tr.R,
	}
}

// ScenarioReport summarises one simulated scenario.
type ScenarioReport struct {
	RunID       string            `json:"run_id"`
	Scenario    string            `json:"scenario"`
	Description string            `json:"description,omitempty"`
	Params      ModelParams       `json:"params"`
	Initial     InitialSplit      `json:"initial"`
	HorizonDays int               `json:"horizon_days"`
	R0          float64           `json:"r0"`
	Peak        analysis.PeakInfo `json:"peak"`
	AttackRate  float64           `json:"attack_rate"`
	TotalCases  float64           `json:"total_cases"`
	Regime      analysis.Regime   `json:"regime"`
	Trajectory  *TrajectorySeries `json:"trajectory,omitempty"`
	ElapsedMS   float64           `json:"elapsed_ms"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SweepReport summarises a reproduction-number sensitivity sweep.
type SweepReport struct {
	RunID       string                `json:"run_id"`
	Gamma       float64               `json:"gamma"`
	Population  int64                 `json:"population"`
	Initial     InitialSplit          `json:"initial"`
	HorizonDays int                   `json:"horizon_days"`
	Points      []analysis.SweepPoint `json:"points"`
	Summary     analysis.SweepSummary `json:"summary"`
	ElapsedMS   float64               `json:"elapsed_ms"`
	CreatedAt   time.Time             `json:"created_at"`
}
