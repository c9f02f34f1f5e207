package models

// SimulateRequest asks for a one-off simulation. A named scenario takes
// precedence over inline parameters; zero-valued fields fall back to the
// service defaults.
type SimulateRequest struct {
	Scenario          string  `json:"scenario,omitempty"`
	Beta              float64 `json:"beta,omitempty"`
	Gamma             float64 `json:"gamma,omitempty"`
	Population        int64   `json:"population,omitempty"`
	InitialInfected   float64 `json:"initial_infected,omitempty"`
	InitialRecovered  float64 `json:"initial_recovered,omitempty"`
	HorizonDays       int     `json:"horizon_days,omitempty"`
	IncludeTrajectory bool    `json:"include_trajectory,omitempty"`
}

// SweepRequest asks for a sensitivity sweep. When R0Values is empty the
// sweep runs over Points values equally spaced between R0Min and R0Max.
type SweepRequest struct {
	Gamma            float64   `json:"gamma,omitempty"`
	Population       int64     `json:"population,omitempty"`
	InitialInfected  float64   `json:"initial_infected,omitempty"`
	InitialRecovered float64   `json:"initial_recovered,omitempty"`
	HorizonDays      int       `json:"horizon_days,omitempty"`
	R0Values         []float64 `json:"r0_values,omitempty"`
	R0Min            float64   `json:"r0_min,omitempty"`
	R0Max            float64   `json:"r0_max,omitempty"`
	Points           int       `json:"points,omitempty"`
}
