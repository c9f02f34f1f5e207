// Package scenario names reusable epidemic parameterisations and runs them
// through the solver and analysis layers.
package scenario

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/epistack/epi-sim/internal/sir"
)

// ErrUnknownScenario is returned when a catalog lookup misses.
var ErrUnknownScenario = errors.New("scenario: unknown scenario")

// Built-in defaults shared by the bundled scenarios.
const (
	DefaultPopulation  int64   = 100_000
	DefaultInfected    float64 = 100
	DefaultGamma       float64 = 0.1
	DefaultHorizonDays int     = 365
)

// Scenario is one named parameterisation of the epidemic model.
type Scenario struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description,omitempty"`
	Beta        float64 `yaml:"beta" json:"beta"`
	Gamma       float64 `yaml:"gamma" json:"gamma"`
	Population  int64   `yaml:"population" json:"population"`
	Infected    float64 `yaml:"infected" json:"infected"`
	Recovered   float64 `yaml:"recovered" json:"recovered"`
	HorizonDays int     `yaml:"horizonDays" json:"horizon_days"`
}

// Params returns the transmission parameters for the solver.
func (s Scenario) Params() sir.Params {
	return sir.Params{Beta: s.Beta, Gamma: s.Gamma, N: s.Population}
}

// Initial returns the compartment split at day zero.
func (s Scenario) Initial() sir.InitialState {
	return sir.Split(s.Population, s.Infected, s.Recovered)
}

// Grid returns the daily reporting grid over the scenario horizon.
func (s Scenario) Grid() sir.TimeGrid {
	return sir.DailyGrid(s.HorizonDays)
}

// Validate checks the scenario against the model's parameter and state rules.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: scenario name is required", sir.ErrInvalidParams)
	}
	if err := s.Params().Validate(); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if err := s.Initial().Validate(s.Population); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if s.HorizonDays < 1 {
		return fmt.Errorf("scenario %s: %w: horizon must be at least one day, got %d",
			s.Name, sir.ErrInvalidParams, s.HorizonDays)
	}
	return nil
}

// Defaults returns the bundled scenarios in presentation order.
func Defaults() []Scenario {
	return []Scenario{
		{
			Name:        "seasonal",
			Description: "Seasonal outbreak with moderate transmission (R0 = 3)",
			Beta:        0.3,
			Gamma:       DefaultGamma,
			Population:  DefaultPopulation,
			Infected:    DefaultInfected,
			HorizonDays: DefaultHorizonDays,
		},
		{
			Name:        "transmissible",
			Description: "Highly transmissible outbreak (R0 = 5)",
			Beta:        0.5,
			Gamma:       DefaultGamma,
			Population:  DefaultPopulation,
			Infected:    DefaultInfected,
			HorizonDays: DefaultHorizonDays,
		},
	}
}

// Catalog resolves scenario names to definitions. The bundled defaults are
// always present; a YAML pack can add scenarios or override defaults by name.
type Catalog struct {
	byName map[string]Scenario
	order  []string
	logger *slog.Logger
}

// packFile is the YAML root structure of a scenario pack.
type packFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// NewCatalog builds a catalog from the defaults plus an optional pack at path.
// A missing pack file is not an error; an invalid one is.
func NewCatalog(path string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{byName: make(map[string]Scenario), logger: logger}

	for _, sc := range Defaults() {
		c.put(sc)
	}

	pack, err := loadPack(path)
	if err != nil {
		return nil, err
	}
	for _, sc := range pack {
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("scenario pack %s: %w", path, err)
		}
		c.put(sc)
	}
	if len(pack) > 0 {
		logger.Info("scenario pack loaded", slog.String("path", path), slog.Int("scenarios", len(pack)))
	}
	return c, nil
}

// loadPack reads scenarios from the given path. An empty path or a missing
// file returns no scenarios.
func loadPack(path string) ([]Scenario, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var pack packFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, err
	}
	return pack.Scenarios, nil
}

// Get resolves a scenario by name, case-insensitively.
func (c *Catalog) Get(name string) (Scenario, error) {
	sc, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	return sc, nil
}

// List returns all scenarios in registration order.
func (c *Catalog) List() []Scenario {
	out := make([]Scenario, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

// Names returns the registered scenario names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name].Name)
	}
	return out
}

func (c *Catalog) put(sc Scenario) {
	key := strings.ToLower(sc.Name)
	if _, ok := c.byName[key]; !ok {
		c.order = append(c.order, key)
	}
	c.byName[key] = sc
}
