package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/epistack/epi-sim/internal/sir"
)

func TestDefaultsAreValid(t *testing.T) {
	defaults := Defaults()
	if len(defaults) != 2 {
		t.Fatalf("expected 2 bundled scenarios, got %d", len(defaults))
	}
	for _, sc := range defaults {
		if err := sc.Validate(); err != nil {
			t.Fatalf("bundled scenario %s failed validation: %v", sc.Name, err)
		}
	}
}

func TestScenarioAccessors(t *testing.T) {
	sc := Defaults()[0]

	p := sc.Params()
	if p.Beta != 0.3 || p.Gamma != 0.1 || p.N != DefaultPopulation {
		t.Fatalf("unexpected params: %+v", p)
	}

	init := sc.Initial()
	if init.S0 != 99900 || init.I0 != 100 || init.R0 != 0 {
		t.Fatalf("unexpected initial split: %+v", init)
	}

	grid := sc.Grid()
	if len(grid) != DefaultHorizonDays+1 {
		t.Fatalf("expected %d grid points, got %d", DefaultHorizonDays+1, len(grid))
	}
}

func TestScenarioValidate(t *testing.T) {
	base := Defaults()[0]

	cases := map[string]func(sc *Scenario){
		"missing name":    func(sc *Scenario) { sc.Name = "" },
		"negative beta":   func(sc *Scenario) { sc.Beta = -0.3 },
		"zero gamma":      func(sc *Scenario) { sc.Gamma = 0 },
		"zero population": func(sc *Scenario) { sc.Population = 0 },
		"zero horizon":    func(sc *Scenario) { sc.HorizonDays = 0 },
		"negative seed":   func(sc *Scenario) { sc.Infected = -5 },
		"oversized seed":  func(sc *Scenario) { sc.Infected = 2 * float64(base.Population) },
	}

	for name, mutate := range cases {
		sc := base
		mutate(&sc)
		if err := sc.Validate(); err == nil {
			t.Fatalf("expected %s to fail validation", name)
		}
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("expected base scenario to validate, got %v", err)
	}
}

func TestNewCatalogDefaultsOnly(t *testing.T) {
	c, err := NewCatalog("", nil)
	if err != nil {
		t.Fatalf("expected catalog, got error: %v", err)
	}

	names := c.Names()
	if len(names) != 2 || names[0] != "seasonal" || names[1] != "transmissible" {
		t.Fatalf("unexpected names: %v", names)
	}

	sc, err := c.Get("SEASONAL")
	if err != nil {
		t.Fatalf("expected case-insensitive lookup, got %v", err)
	}
	if sc.Beta != 0.3 {
		t.Fatalf("expected seasonal beta 0.3, got %g", sc.Beta)
	}

	if _, err := c.Get("zombie"); !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestNewCatalogMissingPack(t *testing.T) {
	c, err := NewCatalog(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if err != nil {
		t.Fatalf("expected missing pack to be ignored, got %v", err)
	}
	if len(c.List()) != 2 {
		t.Fatalf("expected only the bundled scenarios, got %d", len(c.List()))
	}
}

func TestNewCatalogPackOverridesAndExtends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.yaml")
	data := `
scenarios:
  - name: seasonal
    description: Two-season run
    beta: 0.3
    gamma: 0.1
    population: 100000
    infected: 100
    horizonDays: 730
  - name: mild
    description: Low transmission
    beta: 0.15
    gamma: 0.1
    population: 50000
    infected: 10
    horizonDays: 365
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write scenario pack: %v", err)
	}

	c, err := NewCatalog(path, nil)
	if err != nil {
		t.Fatalf("expected catalog, got error: %v", err)
	}

	names := c.Names()
	if len(names) != 3 || names[0] != "seasonal" || names[1] != "transmissible" || names[2] != "mild" {
		t.Fatalf("unexpected names: %v", names)
	}

	seasonal, err := c.Get("seasonal")
	if err != nil {
		t.Fatalf("expected seasonal, got %v", err)
	}
	if seasonal.HorizonDays != 730 {
		t.Fatalf("expected pack to override seasonal horizon, got %d", seasonal.HorizonDays)
	}

	mild, err := c.Get("mild")
	if err != nil {
		t.Fatalf("expected mild, got %v", err)
	}
	if mild.Population != 50000 {
		t.Fatalf("unexpected mild population: %d", mild.Population)
	}
}

func TestNewCatalogRejectsInvalidPack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.yaml")
	data := `
scenarios:
  - name: broken
    beta: -0.3
    gamma: 0.1
    population: 1000
    infected: 10
    horizonDays: 30
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write scenario pack: %v", err)
	}

	if _, err := NewCatalog(path, nil); !errors.Is(err, sir.ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams from pack, got %v", err)
	}
}
