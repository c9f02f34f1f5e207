package render

import (
	"bytes"
	"testing"

	"github.com/epistack/epi-sim/internal/analysis"
	"github.com/epistack/epi-sim/internal/models"
)

func scenarioReportFixture() *models.ScenarioReport {
	return &models.ScenarioReport{
		Scenario: "seasonal",
		R0:       3,
		Trajectory: &models.TrajectorySeries{
			Times:       []float64{0, 1, 2, 3},
			Susceptible: []float64{900, 700, 400, 200},
			Infected:    []float64{100, 250, 350, 250},
			Recovered:   []float64{0, 50, 250, 550},
		},
	}
}

func TestTrajectoryChartRendersPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := TrajectoryChart(scenarioReportFixture(), &buf); err != nil {
		t.Fatalf("expected chart to render, got %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected PNG bytes")
	}
	// PNG signature.
	if !bytes.HasPrefix(buf.Bytes(), []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("expected a PNG header, got % x", buf.Bytes()[:8])
	}
}

func TestTrajectoryChartRejectsMissingData(t *testing.T) {
	var buf bytes.Buffer

	if err := TrajectoryChart(nil, &buf); err == nil {
		t.Fatal("expected error for nil report")
	}
	if err := TrajectoryChart(&models.ScenarioReport{}, &buf); err == nil {
		t.Fatal("expected error for missing trajectory")
	}

	short := scenarioReportFixture()
	short.Trajectory = &models.TrajectorySeries{Times: []float64{0}}
	if err := TrajectoryChart(short, &buf); err == nil {
		t.Fatal("expected error for single-sample trajectory")
	}
}

func TestSweepChartRendersPNG(t *testing.T) {
	report := &models.SweepReport{
		Points: []analysis.SweepPoint{
			{R0: 1.1, AttackRate: 0.18},
			{R0: 2.0, AttackRate: 0.80},
			{R0: 3.0, AttackRate: 0.94},
		},
	}

	var buf bytes.Buffer
	if err := SweepChart(report, &buf); err != nil {
		t.Fatalf("expected chart to render, got %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatal("expected a PNG header")
	}
}

func TestSweepChartRejectsShortSweeps(t *testing.T) {
	var buf bytes.Buffer

	if err := SweepChart(nil, &buf); err == nil {
		t.Fatal("expected error for nil report")
	}
	one := &models.SweepReport{Points: []analysis.SweepPoint{{R0: 2, AttackRate: 0.8}}}
	if err := SweepChart(one, &buf); err == nil {
		t.Fatal("expected error for single-point sweep")
	}
}
