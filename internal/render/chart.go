// Package render draws trajectory and sweep charts for reports.
package render

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/epistack/epi-sim/internal/models"
	"github.com/epistack/epi-sim/internal/utils"
)

var (
	susceptibleColor = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	infectedColor    = drawing.Color{R: 214, G: 39, B: 40, A: 255}
	recoveredColor   = drawing.Color{R: 44, G: 160, B: 44, A: 255}
)

// TrajectoryChart renders the three compartment curves for one scenario as a
// PNG written to w.
func TrajectoryChart(report *models.ScenarioReport, w io.Writer) error {
	if report == nil || report.Trajectory == nil || len(report.Trajectory.Times) < 2 {
		return fmt.Errorf("render: trajectory with at least two samples required")
	}
	tr := report.Trajectory

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s (R0 = %.2f)", report.Scenario, report.R0),
		Width:  1024,
		Height: 576,
		XAxis: chart.XAxis{
			Name:           "Day",
			ValueFormatter: dayFormatter,
		},
		YAxis: chart.YAxis{
			Name: "People",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Susceptible",
				XValues: tr.Times,
				YValues: tr.Susceptible,
				Style:   chart.Style{StrokeColor: susceptibleColor, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "Infected",
				XValues: tr.Times,
				YValues: tr.Infected,
				Style:   chart.Style{StrokeColor: infectedColor, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "Recovered",
				XValues: tr.Times,
				YValues: tr.Recovered,
				Style:   chart.Style{StrokeColor: recoveredColor, StrokeWidth: 2.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// SweepChart renders the final attack rate against the reproduction number
// as a PNG written to w.
func SweepChart(report *models.SweepReport, w io.Writer) error {
	if report == nil || len(report.Points) < 2 {
		return fmt.Errorf("render: sweep with at least two points required")
	}

	xs := make([]float64, len(report.Points))
	ys := make([]float64, len(report.Points))
	for i, pt := range report.Points {
		xs[i] = pt.R0
		ys[i] = pt.AttackRate
	}

	graph := chart.Chart{
		Title:  "Final attack rate by reproduction number",
		Width:  1024,
		Height: 576,
		XAxis: chart.XAxis{
			Name: "R0",
		},
		YAxis: chart.YAxis{
			Name:           "Attack rate",
			ValueFormatter: percentFormatter,
			Range:          &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Attack rate",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: infectedColor,
					StrokeWidth: 2.0,
					DotColor:    infectedColor,
					DotWidth:    3.0,
				},
			},
		},
	}

	return graph.Render(chart.PNG, w)
}

func dayFormatter(v interface{}) string {
	if day, ok := v.(float64); ok {
		return utils.FormatDay(day)
	}
	return ""
}

func percentFormatter(v interface{}) string {
	if share, ok := v.(float64); ok {
		return utils.FormatPercent(share)
	}
	return ""
}
