package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/epistack/epi-sim/internal/analysis"
	"github.com/epistack/epi-sim/internal/models"
	"github.com/epistack/epi-sim/internal/render"
	"github.com/epistack/epi-sim/internal/scenario"
	"github.com/epistack/epi-sim/internal/store"
	"github.com/epistack/epi-sim/internal/utils"
)

// Sensitivity range reproduced from the influenza study this tool grew out
// of: ten reproduction numbers between just above threshold and 3.
const (
	sweepR0Min = 1.1
	sweepR0Max = 3.0
)

type options struct {
	scenariosPath string
	horizonDays   int
	outDir        string
	sweep         bool
	sweepPoints   int
	charts        bool
}

// reportDocument is the JSON archive written next to the CSV exports.
type reportDocument struct {
	Scenarios []*models.ScenarioReport `json:"scenarios"`
	Sweep     *models.SweepReport      `json:"sweep,omitempty"`
}

func main() {
	_ = godotenv.Load()

	var (
		opts     options
		logLevel string
		jsonLogs bool
	)
	flag.StringVar(&opts.scenariosPath, "scenarios", "", "Path to a scenario pack YAML (optional)")
	flag.IntVar(&opts.horizonDays, "horizon", scenario.DefaultHorizonDays, "Simulation horizon in days")
	flag.StringVar(&opts.outDir, "out", ".", "Directory for charts and CSV exports")
	flag.BoolVar(&opts.sweep, "sweep", true, "Run the attack-rate sensitivity sweep")
	flag.IntVar(&opts.sweepPoints, "sweep-points", 10, "Number of reproduction-number values in the sweep")
	flag.BoolVar(&opts.charts, "charts", true, "Render PNG charts")
	flag.StringVar(&logLevel, "log-level", "info", "Log verbosity: debug, info, warn, error")
	flag.BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
	flag.Parse()

	// The report goes to stdout, so logs keep to stderr.
	logger := utils.NewLoggerTo(os.Stderr, logLevel, jsonLogs)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, logger, opts); err != nil {
		logger.Error("report failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, logger *slog.Logger, opts options) error {
	if opts.horizonDays < 1 {
		return fmt.Errorf("horizon must be at least 1 day, got %d", opts.horizonDays)
	}

	catalog, err := scenario.NewCatalog(opts.scenariosPath, logger)
	if err != nil {
		return err
	}

	scenarios := catalog.List()
	for i := range scenarios {
		scenarios[i].HorizonDays = opts.horizonDays
	}

	runner := scenario.NewRunner(logger, 0)
	reports, err := runner.Compare(ctx, scenarios)
	if err != nil {
		return err
	}
	printComparison(out, reports)

	doc := reportDocument{Scenarios: reports}
	for _, rep := range reports {
		csvPath := filepath.Join(opts.outDir, rep.Scenario+"_trajectory.csv")
		if err := store.WriteTrajectoryCSV(rep, csvPath); err != nil {
			return err
		}
		if opts.charts {
			pngPath := filepath.Join(opts.outDir, rep.Scenario+"_trajectory.png")
			if err := writeChart(pngPath, func(w io.Writer) error {
				return render.TrajectoryChart(rep, w)
			}); err != nil {
				return err
			}
		}
	}

	if opts.sweep {
		sweepReport, err := runner.Sweep(ctx, scenarios[0], analysis.R0Range(sweepR0Min, sweepR0Max, opts.sweepPoints))
		if err != nil {
			return err
		}
		printSweep(out, sweepReport)
		doc.Sweep = sweepReport

		if err := store.WriteSweepCSV(sweepReport, filepath.Join(opts.outDir, "sweep_attack_rate.csv")); err != nil {
			return err
		}
		if opts.charts {
			if err := writeChart(filepath.Join(opts.outDir, "sweep_attack_rate.png"), func(w io.Writer) error {
				return render.SweepChart(sweepReport, w)
			}); err != nil {
				return err
			}
		}
	}

	if err := store.WriteReportJSON(doc, filepath.Join(opts.outDir, "report.json")); err != nil {
		return err
	}

	logger.Info("report complete",
		slog.Int("scenarios", len(reports)),
		slog.Bool("sweep", opts.sweep),
		slog.String("out", opts.outDir),
	)
	return nil
}

func printComparison(w io.Writer, reports []*models.ScenarioReport) {
	fmt.Fprintln(w, "=== SIR scenario comparison ===")
	for _, rep := range reports {
		title := rep.Scenario
		if rep.Description != "" {
			title = fmt.Sprintf("%s (%s)", rep.Scenario, rep.Description)
		}
		fmt.Fprintf(w, "\n%s\n", title)
		fmt.Fprintf(w, "  R0:          %.2f\n", rep.R0)
		fmt.Fprintf(w, "  Peak:        %s infected on day %s\n",
			utils.FormatCount(rep.Peak.Value), utils.FormatDay(rep.Peak.Time))
		fmt.Fprintf(w, "  Attack rate: %s\n", utils.FormatPercent(rep.AttackRate))
		fmt.Fprintf(w, "  Total cases: %s\n", utils.FormatCount(rep.TotalCases))
		fmt.Fprintf(w, "  Regime:      %s\n", rep.Regime.Kind)
	}
}

func printSweep(w io.Writer, report *models.SweepReport) {
	fmt.Fprintln(w, "\n=== Sensitivity: attack rate vs R0 ===")
	for _, pt := range report.Points {
		fmt.Fprintf(w, "  R0 %.2f  attack rate %s\n", pt.R0, utils.FormatPercent(pt.AttackRate))
	}

	s := report.Summary
	fmt.Fprintf(w, "  %d points, attack rate %s to %s\n",
		s.Points, utils.FormatPercent(s.MinAttackRate), utils.FormatPercent(s.MaxAttackRate))
	if s.HalfCrossingR0 >= 0 {
		fmt.Fprintf(w, "  attack rate first exceeds 50%% at R0 %.2f\n", s.HalfCrossingR0)
	}
}

func writeChart(path string, renderTo func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := renderTo(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
