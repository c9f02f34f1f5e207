package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/epistack/epi-sim/internal/analysis"
	"github.com/epistack/epi-sim/internal/metrics"
	"github.com/epistack/epi-sim/internal/models"
	"github.com/epistack/epi-sim/internal/sir"
)

// Runner executes scenarios end to end: solve, analyse and assemble reports.
type Runner struct {
	logger  *slog.Logger
	workers int
}

// NewRunner constructs a runner. Workers bounds sweep parallelism, zero
// meaning one worker per CPU.
func NewRunner(logger *slog.Logger, workers int) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger, workers: workers}
}

// Run simulates one scenario and derives its report metrics.
func (r *Runner) Run(ctx context.Context, sc Scenario) (*models.ScenarioReport, error) {
	start := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		metrics.ObserveSimulation(time.Since(start), metrics.OutcomeInvalid)
		return nil, err
	}

	tr, err := sir.Simulate(sc.Params(), sc.Initial(), sc.Grid())
	if err != nil {
		metrics.ObserveSimulation(time.Since(start), metrics.OutcomeError)
		return nil, fmt.Errorf("simulate %s: %w", sc.Name, err)
	}

	peak, err := analysis.Peak(tr)
	if err != nil {
		metrics.ObserveSimulation(time.Since(start), metrics.OutcomeError)
		return nil, fmt.Errorf("analyse %s: %w", sc.Name, err)
	}
	attack, err := analysis.AttackRate(tr)
	if err != nil {
		metrics.ObserveSimulation(time.Since(start), metrics.OutcomeError)
		return nil, fmt.Errorf("analyse %s: %w", sc.Name, err)
	}
	regime, err := analysis.Classify(tr)
	if err != nil {
		metrics.ObserveSimulation(time.Since(start), metrics.OutcomeError)
		return nil, fmt.Errorf("analyse %s: %w", sc.Name, err)
	}

	elapsed := time.Since(start)
	report := &models.ScenarioReport{
		RunID:       uuid.New().String(),
		Scenario:    sc.Name,
		Description: sc.Description,
		Params:      models.NewModelParams(sc.Params()),
		Initial:     models.NewInitialSplit(sc.Initial()),
		HorizonDays: sc.HorizonDays,
		R0:          analysis.ReproductionNumber(sc.Params()),
		Peak:        peak,
		AttackRate:  attack,
		TotalCases:  analysis.TotalCases(attack, sc.Population),
		Regime:      regime,
		Trajectory:  models.NewTrajectorySeries(tr),
		ElapsedMS:   elapsedMS(start),
		CreatedAt:   time.Now().UTC(),
	}

	metrics.ObserveSimulation(elapsed, metrics.OutcomeSuccess)
	r.logger.Info("scenario complete",
		slog.String("run_id", report.RunID),
		slog.String("scenario", sc.Name),
		slog.Float64("r0", report.R0),
		slog.Float64("peak_day", peak.Time),
		slog.Float64("attack_rate", attack),
		slog.Float64("elapsed_ms", report.ElapsedMS),
	)
	return report, nil
}

// Compare runs several scenarios in order, failing on the first error.
func (r *Runner) Compare(ctx context.Context, scenarios []Scenario) ([]*models.ScenarioReport, error) {
	reports := make([]*models.ScenarioReport, 0, len(scenarios))
	for _, sc := range scenarios {
		report, err := r.Run(ctx, sc)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Sweep simulates the base scenario once per reproduction number, deriving
// Beta = R0 * Gamma for each point. The base scenario's own Beta and Name
// are ignored.
func (r *Runner) Sweep(ctx context.Context, base Scenario, r0Values []float64) (*models.SweepReport, error) {
	start := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validateSweepInputs(base, r0Values); err != nil {
		metrics.ObserveSweep(time.Since(start), metrics.OutcomeInvalid, len(r0Values))
		return nil, err
	}

	cfg := analysis.SweepConfig{
		Gamma:    base.Gamma,
		N:        base.Population,
		Initial:  base.Initial(),
		Times:    base.Grid(),
		R0Values: r0Values,
		Workers:  r.workers,
	}
	points, err := analysis.Sweep(ctx, cfg)
	if err != nil {
		metrics.ObserveSweep(time.Since(start), metrics.OutcomeError, len(r0Values))
		return nil, fmt.Errorf("sweep: %w", err)
	}

	elapsed := time.Since(start)
	report := &models.SweepReport{
		RunID:       uuid.New().String(),
		Gamma:       base.Gamma,
		Population:  base.Population,
		Initial:     models.NewInitialSplit(base.Initial()),
		HorizonDays: base.HorizonDays,
		Points:      points,
		Summary:     analysis.Summarize(points),
		ElapsedMS:   elapsedMS(start),
		CreatedAt:   time.Now().UTC(),
	}

	metrics.ObserveSweep(elapsed, metrics.OutcomeSuccess, len(points))
	r.logger.Info("sweep complete",
		slog.String("run_id", report.RunID),
		slog.Int("points", len(points)),
		slog.Float64("min_attack_rate", report.Summary.MinAttackRate),
		slog.Float64("max_attack_rate", report.Summary.MaxAttackRate),
		slog.Float64("elapsed_ms", report.ElapsedMS),
	)
	return report, nil
}

// validateSweepInputs checks the pieces every sweep point shares. Beta is
// supplied per point, so the shared parameters are probed with R0 = 1.
func validateSweepInputs(base Scenario, r0Values []float64) error {
	if len(r0Values) == 0 {
		return fmt.Errorf("%w: sweep needs at least one R0 value", sir.ErrInvalidParams)
	}
	for i, r0 := range r0Values {
		if math.IsNaN(r0) || math.IsInf(r0, 0) || r0 <= 0 {
			return fmt.Errorf("%w: R0 value %d must be positive and finite, got %g", sir.ErrInvalidParams, i, r0)
		}
	}
	probe := sir.Params{Beta: base.Gamma, Gamma: base.Gamma, N: base.Population}
	if err := probe.Validate(); err != nil {
		return err
	}
	if err := base.Initial().Validate(base.Population); err != nil {
		return err
	}
	if base.HorizonDays < 1 {
		return fmt.Errorf("%w: horizon must be at least one day, got %d", sir.ErrInvalidParams, base.HorizonDays)
	}
	return nil
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
