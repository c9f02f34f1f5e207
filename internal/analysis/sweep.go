package analysis

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/epistack/epi-sim/internal/sir"
)

// SweepConfig describes a sensitivity sweep over reproduction-number values.
// Gamma, N, Initial and Times are shared across all points; each point gets
// Beta = R0 * Gamma. Workers bounds the parallelism, defaulting to
// GOMAXPROCS when zero or negative.
type SweepConfig struct {
	Gamma    float64
	N        int64
	Initial  sir.InitialState
	Times    sir.TimeGrid
	R0Values []float64
	Workers  int
}

// SweepPoint is one sweep result, index-aligned with the input R0 values.
type SweepPoint struct {
	R0         float64 `json:"r0"`
	AttackRate float64 `json:"attack_rate"`
}

// Sweep simulates every R0 value independently and returns the attack rates
// in input order. Points run in parallel, but each is a full simulation from
// the shared initial state, so the output is bit-identical to a serial run
// regardless of worker count. The first failure cancels the remaining work.
func Sweep(ctx context.Context, cfg SweepConfig) ([]SweepPoint, error) {
	if len(cfg.R0Values) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	points := make([]SweepPoint, len(cfg.R0Values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, r0 := range cfg.R0Values {
		i, r0 := i, r0
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := sir.Params{Beta: r0 * cfg.Gamma, Gamma: cfg.Gamma, N: cfg.N}
			tr, err := sir.Simulate(p, cfg.Initial, cfg.Times)
			if err != nil {
				return fmt.Errorf("sweep point %d (R0=%g): %w", i, r0, err)
			}
			attack, err := AttackRate(tr)
			if err != nil {
				return fmt.Errorf("sweep point %d (R0=%g): %w", i, r0, err)
			}
			points[i] = SweepPoint{R0: r0, AttackRate: attack}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// R0Range returns equally spaced reproduction numbers from min to max
// inclusive. Fewer than two points collapse to min alone.
func R0Range(min, max float64, points int) []float64 {
	if points < 2 {
		return []float64{min}
	}
	values := make([]float64, points)
	floats.Span(values, min, max)
	return values
}
