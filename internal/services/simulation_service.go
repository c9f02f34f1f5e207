package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/epistack/epi-sim/internal/analysis"
	"github.com/epistack/epi-sim/internal/cache"
	"github.com/epistack/epi-sim/internal/metrics"
	"github.com/epistack/epi-sim/internal/models"
	"github.com/epistack/epi-sim/internal/scenario"
	"github.com/epistack/epi-sim/internal/utils"
)

// ScenarioRunner defines the execution operations the service delegates to.
type ScenarioRunner interface {
	Run(ctx context.Context, sc scenario.Scenario) (*models.ScenarioReport, error)
	Sweep(ctx context.Context, base scenario.Scenario, r0Values []float64) (*models.SweepReport, error)
}

// SweepOptions sets the sweep cache lifetime and the reproduction-number
// range used when a request leaves it out.
type SweepOptions struct {
	CacheTTL time.Duration
	R0Min    float64
	R0Max    float64
	Points   int
}

// SimulationService resolves API requests into scenarios, delegates execution
// to the runner and caches sweep responses.
type SimulationService struct {
	logger    *slog.Logger
	catalog   *scenario.Catalog
	runner    ScenarioRunner
	cache     cache.Provider
	opts      SweepOptions
	latencies *utils.LatencyTracker
}

// NewSimulationService constructs the service facade.
func NewSimulationService(logger *slog.Logger, catalog *scenario.Catalog, runner ScenarioRunner, cacheProvider cache.Provider, opts SweepOptions) *SimulationService {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	if opts.R0Min <= 0 {
		opts.R0Min = 1.1
	}
	if opts.R0Max < opts.R0Min {
		opts.R0Max = opts.R0Min
	}
	if opts.Points < 1 {
		opts.Points = 10
	}
	return &SimulationService{
		logger:    logger,
		catalog:   catalog,
		runner:    runner,
		cache:     cacheProvider,
		opts:      opts,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// Simulate resolves a request into a scenario and runs it.
func (s *SimulationService) Simulate(ctx context.Context, req models.SimulateRequest) (*models.ScenarioReport, error) {
	start := time.Now()

	sc, err := s.resolveScenario(req)
	if err != nil {
		return nil, err
	}

	report, err := s.runner.Run(ctx, sc)
	if err != nil {
		s.logger.Error("scenario run failed", slog.String("scenario", sc.Name), slog.Any("error", err))
		return nil, err
	}
	if !req.IncludeTrajectory {
		report.Trajectory = nil
	}

	duration := time.Since(start)
	s.latencies.Observe(duration)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := s.latencies.Percentile(95)
		s.logger.Info("simulation latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}

	return report, nil
}

// Sweep resolves defaults, consults the cache and delegates on a miss.
func (s *SimulationService) Sweep(ctx context.Context, req models.SweepRequest) (*models.SweepReport, error) {
	resolved := s.resolveSweep(req)

	key, err := sweepCacheKey(resolved)
	if err != nil {
		return nil, utils.NewAppError("sweep", "build cache key", err)
	}

	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached models.SweepReport
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.ObserveCache(metrics.CacheHit)
			s.logger.Debug("sweep served from cache", slog.String("key", key))
			return &cached, nil
		}
		// A corrupt entry is dropped so the next request repopulates it.
		_ = s.cache.Del(ctx, key)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("sweep cache get failed", slog.Any("error", err))
	}
	metrics.ObserveCache(metrics.CacheMiss)

	base := scenario.Scenario{
		Name:        "sweep",
		Gamma:       resolved.Gamma,
		Population:  resolved.Population,
		Infected:    resolved.InitialInfected,
		Recovered:   resolved.InitialRecovered,
		HorizonDays: resolved.HorizonDays,
	}
	report, err := s.runner.Sweep(ctx, base, resolved.R0Values)
	if err != nil {
		s.logger.Error("sweep failed", slog.Any("error", err))
		return nil, err
	}

	if data, err := json.Marshal(report); err == nil {
		if err := s.cache.Set(ctx, key, data, s.opts.CacheTTL); err == nil {
			metrics.ObserveCache(metrics.CacheStore)
		} else {
			s.logger.Warn("sweep cache store failed", slog.Any("error", err))
		}
	}

	return report, nil
}

// Scenarios lists the catalog in registration order.
func (s *SimulationService) Scenarios() []scenario.Scenario {
	return s.catalog.List()
}

// LatencyP95 returns the current p95 simulation latency.
func (s *SimulationService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}

// resolveScenario maps a request onto a named or inline scenario. Named
// scenarios may override their horizon; inline runs fall back to the bundled
// population, seed and horizon for fields left at zero.
func (s *SimulationService) resolveScenario(req models.SimulateRequest) (scenario.Scenario, error) {
	if req.Scenario != "" {
		sc, err := s.catalog.Get(req.Scenario)
		if err != nil {
			return scenario.Scenario{}, err
		}
		if req.HorizonDays > 0 {
			sc.HorizonDays = req.HorizonDays
		}
		return sc, nil
	}

	sc := scenario.Scenario{
		Name:        "custom",
		Description: "Inline parameters",
		Beta:        req.Beta,
		Gamma:       req.Gamma,
		Population:  req.Population,
		Infected:    req.InitialInfected,
		Recovered:   req.InitialRecovered,
		HorizonDays: req.HorizonDays,
	}
	if sc.Population == 0 {
		sc.Population = scenario.DefaultPopulation
	}
	if sc.Infected == 0 {
		sc.Infected = scenario.DefaultInfected
	}
	if sc.HorizonDays == 0 {
		sc.HorizonDays = scenario.DefaultHorizonDays
	}
	return sc, nil
}

// resolveSweep fills request defaults and materialises the R0 values so the
// cache key covers everything the run depends on.
func (s *SimulationService) resolveSweep(req models.SweepRequest) models.SweepRequest {
	if req.Gamma == 0 {
		req.Gamma = scenario.DefaultGamma
	}
	if req.Population == 0 {
		req.Population = scenario.DefaultPopulation
	}
	if req.InitialInfected == 0 {
		req.InitialInfected = scenario.DefaultInfected
	}
	if req.HorizonDays == 0 {
		req.HorizonDays = scenario.DefaultHorizonDays
	}

	if len(req.R0Values) == 0 {
		if req.R0Min <= 0 {
			req.R0Min = s.opts.R0Min
		}
		if req.R0Max <= 0 {
			req.R0Max = s.opts.R0Max
		}
		if req.Points < 1 {
			req.Points = s.opts.Points
		}
		req.R0Values = analysis.R0Range(req.R0Min, req.R0Max, req.Points)
	}
	return req
}

func sweepCacheKey(req models.SweepRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "sweep:" + hex.EncodeToString(sum[:]), nil
}
