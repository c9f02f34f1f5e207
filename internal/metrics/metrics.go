package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels completed runs.
	OutcomeSuccess = "success"
	// OutcomeInvalid labels runs rejected by input validation.
	OutcomeInvalid = "invalid"
	// OutcomeError labels runs that failed after validation.
	OutcomeError = "error"
)

// Cache event labels.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStore = "store"
)

var (
	simulationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "epi_sim",
			Name:      "simulations_total",
			Help:      "Total number of scenario simulations, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	simulationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "epi_sim",
			Name:      "simulation_seconds",
			Help:      "Scenario simulation latency in seconds.",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	sweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "epi_sim",
			Name:      "sweeps_total",
			Help:      "Total number of sensitivity sweeps, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	sweepDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "epi_sim",
			Name:      "sweep_seconds",
			Help:      "Sensitivity sweep latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	sweepPoints = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "epi_sim",
			Name:      "sweep_points",
			Help:      "Number of reproduction-number values per sweep.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	cacheEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "epi_sim",
			Name:      "cache_events_total",
			Help:      "Sweep cache activity, partitioned by event.",
		},
		[]string{"event"},
	)

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "epi_sim",
			Name:      "http_in_flight_requests",
			Help:      "Number of HTTP requests currently being served.",
		},
	)

	httpRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "epi_sim",
			Name:      "http_request_seconds",
			Help:      "HTTP request latency in seconds, partitioned by route and status.",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"route", "status"},
	)
)

// Register attaches epi-sim collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		simulationsTotal,
		simulationDurationSeconds,
		sweepsTotal,
		sweepDurationSeconds,
		sweepPoints,
		cacheEventsTotal,
		httpInFlight,
		httpRequestSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveSimulation records one scenario run.
func ObserveSimulation(duration time.Duration, outcome string) {
	simulationsTotal.WithLabelValues(normalizeOutcome(outcome)).Inc()
	if duration < 0 {
		duration = 0
	}
	simulationDurationSeconds.Observe(duration.Seconds())
}

// ObserveSweep records one sensitivity sweep and its size.
func ObserveSweep(duration time.Duration, outcome string, points int) {
	sweepsTotal.WithLabelValues(normalizeOutcome(outcome)).Inc()
	if duration < 0 {
		duration = 0
	}
	sweepDurationSeconds.Observe(duration.Seconds())
	if points > 0 {
		sweepPoints.Observe(float64(points))
	}
}

// ObserveCache records sweep cache activity.
func ObserveCache(event string) {
	cacheEventsTotal.WithLabelValues(event).Inc()
}

// HTTPInFlightAdd adjusts the gauge of requests currently in flight.
func HTTPInFlightAdd(delta float64) {
	httpInFlight.Add(delta)
}

// ObserveHTTPRequest records one served HTTP request.
func ObserveHTTPRequest(route, status string, duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	httpRequestSeconds.WithLabelValues(route, status).Observe(duration.Seconds())
}

func normalizeOutcome(outcome string) string {
	switch outcome {
	case OutcomeSuccess, OutcomeInvalid, OutcomeError:
		return outcome
	default:
		return OutcomeError
	}
}
