package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epistack/epi-sim/internal/models"
	"github.com/epistack/epi-sim/internal/scenario"
	"github.com/epistack/epi-sim/internal/sir"
)

// Simulator defines the service operations the handlers expose.
type Simulator interface {
	Simulate(ctx context.Context, req models.SimulateRequest) (*models.ScenarioReport, error)
	Sweep(ctx context.Context, req models.SweepRequest) (*models.SweepReport, error)
	Scenarios() []scenario.Scenario
}

// Handlers exposes the simulation service over HTTP.
type Handlers struct {
	service Simulator
}

// NewHandlers constructs the HTTP handler set.
func NewHandlers(service Simulator) *Handlers {
	return &Handlers{service: service}
}

// Register mounts the API routes on the engine.
func (h *Handlers) Register(engine *gin.Engine) {
	engine.GET("/healthz", h.Health)

	api := engine.Group("/api/v1")
	{
		api.POST("/simulate", h.Simulate)
		api.POST("/sweep", h.Sweep)
		api.GET("/scenarios", h.Scenarios)
	}
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Simulate runs one scenario, named or inline. Inline requests must supply
// beta and gamma; the remaining fields fall back to the bundled defaults.
func (h *Handlers) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, err := h.service.Simulate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Sweep runs a reproduction-number sensitivity sweep. An empty body sweeps
// the configured default range.
func (h *Handlers) Sweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, err := h.service.Sweep(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Scenarios lists the catalog.
func (h *Handlers) Scenarios(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"scenarios": h.service.Scenarios()})
}

// respondError maps domain errors onto HTTP statuses. Validation failures
// carry their message; internal failures do not leak detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scenario.ErrUnknownScenario):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, sir.ErrInvalidParams),
		errors.Is(err, sir.ErrInvalidInitialState),
		errors.Is(err, sir.ErrEmptyTimeGrid),
		errors.Is(err, sir.ErrInvalidTimeGrid),
		errors.Is(err, sir.ErrInvalidPopulation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
