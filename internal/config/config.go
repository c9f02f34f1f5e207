package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the simulation service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Scenarios ScenariosConfig `yaml:"scenarios"`
	Sweep     SweepConfig     `yaml:"sweep"`
	Cache     CacheConfig     `yaml:"cache"`
}

// ServerConfig controls the HTTP listeners.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	Mode            string        `yaml:"mode"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// ScenariosConfig controls scenario-pack loading.
type ScenariosConfig struct {
	Path string `yaml:"path"`
}

// SweepConfig sets sensitivity-sweep defaults and parallelism.
type SweepConfig struct {
	Workers int     `yaml:"workers"`
	Points  int     `yaml:"points"`
	R0Min   float64 `yaml:"r0Min"`
	R0Max   float64 `yaml:"r0Max"`
}

// CacheConfig controls in-memory caching of sweep responses.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	SweepTTL   time.Duration `yaml:"sweepTTL"`
	MaxEntries int           `yaml:"maxEntries"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("EPISIM_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			Mode:            "release",
			GracefulTimeout: 10 * time.Second,
		},
		Logging:   LoggingConfig{Level: "info", JSON: false},
		Scenarios: ScenariosConfig{Path: "configs/scenarios.yaml"},
		Sweep: SweepConfig{
			Workers: 0,
			Points:  10,
			R0Min:   1.1,
			R0Max:   3.0,
		},
		Cache: CacheConfig{
			Enabled:    true,
			SweepTTL:   5 * time.Minute,
			MaxEntries: 256,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EPISIM_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("EPISIM_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("EPISIM_SERVER_MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v := os.Getenv("EPISIM_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.GracefulTimeout = d
		}
	}
	if v := os.Getenv("EPISIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("EPISIM_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("EPISIM_SCENARIOS_PATH"); v != "" {
		cfg.Scenarios.Path = v
	}
	if v := os.Getenv("EPISIM_SWEEP_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			cfg.Sweep.Workers = workers
		}
	}
	if v := os.Getenv("EPISIM_SWEEP_POINTS"); v != "" {
		if points, err := strconv.Atoi(v); err == nil {
			cfg.Sweep.Points = points
		}
	}
	if v := os.Getenv("EPISIM_SWEEP_R0_MIN"); v != "" {
		if r0, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sweep.R0Min = r0
		}
	}
	if v := os.Getenv("EPISIM_SWEEP_R0_MAX"); v != "" {
		if r0, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sweep.R0Max = r0
		}
	}
	if v := os.Getenv("EPISIM_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
	if v := os.Getenv("EPISIM_CACHE_SWEEP_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.SweepTTL = d
		}
	}
	if v := os.Getenv("EPISIM_CACHE_MAX_ENTRIES"); v != "" {
		if entries, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxEntries = entries
		}
	}
}
