package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Drives a running sir-engine through its public surface. Intended for
// localdev: start the engine, then `go run ./deployment/localdev/smoke`.

type scenarioSummary struct {
	Scenario   string  `json:"scenario"`
	R0         float64 `json:"r0"`
	AttackRate float64 `json:"attack_rate"`
	TotalCases float64 `json:"total_cases"`
}

type sweepSummary struct {
	Points  []json.RawMessage `json:"points"`
	Summary struct {
		MinAttackRate float64 `json:"min_attack_rate"`
		MaxAttackRate float64 `json:"max_attack_rate"`
	} `json:"summary"`
}

func main() {
	base := flag.String("base", "http://localhost:8080", "sir-engine base URL")
	flag.Parse()

	logger := log.New(log.Writer(), "smoke ", log.LstdFlags|log.Lmicroseconds)
	client := &http.Client{Timeout: 30 * time.Second}

	if err := checkHealth(client, *base); err != nil {
		logger.Fatalf("healthz: %v", err)
	}
	logger.Println("healthz ok")

	names, err := listScenarios(client, *base)
	if err != nil {
		logger.Fatalf("scenarios: %v", err)
	}
	logger.Printf("scenarios: %v", names)

	summary, err := simulate(client, *base, `{"scenario":"seasonal"}`, http.StatusOK)
	if err != nil {
		logger.Fatalf("simulate seasonal: %v", err)
	}
	logger.Printf("seasonal: R0=%.2f attack=%.3f total=%.0f", summary.R0, summary.AttackRate, summary.TotalCases)

	if _, err := simulate(client, *base, `{"beta":-1,"gamma":0.1}`, http.StatusBadRequest); err != nil {
		logger.Fatalf("simulate invalid params: %v", err)
	}
	logger.Println("invalid params rejected with 400")

	cold, err := sweep(client, *base)
	if err != nil {
		logger.Fatalf("sweep: %v", err)
	}
	warm, err := sweep(client, *base)
	if err != nil {
		logger.Fatalf("sweep repeat: %v", err)
	}
	logger.Printf("sweep: %d points, attack %.3f..%.3f, cold %s, warm %s",
		len(cold.result.Points), cold.result.Summary.MinAttackRate, cold.result.Summary.MaxAttackRate,
		cold.elapsed, warm.elapsed)

	logger.Println("all checks passed")
}

func checkHealth(client *http.Client, base string) error {
	resp, err := client.Get(base + "/healthz")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func listScenarios(client *http.Client, base string) ([]string, error) {
	resp, err := client.Get(base + "/api/v1/scenarios")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var payload struct {
		Scenarios []struct {
			Name string `json:"name"`
		} `json:"scenarios"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(payload.Scenarios))
	for _, sc := range payload.Scenarios {
		names = append(names, sc.Name)
	}
	return names, nil
}

func simulate(client *http.Client, base, body string, wantStatus int) (*scenarioSummary, error) {
	resp, err := client.Post(base+"/api/v1/simulate", "application/json", bytes.NewBufferString(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d, want %d: %s", resp.StatusCode, wantStatus, data)
	}
	if wantStatus != http.StatusOK {
		return nil, nil
	}

	var summary scenarioSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

type sweepResult struct {
	result  sweepSummary
	elapsed time.Duration
}

func sweep(client *http.Client, base string) (*sweepResult, error) {
	start := time.Now()
	resp, err := client.Post(base+"/api/v1/sweep", "application/json", bytes.NewBufferString(`{}`))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, data)
	}

	out := &sweepResult{}
	if err := json.NewDecoder(resp.Body).Decode(&out.result); err != nil {
		return nil, err
	}
	out.elapsed = time.Since(start)
	return out, nil
}
