// Package store persists reports to disk: CSV series for analysis tools and
// JSON documents for archival.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/epistack/epi-sim/internal/models"
)

// WriteTrajectoryCSV writes one row per sampled day with full float
// precision.
func WriteTrajectoryCSV(report *models.ScenarioReport, path string) error {
	if report == nil || report.Trajectory == nil {
		return fmt.Errorf("store: report with trajectory required")
	}

	tr := report.Trajectory
	rows := make([][]string, 0, len(tr.Times))
	for i := range tr.Times {
		rows = append(rows, []string{
			formatFloat(tr.Times[i]),
			formatFloat(tr.Susceptible[i]),
			formatFloat(tr.Infected[i]),
			formatFloat(tr.Recovered[i]),
		})
	}
	return writeCSV(path, []string{"day", "susceptible", "infected", "recovered"}, rows)
}

// WriteSweepCSV writes one row per reproduction-number point.
func WriteSweepCSV(report *models.SweepReport, path string) error {
	if report == nil || len(report.Points) == 0 {
		return fmt.Errorf("store: sweep report with points required")
	}

	rows := make([][]string, 0, len(report.Points))
	for _, pt := range report.Points {
		rows = append(rows, []string{
			formatFloat(pt.R0),
			formatFloat(pt.AttackRate),
		})
	}
	return writeCSV(path, []string{"r0", "attack_rate"}, rows)
}

// WriteReportJSON persists a report document as indented JSON.
func WriteReportJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode report: %w", err)
	}
	data = append(data, '\n')
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("store: write header: %w", err)
	}
	// WriteAll flushes before reporting errors.
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("store: write rows: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("store: close %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create directory %s: %w", dir, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
