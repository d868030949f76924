package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/drift/config"
)

// OutputManager writes the run's side artifacts into one directory: the
// config snapshot, per-worker stats, phase timings and the summary.
type OutputManager struct {
	dir string
}

// NewOutputManager creates the output directory.
// Returns nil if dir is empty (output disabled); every method is a no-op on nil.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &OutputManager{dir: dir}, nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Path joins name onto the output directory. With output disabled the name
// is returned unchanged.
func (om *OutputManager) Path(name string) string {
	if om == nil || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(om.dir, name)
}

// WriteConfig saves the configuration used for the run as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteWorkers writes one row per worker to workers.csv.
func (om *OutputManager) WriteWorkers(stats []WorkerStats) error {
	if om == nil {
		return nil
	}
	return om.writeCSV("workers.csv", &stats)
}

// WritePerf writes the phase breakdown to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats) error {
	if om == nil {
		return nil
	}
	return om.writeCSV("perf.csv", &stats.Phases)
}

// WriteSummary writes the run summary to summary.csv.
func (om *OutputManager) WriteSummary(s RunSummary) error {
	if om == nil {
		return nil
	}
	records := []RunSummary{s}
	return om.writeCSV("summary.csv", &records)
}

func (om *OutputManager) writeCSV(name string, records any) error {
	f, err := os.Create(filepath.Join(om.dir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	if err := gocsv.MarshalFile(records, f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	return nil
}
