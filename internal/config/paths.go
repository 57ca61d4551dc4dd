package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all resolved application paths.
// This is the single source of truth for file locations in the toolkit.
type Paths struct {
	BaseDir      string
	DataDir      string
	BASDir       string
	ReportsDir   string
	PlotsDir     string
	LogsDir      string
	OutdoorCSV   string
	RoomStatsCSV string

	// Well-known report files
	EpisodeSummaryCSV  string
	EpisodeSummaryXLSX string
}

// ResolvePaths resolves the configured paths against a base directory.
// Relative configured paths are joined onto base; absolute paths pass through.
func ResolvePaths(base string, cfg PathsConfig) *Paths {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	reportsDir := resolve(cfg.ReportsDir)

	return &Paths{
		BaseDir:      base,
		DataDir:      resolve(cfg.DataDir),
		BASDir:       resolve(cfg.BASDir),
		ReportsDir:   reportsDir,
		PlotsDir:     resolve(cfg.PlotsDir),
		LogsDir:      resolve(cfg.LogsDir),
		OutdoorCSV:   resolve(cfg.OutdoorCSV),
		RoomStatsCSV: resolve(cfg.RoomStatsCSV),

		EpisodeSummaryCSV:  filepath.Join(reportsDir, "episode_summary.csv"),
		EpisodeSummaryXLSX: filepath.Join(reportsDir, "episode_summary.xlsx"),
	}
}

// GetPaths resolves paths relative to the current working directory using
// the defaults from PathsConfig.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %v", err)
	}
	return ResolvePaths(wd, cfg), nil
}

// EnsureDirectories creates all output directories if they don't exist.
// Input directories are deliberately not created; a missing BAS export
// directory is an input error, not something to paper over.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.ReportsDir,
		p.PlotsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetPlotPath returns the path for a rendered plot file
func (p *Paths) GetPlotPath(filename string) string {
	return filepath.Join(p.PlotsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
