package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPathsConfig() PathsConfig {
	return PathsConfig{
		DataDir:      "data",
		BASDir:       "data/combined_milas_hall",
		OutdoorCSV:   "data/oa_data.csv",
		RoomStatsCSV: "data/room_stats.csv",
		ReportsDir:   "data/reports",
		PlotsDir:     "data/plots",
		LogsDir:      "logs",
	}
}

func TestResolvePaths(t *testing.T) {
	base := filepath.Join("/tmp", "bascli-test")
	paths := ResolvePaths(base, defaultPathsConfig())

	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "combined_milas_hall"), paths.BASDir)
	assert.Equal(t, filepath.Join(base, "data", "oa_data.csv"), paths.OutdoorCSV)
	assert.Equal(t, filepath.Join(base, "data", "reports", "episode_summary.csv"), paths.EpisodeSummaryCSV)
	assert.Equal(t, filepath.Join(base, "data", "reports", "episode_summary.xlsx"), paths.EpisodeSummaryXLSX)
}

func TestResolvePaths_AbsolutePassThrough(t *testing.T) {
	cfg := defaultPathsConfig()
	cfg.OutdoorCSV = filepath.Join(string(filepath.Separator), "srv", "oa_data.csv")

	paths := ResolvePaths("/tmp/base", cfg)
	assert.Equal(t, cfg.OutdoorCSV, paths.OutdoorCSV)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := ResolvePaths(base, defaultPathsConfig())

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.ReportsDir, paths.PlotsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Input directories are left alone
	_, err := os.Stat(paths.BASDir)
	assert.True(t, os.IsNotExist(err))
}

func TestPathHelpers(t *testing.T) {
	paths := ResolvePaths("/tmp/base", defaultPathsConfig())

	assert.Equal(t, filepath.Join(paths.ReportsDir, "r.csv"), paths.GetReportPath("r.csv"))
	assert.Equal(t, filepath.Join(paths.PlotsDir, "p.png"), paths.GetPlotPath("p.png"))
	assert.Equal(t, filepath.Join(paths.LogsDir, "a.log"), paths.GetLogPath("a.log"))
}
