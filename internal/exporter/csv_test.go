package exporter

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bascli/internal/dataset"
	"bascli/internal/occupancy"
)

func readBack(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := strings.TrimPrefix(string(data), "\xef\xbb\xbf")
	reader := csv.NewReader(strings.NewReader(content))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteEpisodeSummaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "episode_summary.csv")
	w := NewCSVWriter(nil)

	summaries := []occupancy.Summary{
		{
			RoomID:           "A3-70",
			SquareFootage:    420,
			ProfileID:        "P-12",
			Start:            time.Date(2023, 3, 1, 8, 5, 0, 0, time.UTC),
			End:              time.Date(2023, 3, 1, 8, 15, 0, 0, time.UTC),
			SampleCount:      3,
			Stabilized:       true,
			TimeToStabilize:  10 * time.Minute,
			InitialDeviation: 3.0,
			CoolSetpoint:     74,
			HeatSetpoint:     68,
			MeanCO2:          475,
			MeanOutdoorTemp:  41.5,
		},
		{
			RoomID:           "B1-12",
			Start:            time.Date(2023, 3, 1, 9, 0, 0, 0, time.UTC),
			End:              time.Date(2023, 3, 1, 9, 10, 0, 0, time.UTC),
			SampleCount:      2,
			Stabilized:       false,
			InitialDeviation: 4.0,
			CoolSetpoint:     75,
			HeatSetpoint:     67,
			MeanCO2:          math.NaN(),
			MeanOutdoorTemp:  math.NaN(),
		},
	}

	require.NoError(t, w.WriteEpisodeSummaries(path, summaries))

	rows := readBack(t, path)
	require.Len(t, rows, 3)

	assert.Equal(t, "RoomId", rows[0][0])
	assert.Equal(t, "A3-70", rows[1][0])
	assert.Equal(t, "420", rows[1][1])
	assert.Equal(t, "P-12", rows[1][2])
	assert.Equal(t, "true", rows[1][6])
	assert.Equal(t, "10.0", rows[1][7])

	// Room without metadata leaves the sqft/profile cells empty; unstabilized
	// episode leaves the minutes cell empty, NaN channels empty
	assert.Equal(t, "", rows[2][1])
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "false", rows[2][6])
	assert.Equal(t, "", rows[2][7])
	assert.Equal(t, "", rows[2][11])
	assert.Equal(t, "", rows[2][12])
}

func TestWriteEpisodeSummaries_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode_summary.csv")
	w := NewCSVWriter(nil)

	require.NoError(t, w.WriteEpisodeSummaries(path, nil))

	rows := readBack(t, path)
	require.Len(t, rows, 1) // header only
}

func TestWriteCleanedSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned", "A3-70.csv")
	w := NewCSVWriter(nil)

	merged := dataset.MergedSeries{
		RoomID: "A3-70",
		Rows: []dataset.Row{
			{
				Timestamp:       time.Date(2023, 3, 1, 8, 0, 0, 0, time.UTC),
				RoomTemp:        71.25,
				CoolSetpoint:    74,
				HeatSetpoint:    68,
				CO2:             450,
				Humidity:        32.1,
				Radon:           math.NaN(),
				TVOC:            math.NaN(),
				OutdoorTemp:     41.0,
				OutdoorHumidity: 70.0,
			},
		},
	}

	require.NoError(t, w.WriteCleanedSeries(path, merged))

	rows := readBack(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "2023-03-01 08:00:00", rows[1][0])
	assert.Equal(t, "71.25", rows[1][1])
	assert.Equal(t, "", rows[1][6]) // radon missing
}

func TestWriteCSV_BOMPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := NewCSVWriter(nil)

	require.NoError(t, w.WriteCSV(path, WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", "2"}},
		BOMPrefix: true,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xef\xbb\xbf"))
}
