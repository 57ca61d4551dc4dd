package plotting

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bascli/internal/dataset"
	"bascli/internal/occupancy"
)

func TestRenderRoom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots", "A3-70.png")

	rows := []dataset.Row{
		{Timestamp: time.Date(2023, 3, 1, 8, 0, 0, 0, time.UTC), RoomTemp: 71.0, CoolSetpoint: 78, HeatSetpoint: 62},
		{Timestamp: time.Date(2023, 3, 1, 8, 5, 0, 0, time.UTC), RoomTemp: 77.0, CoolSetpoint: 74, HeatSetpoint: 68},
		{Timestamp: time.Date(2023, 3, 1, 8, 10, 0, 0, time.UTC), RoomTemp: 74.2, CoolSetpoint: 74, HeatSetpoint: 68},
	}
	episodes := []occupancy.Summary{
		{
			RoomID:           "A3-70",
			Start:            rows[1].Timestamp,
			CoolSetpoint:     74,
			InitialDeviation: 3.0,
		},
	}

	pl := NewPlotter(nil)
	require.NoError(t, pl.RenderRoom(path, dataset.MergedSeries{RoomID: "A3-70", Rows: rows}, episodes))

	info, err := filepath.Glob(path)
	require.NoError(t, err)
	assert.Len(t, info, 1)
}

func TestRenderRoom_EmptySeries(t *testing.T) {
	pl := NewPlotter(nil)
	err := pl.RenderRoom(filepath.Join(t.TempDir(), "x.png"), dataset.MergedSeries{RoomID: "A3-70"}, nil)
	assert.Error(t, err)
}
