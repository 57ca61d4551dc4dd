package dataset

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bascli/internal/telemetry"
)

func ts(minute int) time.Time {
	return time.Date(2023, 3, 1, 8, minute, 0, 0, time.UTC)
}

func TestMerge_LeftJoin(t *testing.T) {
	room := telemetry.RoomSeries{
		RoomID: "A3-70",
		Samples: []telemetry.Sample{
			{Timestamp: ts(0), RoomTemp: 71.0, CoolSetpoint: 74, HeatSetpoint: 68},
			{Timestamp: ts(5), RoomTemp: 71.4, CoolSetpoint: 74, HeatSetpoint: 68},
			{Timestamp: ts(10), RoomTemp: 71.9, CoolSetpoint: 74, HeatSetpoint: 68},
		},
	}
	outdoor := []telemetry.OutdoorSample{
		{Timestamp: ts(0), Temp: 41.0, Humidity: 70.0},
		{Timestamp: ts(10), Temp: 41.6, Humidity: 69.5},
	}
	stats := []telemetry.RoomStats{
		{RoomID: "A3-70", SquareFootage: 420, ProfileID: "P-2"},
		{RoomID: "B1-12", SquareFootage: 610, ProfileID: "P-1"},
	}

	merged := Merge(context.Background(), room, outdoor, stats)

	assert.Equal(t, "A3-70", merged.RoomID)
	assert.Equal(t, 420.0, merged.Stats.SquareFootage)
	require.Len(t, merged.Rows, 3)

	// Matched rows carry outdoor readings
	assert.Equal(t, 41.0, merged.Rows[0].OutdoorTemp)
	assert.Equal(t, 41.6, merged.Rows[2].OutdoorTemp)

	// Unmatched row keeps NaN, left-join semantics
	assert.True(t, math.IsNaN(merged.Rows[1].OutdoorTemp))
	assert.True(t, math.IsNaN(merged.Rows[1].OutdoorHumidity))

	// Indoor fields survive the merge untouched
	assert.Equal(t, 71.4, merged.Rows[1].RoomTemp)
}

func TestMerge_MissingStats(t *testing.T) {
	room := telemetry.RoomSeries{
		RoomID: "C9-01",
		Samples: []telemetry.Sample{
			{Timestamp: ts(0), RoomTemp: 70.0, CoolSetpoint: 74, HeatSetpoint: 68},
		},
	}

	merged := Merge(context.Background(), room, nil, nil)

	require.Len(t, merged.Rows, 1)
	assert.Equal(t, telemetry.RoomStats{}, merged.Stats)
}

func TestMerge_EmptyRoom(t *testing.T) {
	merged := Merge(context.Background(), telemetry.RoomSeries{RoomID: "A3-70"}, nil, nil)
	assert.Empty(t, merged.Rows)
}
