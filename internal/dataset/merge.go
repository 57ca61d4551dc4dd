// Package dataset joins the per-room BAS series with the outdoor-air series
// and the static room-statistics table into one analysis-ready table.
package dataset

import (
	"context"
	"log/slog"
	"math"
	"time"

	"bascli/internal/infrastructure"
	"bascli/internal/telemetry"
)

// Row is one merged observation: the indoor sample plus the outdoor-air
// reading taken at the same normalized timestamp. Outdoor fields are NaN
// when the outdoor series has no matching row (left join).
type Row struct {
	Timestamp    time.Time
	RoomTemp     float64
	CoolSetpoint float64
	HeatSetpoint float64
	CO2          float64
	Humidity     float64
	Radon        float64
	TVOC         float64

	OutdoorTemp     float64
	OutdoorHumidity float64
}

// MergedSeries is the merged table for one room.
type MergedSeries struct {
	RoomID string
	Stats  telemetry.RoomStats
	Rows   []Row
}

// Merge left-joins the outdoor-air samples onto the room series by timestamp
// and attaches the room's static metadata. A room without metadata is merged
// anyway with zero-value stats and a warning.
func Merge(ctx context.Context, room telemetry.RoomSeries, outdoor []telemetry.OutdoorSample, stats []telemetry.RoomStats) MergedSeries {
	logger := infrastructure.LoggerFromContext(ctx)

	byTime := make(map[time.Time]telemetry.OutdoorSample, len(outdoor))
	for _, oa := range outdoor {
		byTime[oa.Timestamp] = oa
	}

	merged := MergedSeries{
		RoomID: room.RoomID,
		Rows:   make([]Row, 0, len(room.Samples)),
	}

	roomStats, ok := findStats(stats, room.RoomID)
	if ok {
		merged.Stats = roomStats
	} else {
		logger.WarnContext(ctx, "no room statistics for room, merging without metadata",
			slog.String("room_id", room.RoomID))
	}

	matched := 0
	for _, s := range room.Samples {
		row := Row{
			Timestamp:       s.Timestamp,
			RoomTemp:        s.RoomTemp,
			CoolSetpoint:    s.CoolSetpoint,
			HeatSetpoint:    s.HeatSetpoint,
			CO2:             s.CO2,
			Humidity:        s.Humidity,
			Radon:           s.Radon,
			TVOC:            s.TVOC,
			OutdoorTemp:     math.NaN(),
			OutdoorHumidity: math.NaN(),
		}

		if oa, ok := byTime[s.Timestamp]; ok {
			row.OutdoorTemp = oa.Temp
			row.OutdoorHumidity = oa.Humidity
			matched++
		}

		merged.Rows = append(merged.Rows, row)
	}

	logger.DebugContext(ctx, "merged room series with outdoor air",
		slog.String("room_id", room.RoomID),
		slog.Int("rows", len(merged.Rows)),
		slog.Int("outdoor_matches", matched))

	return merged
}

// findStats looks up the metadata row for a room id.
func findStats(stats []telemetry.RoomStats, roomID string) (telemetry.RoomStats, bool) {
	for _, s := range stats {
		if s.RoomID == roomID {
			return s, true
		}
	}
	return telemetry.RoomStats{}, false
}
