package occupancy

import (
	"math"

	"bascli/internal/dataset"
	"bascli/internal/errors"
)

// Thresholds are the setpoint extremes for a room series. Rows sitting at
// both extremes are treated as unoccupied; the room is on its schedule.
type Thresholds struct {
	Top    float64 // maximum cooling setpoint observed
	Bottom float64 // minimum heating setpoint observed
}

// ComputeThresholds scans the whole series for the setpoint extremes.
func ComputeThresholds(rows []dataset.Row) (Thresholds, error) {
	if len(rows) == 0 {
		return Thresholds{}, errors.NewValidationError("cannot compute setpoint thresholds of an empty series", nil)
	}

	t := Thresholds{Top: math.Inf(-1), Bottom: math.Inf(1)}
	for _, r := range rows {
		if r.CoolSetpoint > t.Top {
			t.Top = r.CoolSetpoint
		}
		if r.HeatSetpoint < t.Bottom {
			t.Bottom = r.HeatSetpoint
		}
	}

	return t, nil
}

// Occupied reports whether a row looks occupied: both setpoints pulled
// strictly inside the schedule extremes.
func (t Thresholds) Occupied(r dataset.Row) bool {
	return r.CoolSetpoint < t.Top && r.HeatSetpoint > t.Bottom
}

// Deviation is the distance of the room temperature from the setpoint band,
// zero inside the band.
func Deviation(r dataset.Row) float64 {
	switch {
	case r.RoomTemp > r.CoolSetpoint:
		return r.RoomTemp - r.CoolSetpoint
	case r.RoomTemp < r.HeatSetpoint:
		return r.HeatSetpoint - r.RoomTemp
	default:
		return 0
	}
}
