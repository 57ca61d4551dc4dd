package telemetry

import (
	"math"
	"time"
)

// Sample is a single BAS reading for a room. Optional sensor channels
// (CO2, humidity, radon, TVOC) are NaN when the export does not carry them.
type Sample struct {
	Timestamp    time.Time
	RoomTemp     float64
	CoolSetpoint float64
	HeatSetpoint float64
	CO2          float64
	Humidity     float64
	Radon        float64
	TVOC         float64
}

// RoomSeries is the full telemetry series for one room,
// sorted by non-decreasing timestamp.
type RoomSeries struct {
	RoomID  string
	Samples []Sample
}

// OutdoorSample is a single outdoor-air reading.
type OutdoorSample struct {
	Timestamp time.Time
	Temp      float64
	Humidity  float64
}

// RoomStats is the static metadata for a room, joined by the synthetic
// room-id key used across the BAS exports.
type RoomStats struct {
	RoomID        string
	SquareFootage float64
	DamperDefault float64
	HeatDefault   float64
	CoolDefault   float64
	ProfileID     string
}

// HasCO2 reports whether the sample carries a CO2 reading.
func (s Sample) HasCO2() bool {
	return !math.IsNaN(s.CO2)
}

// HasHumidity reports whether the sample carries a humidity reading.
func (s Sample) HasHumidity() bool {
	return !math.IsNaN(s.Humidity)
}

// IsValid reports whether a sample can participate in the analysis.
// A usable sample needs a timestamp and the three temperature columns.
func (s Sample) IsValid() bool {
	if s.Timestamp.IsZero() {
		return false
	}
	return !math.IsNaN(s.RoomTemp) && !math.IsNaN(s.CoolSetpoint) && !math.IsNaN(s.HeatSetpoint)
}
