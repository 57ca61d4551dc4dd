package occupancy

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// AggregateStats are cross-episode aggregates over a set of summaries,
// typically one building-wide run.
type AggregateStats struct {
	Episodes          int
	StabilizedCount   int
	MeanStabilize     time.Duration
	StdDevStabilize   time.Duration
	MeanInitialDev    float64
	MaxInitialDev     float64
	MeanEpisodeLength float64 // in samples
}

// Aggregate computes building-wide statistics over episode summaries.
// Stabilization moments are computed over stabilized episodes only.
func Aggregate(summaries []Summary) AggregateStats {
	agg := AggregateStats{Episodes: len(summaries)}
	if len(summaries) == 0 {
		return agg
	}

	var stabilizeMinutes []float64
	var initialDevs []float64
	var lengths []float64

	for _, s := range summaries {
		initialDevs = append(initialDevs, s.InitialDeviation)
		lengths = append(lengths, float64(s.SampleCount))
		if s.InitialDeviation > agg.MaxInitialDev {
			agg.MaxInitialDev = s.InitialDeviation
		}
		if s.Stabilized {
			agg.StabilizedCount++
			stabilizeMinutes = append(stabilizeMinutes, s.TimeToStabilize.Minutes())
		}
	}

	agg.MeanInitialDev = stat.Mean(initialDevs, nil)
	agg.MeanEpisodeLength = stat.Mean(lengths, nil)

	if len(stabilizeMinutes) > 0 {
		mean, std := stat.MeanStdDev(stabilizeMinutes, nil)
		agg.MeanStabilize = time.Duration(mean * float64(time.Minute))
		if !math.IsNaN(std) {
			agg.StdDevStabilize = time.Duration(std * float64(time.Minute))
		}
	}

	return agg
}
