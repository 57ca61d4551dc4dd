package occupancy

import (
	"context"
	"log/slog"
	"math"
	"time"

	"bascli/internal/dataset"
	"bascli/internal/infrastructure"
)

// Summary is the single-row reduction of one occupancy episode.
type Summary struct {
	RoomID           string
	SquareFootage    float64 // zero when the room has no metadata row
	ProfileID        string
	Start            time.Time
	End              time.Time
	SampleCount      int
	Stabilized       bool
	TimeToStabilize  time.Duration // zero when the episode never converged
	InitialDeviation float64
	CoolSetpoint     float64 // at episode start
	HeatSetpoint     float64
	MeanCO2          float64 // NaN when the room has no CO2 sensor
	MeanOutdoorTemp  float64 // NaN when no outdoor rows matched
}

// Params are the tunables of the analysis pipeline.
type Params struct {
	ToleranceDegrees float64
	MaxEpisodeRows   int
}

// Summarize reduces a trimmed episode to one summary row, carrying the
// room's static metadata so reports can relate behavior to room size and
// control profile.
func Summarize(room dataset.MergedSeries, ep Episode) Summary {
	first := ep.Rows[0]
	last := ep.Rows[len(ep.Rows)-1]

	s := Summary{
		RoomID:           room.RoomID,
		SquareFootage:    room.Stats.SquareFootage,
		ProfileID:        room.Stats.ProfileID,
		Start:            first.Timestamp,
		End:              last.Timestamp,
		SampleCount:      len(ep.Rows),
		Stabilized:       ep.Stabilized,
		InitialDeviation: Deviation(first),
		CoolSetpoint:     first.CoolSetpoint,
		HeatSetpoint:     first.HeatSetpoint,
		MeanCO2:          meanIgnoringNaN(ep.Rows, func(r dataset.Row) float64 { return r.CO2 }),
		MeanOutdoorTemp:  meanIgnoringNaN(ep.Rows, func(r dataset.Row) float64 { return r.OutdoorTemp }),
	}

	if ep.Stabilized {
		s.TimeToStabilize = last.Timestamp.Sub(first.Timestamp)
	}

	return s
}

// Analyze runs the whole segmentation pipeline over a merged room table:
// thresholds, segmentation, asymptote trimming, one summary per episode.
// A series with no occupied rows yields an empty slice, not an error.
func Analyze(ctx context.Context, merged dataset.MergedSeries, params Params) ([]Summary, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	thresholds, err := ComputeThresholds(merged.Rows)
	if err != nil {
		return nil, err
	}

	episodes := Segment(merged.Rows, thresholds, params.MaxEpisodeRows)

	summaries := make([]Summary, 0, len(episodes))
	for _, ep := range episodes {
		trimmed := TrimAsymptote(ep, params.ToleranceDegrees)
		summaries = append(summaries, Summarize(merged, trimmed))
	}

	logger.InfoContext(ctx, "analyzed room series",
		slog.String("room_id", merged.RoomID),
		slog.Int("rows", len(merged.Rows)),
		slog.Int("episodes", len(summaries)),
		slog.Float64("threshold_top", thresholds.Top),
		slog.Float64("threshold_bottom", thresholds.Bottom))

	return summaries, nil
}

// meanIgnoringNaN averages one channel over an episode, skipping NaN rows.
func meanIgnoringNaN(rows []dataset.Row, pick func(dataset.Row) float64) float64 {
	var sum float64
	var n int
	for _, r := range rows {
		v := pick(r)
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
