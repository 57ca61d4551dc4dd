package occupancy

import (
	"bascli/internal/dataset"
)

// Episode is one contiguous run of occupied rows. StartIndex is the index of
// the first row in the original merged table, so results can be traced back
// to the raw export.
type Episode struct {
	StartIndex int
	Rows       []dataset.Row

	// Set by TrimAsymptote
	Stabilized   bool
	StabilizedAt int // index within Rows of the converged row, -1 if never
}

// Segment groups the table into episodes: maximal runs of consecutive
// indices satisfying the occupancy predicate. Runs longer than maxWindow are
// capped at maxWindow rows; the remainder of the run is dropped, the
// interesting transient is at the front. No matches yields an empty slice.
func Segment(rows []dataset.Row, t Thresholds, maxWindow int) []Episode {
	if maxWindow <= 0 || len(rows) == 0 {
		return nil
	}

	var episodes []Episode
	runStart := -1

	flush := func(end int) {
		if runStart < 0 {
			return
		}
		length := end - runStart
		if length > maxWindow {
			length = maxWindow
		}
		episodes = append(episodes, Episode{
			StartIndex:   runStart,
			Rows:         append([]dataset.Row(nil), rows[runStart:runStart+length]...),
			StabilizedAt: -1,
		})
		runStart = -1
	}

	for i, r := range rows {
		if t.Occupied(r) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
	}
	flush(len(rows))

	return episodes
}
