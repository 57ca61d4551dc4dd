package occupancy

// TrimAsymptote truncates an episode at the first row whose temperature
// deviation from the setpoint band is within tolerance. The converged row is
// kept as the final row; everything after it is the asymptote. Episodes that
// never converge are returned whole with Stabilized false.
func TrimAsymptote(ep Episode, tolerance float64) Episode {
	for i, r := range ep.Rows {
		if Deviation(r) <= tolerance {
			ep.Rows = ep.Rows[:i+1]
			ep.Stabilized = true
			ep.StabilizedAt = i
			return ep
		}
	}

	ep.Stabilized = false
	ep.StabilizedAt = -1
	return ep
}
