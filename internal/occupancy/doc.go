// Package occupancy implements the occupancy-segmentation and
// asymptote-removal pipeline over a merged room table.
//
// A room that nobody is using sits pinned at its scheduled setpoint
// extremes; when occupancy begins the BAS pulls the setpoints inward and
// the room temperature chases them. The pipeline exploits that:
//
//  1. Thresholds: top = max cooling setpoint, bottom = min heating setpoint
//     over the whole series. A row is "occupied" when its cooling setpoint
//     is strictly below top and its heating setpoint strictly above bottom.
//  2. Segment: maximal runs of consecutive occupied rows become episodes,
//     each capped at a configured maximum window length.
//  3. TrimAsymptote: an episode is cut at the first row whose temperature
//     deviation from the setpoint band falls within tolerance; everything
//     after convergence is asymptotic noise.
//  4. Summarize: each episode reduces to a single row describing how long
//     the room took to stabilize.
package occupancy
