// Package plotting renders room temperature traces with their setpoint
// band and detected occupancy episodes as PNG files.
package plotting

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"bascli/internal/dataset"
	"bascli/internal/errors"
	"bascli/internal/occupancy"
)

const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 5 * vg.Inch
)

// Plotter renders room series plots
type Plotter struct {
	logger *slog.Logger
}

// NewPlotter creates a new plotter
func NewPlotter(logger *slog.Logger) *Plotter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Plotter{logger: logger}
}

// RenderRoom renders the temperature trace of a merged room table together
// with its setpoints and episode start markers, saving a PNG to path.
func (pl *Plotter) RenderRoom(path string, merged dataset.MergedSeries, episodes []occupancy.Summary) error {
	if len(merged.Rows) == 0 {
		return errors.NewValidationError("cannot plot an empty series", nil).WithContext("room_id", merged.RoomID)
	}

	pl.logger.Info("rendering room plot",
		slog.String("room_id", merged.RoomID),
		slog.String("path", path),
		slog.Int("rows", len(merged.Rows)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create plot directory", err).WithContext("path", path)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Room %s temperature", merged.RoomID)
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Temperature (F)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02 15:04"}
	p.BackgroundColor = colornames.White
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	temp, cool, heat := seriesPoints(merged.Rows)

	tempLine, err := plotter.NewLine(temp)
	if err != nil {
		return errors.NewStorageError("failed to build temperature line", err)
	}
	tempLine.Color = colornames.Firebrick
	p.Add(tempLine)
	p.Legend.Add("room temp", tempLine)

	coolLine, err := plotter.NewLine(cool)
	if err != nil {
		return errors.NewStorageError("failed to build cooling setpoint line", err)
	}
	coolLine.Color = colornames.Steelblue
	coolLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(coolLine)
	p.Legend.Add("cool setpoint", coolLine)

	heatLine, err := plotter.NewLine(heat)
	if err != nil {
		return errors.NewStorageError("failed to build heating setpoint line", err)
	}
	heatLine.Color = colornames.Darkorange
	heatLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(heatLine)
	p.Legend.Add("heat setpoint", heatLine)

	if markers := episodeMarkers(episodes); len(markers) > 0 {
		scatter, err := plotter.NewScatter(markers)
		if err != nil {
			return errors.NewStorageError("failed to build episode markers", err)
		}
		scatter.GlyphStyle.Shape = draw.TriangleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(4)
		scatter.GlyphStyle.Color = colornames.Seagreen
		p.Add(scatter)
		p.Legend.Add("occupancy start", scatter)
	}

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.NewStorageError("failed to save plot", err).WithContext("path", path)
	}

	return nil
}

// seriesPoints converts the merged rows into plotter series, skipping NaN
// temperature cells so gaps don't render as zero.
func seriesPoints(rows []dataset.Row) (temp, cool, heat plotter.XYs) {
	for _, r := range rows {
		x := float64(r.Timestamp.Unix())
		if !math.IsNaN(r.RoomTemp) {
			temp = append(temp, plotter.XY{X: x, Y: r.RoomTemp})
		}
		if !math.IsNaN(r.CoolSetpoint) {
			cool = append(cool, plotter.XY{X: x, Y: r.CoolSetpoint})
		}
		if !math.IsNaN(r.HeatSetpoint) {
			heat = append(heat, plotter.XY{X: x, Y: r.HeatSetpoint})
		}
	}
	return temp, cool, heat
}

// episodeMarkers places a marker at the start of each episode, at the
// initial deviation above the cooling setpoint for visibility.
func episodeMarkers(episodes []occupancy.Summary) plotter.XYs {
	var pts plotter.XYs
	for _, e := range episodes {
		y := e.CoolSetpoint
		if e.InitialDeviation > 0 {
			y = e.CoolSetpoint + e.InitialDeviation
		}
		pts = append(pts, plotter.XY{X: float64(e.Start.Unix()), Y: y})
	}
	return pts
}
