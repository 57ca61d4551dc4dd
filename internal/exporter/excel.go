package exporter

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"bascli/internal/errors"
	"bascli/internal/occupancy"
)

const episodeSheet = "Episodes"
const statsSheet = "Summary"

// ExcelWriter writes episode reports as an Excel workbook for the people who
// live in spreadsheets. One data sheet plus an aggregate sheet.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel report writer
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// WriteEpisodeWorkbook writes episode summaries and the building-wide
// aggregates to an xlsx workbook.
func (w *ExcelWriter) WriteEpisodeWorkbook(path string, summaries []occupancy.Summary) error {
	w.logger.Info("writing episode workbook",
		slog.String("path", path),
		slog.Int("episodes", len(summaries)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).WithContext("path", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(episodeSheet)
	if err != nil {
		return errors.NewStorageError("failed to create episode sheet", err)
	}
	f.SetActiveSheet(index)

	header := []interface{}{
		"RoomId", "SquareFootage", "ProfileId", "Start", "End", "Samples", "Stabilized",
		"MinutesToStabilize", "InitialDeviation", "CoolSetpoint", "HeatSetpoint",
		"MeanCO2", "MeanOutdoorTemp",
	}
	if err := f.SetSheetRow(episodeSheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write episode header", err)
	}

	for i, s := range summaries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewStorageError("failed to compute cell coordinates", err)
		}

		row := []interface{}{
			s.RoomID,
			excelSquareFootage(s.SquareFootage),
			s.ProfileID,
			s.Start.Format("2006-01-02 15:04:05"),
			s.End.Format("2006-01-02 15:04:05"),
			s.SampleCount,
			s.Stabilized,
			excelMinutes(s),
			excelFloat(s.InitialDeviation),
			excelFloat(s.CoolSetpoint),
			excelFloat(s.HeatSetpoint),
			excelFloat(s.MeanCO2),
			excelFloat(s.MeanOutdoorTemp),
		}
		if err := f.SetSheetRow(episodeSheet, cell, &row); err != nil {
			return errors.NewStorageError("failed to write episode row", err)
		}
	}

	if err := w.writeStatsSheet(f, summaries); err != nil {
		return err
	}

	// The default sheet excelize creates is noise
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	return nil
}

// writeStatsSheet writes the building-wide aggregates.
func (w *ExcelWriter) writeStatsSheet(f *excelize.File, summaries []occupancy.Summary) error {
	if _, err := f.NewSheet(statsSheet); err != nil {
		return errors.NewStorageError("failed to create summary sheet", err)
	}

	agg := occupancy.Aggregate(summaries)

	rows := [][]interface{}{
		{"Episodes", agg.Episodes},
		{"Stabilized", agg.StabilizedCount},
		{"MeanMinutesToStabilize", agg.MeanStabilize.Minutes()},
		{"StdDevMinutesToStabilize", agg.StdDevStabilize.Minutes()},
		{"MeanInitialDeviation", excelFloat(agg.MeanInitialDev)},
		{"MaxInitialDeviation", agg.MaxInitialDev},
		{"MeanEpisodeLength", excelFloat(agg.MeanEpisodeLength)},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.NewStorageError("failed to compute cell coordinates", err)
		}
		if err := f.SetSheetRow(statsSheet, cell, &row); err != nil {
			return errors.NewStorageError("failed to write summary row", err)
		}
	}

	return nil
}

// excelFloat maps NaN to an empty cell; excelize renders NaN literally.
func excelFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return ""
	}
	return v
}

// excelSquareFootage leaves the cell empty for rooms without a metadata row.
func excelSquareFootage(v float64) interface{} {
	if v <= 0 {
		return ""
	}
	return v
}

func excelMinutes(s occupancy.Summary) interface{} {
	if !s.Stabilized {
		return ""
	}
	return s.TimeToStabilize.Minutes()
}
