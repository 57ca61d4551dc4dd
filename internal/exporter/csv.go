package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"bascli/internal/dataset"
	"bascli/internal/errors"
	"bascli/internal/occupancy"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(path string, options WriteOptions) error {
	w.logger.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).WithContext("path", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create CSV file", err).WithContext("path", path)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return errors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return errors.NewStorageError("failed to write CSV header row", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write CSV record %d", i), err)
		}
	}

	return writer.Error()
}

// episodeHeader is the schema of the episode summary report.
var episodeHeader = []string{
	"RoomId", "SquareFootage", "ProfileId", "Start", "End", "Samples", "Stabilized",
	"MinutesToStabilize", "InitialDeviation", "CoolSetpoint", "HeatSetpoint",
	"MeanCO2", "MeanOutdoorTemp",
}

// WriteEpisodeSummaries writes one row per occupancy episode.
func (w *CSVWriter) WriteEpisodeSummaries(path string, summaries []occupancy.Summary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.RoomID,
			formatSquareFootage(s.SquareFootage),
			s.ProfileID,
			s.Start.Format("2006-01-02 15:04:05"),
			s.End.Format("2006-01-02 15:04:05"),
			strconv.Itoa(s.SampleCount),
			strconv.FormatBool(s.Stabilized),
			formatMinutes(s),
			formatFloat(s.InitialDeviation, 2),
			formatFloat(s.CoolSetpoint, 1),
			formatFloat(s.HeatSetpoint, 1),
			formatFloat(s.MeanCO2, 1),
			formatFloat(s.MeanOutdoorTemp, 1),
		})
	}

	return w.WriteCSV(path, WriteOptions{
		Headers:   episodeHeader,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteCleanedSeries writes a merged room table back out as a cleaned CSV,
// comma-delimited with normalized timestamps.
func (w *CSVWriter) WriteCleanedSeries(path string, merged dataset.MergedSeries) error {
	headers := []string{
		"Timestamp", "RmTmp", "RmTmpCspt", "RmTmpHpst",
		"CO2", "Humidity", "Radon", "TVOC", "OaTemp", "OaHumidity",
	}

	records := make([][]string, 0, len(merged.Rows))
	for _, r := range merged.Rows {
		records = append(records, []string{
			r.Timestamp.Format("2006-01-02 15:04:05"),
			formatFloat(r.RoomTemp, 2),
			formatFloat(r.CoolSetpoint, 1),
			formatFloat(r.HeatSetpoint, 1),
			formatFloat(r.CO2, 1),
			formatFloat(r.Humidity, 1),
			formatFloat(r.Radon, 1),
			formatFloat(r.TVOC, 1),
			formatFloat(r.OutdoorTemp, 1),
			formatFloat(r.OutdoorHumidity, 1),
		})
	}

	return w.WriteCSV(path, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// formatFloat renders a value, leaving the cell empty for NaN.
func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// formatSquareFootage renders room size, empty when the room has no
// metadata row.
func formatSquareFootage(v float64) string {
	if v <= 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// formatMinutes renders the stabilization time, empty when never stabilized.
func formatMinutes(s occupancy.Summary) string {
	if !s.Stabilized {
		return ""
	}
	return strconv.FormatFloat(s.TimeToStabilize.Minutes(), 'f', 1, 64)
}
