package telemetry

import (
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"bascli/internal/errors"
)

// ReadRoomExport reads a per-room BAS export, dispatching on the file
// extension. BAS front-ends deliver either CSV or xlsx downloads.
func ReadRoomExport(path, roomID, delimiter string) (RoomSeries, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadRoomXLSX(path, roomID)
	}
	return ReadRoomCSV(path, roomID, delimiter)
}

// ReadRoomXLSX reads a per-room BAS export saved as an Excel workbook.
// Some BAS front-ends only offer xlsx downloads; the sheet carrying the
// telemetry is located by hunting for a timestamp header.
func ReadRoomXLSX(path, roomID string) (RoomSeries, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return RoomSeries{}, errors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	rows, ok := findTelemetrySheet(f)
	if !ok {
		return RoomSeries{}, errors.NewParsingError("could not find telemetry sheet in workbook", nil).WithContext("path", path)
	}

	samples, err := parseRoomRows(rows, filepath.Base(path))
	if err != nil {
		return RoomSeries{}, err
	}

	sortSamples(samples)
	return RoomSeries{RoomID: roomID, Samples: samples}, nil
}

// findTelemetrySheet returns the rows of the first sheet whose leading rows
// look like a BAS header (timestamp plus a setpoint column).
func findTelemetrySheet(f *excelize.File) ([][]string, bool) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}

		limit := len(rows)
		if limit > 4 {
			limit = 4
		}
		for i := 0; i < limit; i++ {
			rowText := strings.ToLower(strings.Join(rows[i], " "))
			if strings.Contains(rowText, "timestamp") &&
				(strings.Contains(rowText, "cspt") || strings.Contains(rowText, "cool")) {
				// Rows above the header are front-end banners; drop them.
				return rows[i:], true
			}
		}
	}
	return nil, false
}
