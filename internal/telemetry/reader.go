package telemetry

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"bascli/internal/errors"
)

// timestampFormats are tried in order after normalization. BAS front-ends are
// not consistent about seconds or the T separator.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadRoomCSV reads a per-room BAS export. The delimiter is sniffed from the
// header line unless an override is given ("," or ";").
func ReadRoomCSV(path, roomID, delimiter string) (RoomSeries, error) {
	rows, err := readDelimited(path, delimiter)
	if err != nil {
		return RoomSeries{}, err
	}

	samples, err := parseRoomRows(rows, filepath.Base(path))
	if err != nil {
		return RoomSeries{}, err
	}

	sortSamples(samples)
	return RoomSeries{RoomID: roomID, Samples: samples}, nil
}

// ReadOutdoorCSV reads the outdoor-air export.
func ReadOutdoorCSV(path, delimiter string) ([]OutdoorSample, error) {
	rows, err := readDelimited(path, delimiter)
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, errors.NewParsingError("outdoor-air export contains no data rows", nil)
	}

	cols, err := mapOutdoorColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var samples []OutdoorSample
	for i, row := range rows[1:] {
		ts, err := NormalizeTimestamp(field(row, cols.timestamp))
		if err != nil {
			slog.Warn("skipping outdoor-air row with bad timestamp",
				slog.String("file", filepath.Base(path)),
				slog.Int("line", i+2),
				slog.String("error", err.Error()))
			continue
		}
		samples = append(samples, OutdoorSample{
			Timestamp: ts,
			Temp:      parseOptionalFloat(field(row, cols.temp)),
			Humidity:  parseOptionalFloat(field(row, cols.humidity)),
		})
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})
	return samples, nil
}

// ReadRoomStatsCSV reads the room-statistics export keyed by room id.
func ReadRoomStatsCSV(path, delimiter string) ([]RoomStats, error) {
	rows, err := readDelimited(path, delimiter)
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, errors.NewParsingError("room-statistics export contains no data rows", nil)
	}

	cols, err := mapRoomStatsColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var stats []RoomStats
	for i, row := range rows[1:] {
		roomID := strings.TrimSpace(field(row, cols.roomID))
		if roomID == "" {
			slog.Warn("skipping room-statistics row without room id",
				slog.String("file", filepath.Base(path)),
				slog.Int("line", i+2))
			continue
		}
		stats = append(stats, RoomStats{
			RoomID:        roomID,
			SquareFootage: parseOptionalFloat(field(row, cols.sqft)),
			DamperDefault: parseOptionalFloat(field(row, cols.damper)),
			HeatDefault:   parseOptionalFloat(field(row, cols.heat)),
			CoolDefault:   parseOptionalFloat(field(row, cols.cool)),
			ProfileID:     strings.TrimSpace(field(row, cols.profile)),
		})
	}

	return stats, nil
}

// NormalizeTimestamp keeps the first two space-separated tokens of a raw
// timestamp (dropping trailing timezone noise) and parses the result.
func NormalizeTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	tokens := strings.Fields(raw)
	normalized := tokens[0]
	if len(tokens) > 1 {
		normalized = tokens[0] + " " + tokens[1]
	}

	for _, format := range timestampFormats {
		if ts, err := time.Parse(format, normalized); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", raw)
}

// readDelimited reads a CSV-ish file, sniffing the delimiter from the header
// line when no override is given. Semicolon exports are common in BAS tooling.
func readDelimited(path, delimiter string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewNotFoundError("cannot open export", err).WithContext("path", path)
	}
	defer file.Close()

	comma := ','
	switch delimiter {
	case ";":
		comma = ';'
	case ",":
		comma = ','
	default:
		if sniffed, err := sniffDelimiter(path); err == nil {
			comma = sniffed
		}
	}

	reader := csv.NewReader(file)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("cannot read export", err).WithContext("path", path)
	}
	if len(rows) == 0 {
		return nil, errors.NewParsingError("export is empty", nil).WithContext("path", path)
	}

	return rows, nil
}

// sniffDelimiter inspects the header line of a file.
func sniffDelimiter(path string) (rune, error) {
	file, err := os.Open(path)
	if err != nil {
		return ',', err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return ',', fmt.Errorf("empty file")
	}

	header := scanner.Text()
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';', nil
	}
	return ',', nil
}

// roomColumns maps semantic fields to column indices in a BAS export.
type roomColumns struct {
	timestamp int
	roomTemp  int
	coolSpt   int
	heatSpt   int
	co2       int
	humidity  int
	radon     int
	tvoc      int
}

// parseRoomRows converts raw rows (header first) into samples. Bad rows are
// logged and dropped, never fatal.
func parseRoomRows(rows [][]string, source string) ([]Sample, error) {
	if len(rows) < 2 {
		return nil, errors.NewParsingError("BAS export contains no data rows", nil).WithContext("file", source)
	}

	cols, err := mapRoomColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for i, row := range rows[1:] {
		ts, err := NormalizeTimestamp(field(row, cols.timestamp))
		if err != nil {
			slog.Warn("skipping BAS row with bad timestamp",
				slog.String("file", source),
				slog.Int("line", i+2),
				slog.String("error", err.Error()))
			continue
		}

		sample := Sample{
			Timestamp:    ts,
			RoomTemp:     parseOptionalFloat(field(row, cols.roomTemp)),
			CoolSetpoint: parseOptionalFloat(field(row, cols.coolSpt)),
			HeatSetpoint: parseOptionalFloat(field(row, cols.heatSpt)),
			CO2:          parseOptionalFloat(field(row, cols.co2)),
			Humidity:     parseOptionalFloat(field(row, cols.humidity)),
			Radon:        parseOptionalFloat(field(row, cols.radon)),
			TVOC:         parseOptionalFloat(field(row, cols.tvoc)),
		}

		if !sample.IsValid() {
			slog.Warn("skipping BAS row without usable temperature data",
				slog.String("file", source),
				slog.Int("line", i+2))
			continue
		}

		samples = append(samples, sample)
	}

	return samples, nil
}

// mapRoomColumns locates the BAS columns by header name. The exports use the
// vendor names (RmTmp, RmTmpCspt, RmTmpHpst) but friendlier variants show up
// after manual cleaning, so matching is loose.
func mapRoomColumns(header []string) (roomColumns, error) {
	cols := roomColumns{
		timestamp: -1, roomTemp: -1, coolSpt: -1, heatSpt: -1,
		co2: -1, humidity: -1, radon: -1, tvoc: -1,
	}

	for i, name := range header {
		h := strings.ToLower(strings.TrimSpace(name))
		switch {
		case strings.Contains(h, "timestamp") || h == "datetime" || h == "date":
			cols.timestamp = i
		case strings.Contains(h, "cspt") || (strings.Contains(h, "cool") && strings.Contains(h, "s")):
			cols.coolSpt = i
		case strings.Contains(h, "hpst") || strings.Contains(h, "hspt") || (strings.Contains(h, "heat") && strings.Contains(h, "s")):
			cols.heatSpt = i
		case h == "rmtmp" || (strings.Contains(h, "temp") && !strings.Contains(h, "oa") && !strings.Contains(h, "out")):
			cols.roomTemp = i
		case strings.Contains(h, "co2"):
			cols.co2 = i
		case strings.Contains(h, "hum") || h == "rh":
			cols.humidity = i
		case strings.Contains(h, "radon"):
			cols.radon = i
		case strings.Contains(h, "voc"):
			cols.tvoc = i
		}
	}

	if cols.timestamp == -1 {
		return cols, errors.NewParsingError("could not find timestamp column in BAS export", nil)
	}
	if cols.roomTemp == -1 || cols.coolSpt == -1 || cols.heatSpt == -1 {
		return cols, errors.NewParsingError("could not find temperature/setpoint columns in BAS export", nil)
	}

	return cols, nil
}

type outdoorColumns struct {
	timestamp int
	temp      int
	humidity  int
}

func mapOutdoorColumns(header []string) (outdoorColumns, error) {
	cols := outdoorColumns{timestamp: -1, temp: -1, humidity: -1}

	for i, name := range header {
		h := strings.ToLower(strings.TrimSpace(name))
		switch {
		case strings.Contains(h, "timestamp") || h == "datetime" || h == "date":
			cols.timestamp = i
		case strings.Contains(h, "hum") || h == "rh":
			cols.humidity = i
		case strings.Contains(h, "temp") || strings.Contains(h, "oat"):
			cols.temp = i
		}
	}

	if cols.timestamp == -1 {
		return cols, errors.NewParsingError("could not find timestamp column in outdoor-air export", nil)
	}
	if cols.temp == -1 {
		return cols, errors.NewParsingError("could not find temperature column in outdoor-air export", nil)
	}

	return cols, nil
}

type roomStatsColumns struct {
	roomID  int
	sqft    int
	damper  int
	heat    int
	cool    int
	profile int
}

func mapRoomStatsColumns(header []string) (roomStatsColumns, error) {
	cols := roomStatsColumns{roomID: -1, sqft: -1, damper: -1, heat: -1, cool: -1, profile: -1}

	for i, name := range header {
		h := strings.ToLower(strings.TrimSpace(name))
		switch {
		case strings.Contains(h, "room") || h == "id":
			cols.roomID = i
		case strings.Contains(h, "sq") || strings.Contains(h, "footage"):
			cols.sqft = i
		case strings.Contains(h, "damper"):
			cols.damper = i
		case strings.Contains(h, "heat"):
			cols.heat = i
		case strings.Contains(h, "cool"):
			cols.cool = i
		case strings.Contains(h, "profile"):
			cols.profile = i
		}
	}

	if cols.roomID == -1 {
		return cols, errors.NewParsingError("could not find room id column in room-statistics export", nil)
	}

	return cols, nil
}

// field safely extracts a column value; missing columns yield "".
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseOptionalFloat parses a float, returning NaN for blank or bad values.
func parseOptionalFloat(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}

// sortSamples enforces the non-decreasing timestamp invariant.
func sortSamples(samples []Sample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})
}
