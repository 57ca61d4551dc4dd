package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "plain datetime",
			raw:  "2023-03-01 08:15:00",
			want: time.Date(2023, 3, 1, 8, 15, 0, 0, time.UTC),
		},
		{
			name: "trailing timezone tokens dropped",
			raw:  "2023-03-01 08:15:00 EST (America/New_York)",
			want: time.Date(2023, 3, 1, 8, 15, 0, 0, time.UTC),
		},
		{
			name: "date only",
			raw:  "2023-03-01",
			want: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "no seconds",
			raw:  "2023-03-01 08:15",
			want: time.Date(2023, 3, 1, 8, 15, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "garbage",
			raw:     "yesterday maybe",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTimestamp(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestReadRoomCSV_CommaDelimited(t *testing.T) {
	csvData := `timestamp,RmTmp,RmTmpCspt,RmTmpHpst,CO2,Humidity
2023-03-01 08:00:00 EST,71.2,74.0,68.0,450,32.1
2023-03-01 08:05:00 EST,71.5,74.0,68.0,480,32.4
2023-03-01 08:10:00 EST,71.9,73.0,69.0,510,32.6
`
	path := writeTemp(t, "Flo2.3-A3-70.csv", csvData)

	series, err := ReadRoomCSV(path, "A3-70", "")
	require.NoError(t, err)

	assert.Equal(t, "A3-70", series.RoomID)
	require.Len(t, series.Samples, 3)

	first := series.Samples[0]
	assert.Equal(t, 71.2, first.RoomTemp)
	assert.Equal(t, 74.0, first.CoolSetpoint)
	assert.Equal(t, 68.0, first.HeatSetpoint)
	assert.Equal(t, 450.0, first.CO2)
	assert.True(t, first.HasCO2())
	assert.True(t, math.IsNaN(first.Radon))
}

func TestReadRoomCSV_SemicolonSniffed(t *testing.T) {
	csvData := "timestamp;RmTmp;RmTmpCspt;RmTmpHpst\n" +
		"2023-03-01 08:00:00;70.0;74.0;68.0\n" +
		"2023-03-01 08:05:00;70.4;74.0;68.0\n"
	path := writeTemp(t, "room.csv", csvData)

	series, err := ReadRoomCSV(path, "B1-12", "")
	require.NoError(t, err)
	require.Len(t, series.Samples, 2)
	assert.Equal(t, 70.4, series.Samples[1].RoomTemp)
}

func TestReadRoomCSV_BadRowsSkipped(t *testing.T) {
	csvData := `timestamp,RmTmp,RmTmpCspt,RmTmpHpst
2023-03-01 08:00:00,71.0,74.0,68.0
not-a-timestamp,71.1,74.0,68.0
2023-03-01 08:10:00,,74.0,68.0
2023-03-01 08:15:00,71.3,74.0,68.0
`
	path := writeTemp(t, "room.csv", csvData)

	series, err := ReadRoomCSV(path, "A3-70", "")
	require.NoError(t, err)
	assert.Len(t, series.Samples, 2)
}

func TestReadRoomCSV_SortsByTimestamp(t *testing.T) {
	csvData := `timestamp,RmTmp,RmTmpCspt,RmTmpHpst
2023-03-01 08:10:00,72.0,74.0,68.0
2023-03-01 08:00:00,71.0,74.0,68.0
2023-03-01 08:05:00,71.5,74.0,68.0
`
	path := writeTemp(t, "room.csv", csvData)

	series, err := ReadRoomCSV(path, "A3-70", "")
	require.NoError(t, err)
	require.Len(t, series.Samples, 3)

	for i := 1; i < len(series.Samples); i++ {
		assert.False(t, series.Samples[i].Timestamp.Before(series.Samples[i-1].Timestamp))
	}
}

func TestReadRoomCSV_MissingColumns(t *testing.T) {
	path := writeTemp(t, "room.csv", "timestamp,RmTmp\n2023-03-01 08:00:00,71.0\n")

	_, err := ReadRoomCSV(path, "A3-70", "")
	assert.Error(t, err)
}

func TestReadRoomCSV_MissingFile(t *testing.T) {
	_, err := ReadRoomCSV(filepath.Join(t.TempDir(), "nope.csv"), "A3-70", "")
	assert.Error(t, err)
}

func TestReadOutdoorCSV(t *testing.T) {
	csvData := `timestamp,OaTemp,OaHumidity
2023-03-01 08:00:00 EST,41.0,70.2
2023-03-01 08:05:00 EST,41.3,70.0
`
	path := writeTemp(t, "oa_data.csv", csvData)

	samples, err := ReadOutdoorCSV(path, "")
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 41.0, samples[0].Temp)
	assert.Equal(t, 70.0, samples[1].Humidity)
}

func TestReadRoomStatsCSV(t *testing.T) {
	csvData := `RoomId,SquareFootage,DamperDefault,HeatDefault,CoolDefault,ProfileId
A3-70,420,0.35,68,74,P-2
B1-12,610,0.50,67,75,P-1
,100,0.1,60,80,P-9
`
	path := writeTemp(t, "room_stats.csv", csvData)

	stats, err := ReadRoomStatsCSV(path, "")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "A3-70", stats[0].RoomID)
	assert.Equal(t, 420.0, stats[0].SquareFootage)
	assert.Equal(t, "P-2", stats[0].ProfileID)
	assert.Equal(t, 75.0, stats[1].CoolDefault)
}
