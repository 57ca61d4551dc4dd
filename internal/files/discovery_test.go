package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}

func TestFindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.csv")
	touch(t, dir, "a.CSV")
	touch(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	d := NewDiscovery(dir)
	found, err := d.FindCSVFiles(".")
	require.NoError(t, err)

	require.Len(t, found, 2)
	// Stable name order
	assert.Equal(t, "a.CSV", found[0].Name)
	assert.Equal(t, "b.csv", found[1].Name)
}

func TestFindRoomFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Flo2.3-A3-70.csv")
	touch(t, dir, "Flo2.3-B1-12.csv")
	touch(t, dir, "oa_data.csv")
	touch(t, dir, "Flo2.3-.csv")

	d := NewDiscovery(dir)
	rooms, err := d.FindRoomFiles(".", "Flo2.3-")
	require.NoError(t, err)

	require.Len(t, rooms, 2)
	assert.Contains(t, rooms, "A3-70")
	assert.Contains(t, rooms, "B1-12")
	assert.Equal(t, "Flo2.3-A3-70.csv", rooms["A3-70"].Name)
}

func TestFindRoomFiles_Workbooks(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Flo2.3-A3-70.xlsx")
	touch(t, dir, "Flo2.3-B1-12.csv")
	touch(t, dir, "Flo2.3-C2-05.csv")
	touch(t, dir, "Flo2.3-C2-05.xlsx")

	d := NewDiscovery(dir)
	rooms, err := d.FindRoomFiles(".", "Flo2.3-")
	require.NoError(t, err)

	require.Len(t, rooms, 3)
	assert.Equal(t, "Flo2.3-A3-70.xlsx", rooms["A3-70"].Name)
	assert.Equal(t, "Flo2.3-B1-12.csv", rooms["B1-12"].Name)
	// The CSV export wins when both formats exist for a room
	assert.Equal(t, "Flo2.3-C2-05.csv", rooms["C2-05"].Name)
}

func TestFindRoomFiles_MissingDir(t *testing.T) {
	d := NewDiscovery(t.TempDir())
	_, err := d.FindRoomFiles("nope", "Flo2.3-")
	assert.Error(t, err)
}

func TestFindWorkbookFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "export.xlsx")
	touch(t, dir, "export.csv")

	d := NewDiscovery(dir)
	found, err := d.FindWorkbookFiles(".")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "export.xlsx", found[0].Name)
}

func TestGetLatestFile(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		{Name: "old.csv", ModTime: now.Add(-time.Hour)},
		{Name: "new.csv", ModTime: now},
		{Name: "mid.csv", ModTime: now.Add(-time.Minute)},
	}

	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, "new.csv", latest.Name)

	_, ok = GetLatestFile(nil)
	assert.False(t, ok)
}
