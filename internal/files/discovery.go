package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery over the export directories
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindCSVFiles finds all CSV files in the specified directory
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return d.findBySuffix(dir, ".csv")
}

// FindWorkbookFiles finds all Excel files in the specified directory
func (d *Discovery) FindWorkbookFiles(dir string) ([]FileInfo, error) {
	return d.findBySuffix(dir, ".xlsx")
}

// FindRoomFiles finds per-room BAS exports named <prefix><room-id>.csv or
// <prefix><room-id>.xlsx (e.g. "Flo2.3-A3-70.csv") and returns them keyed by
// room id. When a room has both export formats the CSV wins.
func (d *Discovery) FindRoomFiles(dir, prefix string) (map[string]FileInfo, error) {
	rooms := make(map[string]FileInfo)

	for _, suffix := range []string{".xlsx", ".csv"} {
		matches, err := d.findBySuffix(dir, suffix)
		if err != nil {
			return nil, err
		}
		for _, file := range matches {
			if !strings.HasPrefix(file.Name, prefix) {
				continue
			}
			roomID := strings.TrimSuffix(strings.TrimPrefix(file.Name, prefix), suffix)
			if roomID == "" {
				continue
			}
			rooms[roomID] = file
		}
	}

	return rooms, nil
}

// findBySuffix lists files in dir with the given extension, sorted by name
// so reruns process rooms in a stable order.
func (d *Discovery) findBySuffix(dir, suffix string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), suffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}
