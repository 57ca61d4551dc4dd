// Command roomclean normalizes raw BAS exports into cleaned per-room CSVs:
// timestamps normalized, malformed rows dropped, outdoor-air and room
// metadata merged in.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bascli/internal/config"
	"bascli/internal/dataset"
	"bascli/internal/exporter"
	"bascli/internal/files"
	"bascli/internal/infrastructure"
	"bascli/internal/telemetry"
)

func main() {
	dir := flag.String("dir", "", "directory containing per-room BAS exports (defaults to configured BAS dir)")
	out := flag.String("out", "", "output directory for cleaned CSVs (defaults to reports dir)")
	room := flag.String("room", "", "clean a single room id instead of every discovered room")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.Output != "console" {
		cfg.Logging.FilePath = paths.GetLogPath("roomclean.log")
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *dir == "" {
		*dir = paths.BASDir
	}
	if *out == "" {
		*out = paths.ReportsDir
	}

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())

	logger.InfoContext(ctx, "Starting room cleaning",
		slog.String("input_dir", *dir),
		slog.String("output_dir", *out))

	discovery := files.NewDiscovery(paths.BaseDir)
	rooms, err := discovery.FindRoomFiles(*dir, cfg.Analysis.RoomFilePrefix)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to discover room exports", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *room != "" {
		file, ok := rooms[*room]
		if !ok {
			logger.ErrorContext(ctx, "Room export not found",
				slog.String("room_id", *room),
				slog.String("dir", *dir))
			os.Exit(1)
		}
		rooms = map[string]files.FileInfo{*room: file}
	}

	logger.InfoContext(ctx, "Room exports found", slog.Int("count", len(rooms)))
	if len(rooms) == 0 {
		fmt.Println("No room exports to clean")
		return
	}

	// Outdoor air and room stats are shared across rooms; missing files
	// degrade to an indoor-only clean.
	outdoor, err := telemetry.ReadOutdoorCSV(paths.OutdoorCSV, cfg.Analysis.Delimiter)
	if err != nil {
		logger.WarnContext(ctx, "No outdoor-air data, cleaning without it",
			slog.String("path", paths.OutdoorCSV),
			slog.String("error", err.Error()))
	}
	stats, err := telemetry.ReadRoomStatsCSV(paths.RoomStatsCSV, cfg.Analysis.Delimiter)
	if err != nil {
		logger.WarnContext(ctx, "No room statistics, cleaning without metadata",
			slog.String("path", paths.RoomStatsCSV),
			slog.String("error", err.Error()))
	}

	writer := exporter.NewCSVWriter(logger)
	cleaned := 0

	for roomID, file := range rooms {
		series, err := telemetry.ReadRoomExport(file.Path, roomID, cfg.Analysis.Delimiter)
		if err != nil {
			logger.WarnContext(ctx, "Skipping room, export unreadable",
				slog.String("room_id", roomID),
				slog.String("file", file.Name),
				slog.String("error", err.Error()))
			continue
		}
		if len(series.Samples) == 0 {
			logger.WarnContext(ctx, "Skipping room, no usable rows",
				slog.String("room_id", roomID))
			continue
		}

		merged := dataset.Merge(ctx, series, outdoor, stats)

		outPath := filepath.Join(*out, roomID+".clean.csv")
		if err := writer.WriteCleanedSeries(outPath, merged); err != nil {
			logger.ErrorContext(ctx, "Failed to write cleaned CSV",
				slog.String("room_id", roomID),
				slog.String("error", err.Error()))
			continue
		}

		cleaned++
		logger.InfoContext(ctx, "Cleaned room export",
			slog.String("room_id", roomID),
			slog.Int("rows", len(merged.Rows)),
			slog.String("output", outPath))
	}

	logger.InfoContext(ctx, "Room cleaning completed",
		slog.Int("cleaned", cleaned),
		slog.Int("skipped", len(rooms)-cleaned))
	fmt.Printf("Cleaned %d of %d room exports\n", cleaned, len(rooms))
}
