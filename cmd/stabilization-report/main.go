// Command stabilization-report runs the full occupancy analysis over every
// discovered room: setpoint filtering, episode segmentation, asymptote
// trimming and per-episode summarization, with CSV/XLSX reports and
// per-room plots.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"bascli/internal/config"
	"bascli/internal/dataset"
	"bascli/internal/exporter"
	"bascli/internal/files"
	"bascli/internal/infrastructure"
	"bascli/internal/occupancy"
	"bascli/internal/plotting"
	"bascli/internal/telemetry"
)

func main() {
	dir := flag.String("dir", "", "directory containing per-room BAS exports (defaults to configured BAS dir)")
	out := flag.String("out", "", "output directory for reports (defaults to reports dir)")
	room := flag.String("room", "", "analyze a single room id instead of every discovered room")
	tolerance := flag.Float64("tolerance", 0, "asymptote tolerance in degrees (defaults to configured value)")
	window := flag.Int("window", 0, "maximum episode length in samples (defaults to configured value)")
	plots := flag.Bool("plots", true, "render per-room plots")
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
		cfg.Logging.FilePath = paths.GetLogPath("stabilization-report.log")
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
	params := occupancy.Params{
		ToleranceDegrees: cfg.Analysis.ToleranceDegrees,
		MaxEpisodeRows:   cfg.Analysis.MaxEpisodeRows,
	}
	if *tolerance > 0 {
		params.ToleranceDegrees = *tolerance
	}
	if *window > 0 {
		params.MaxEpisodeRows = *window
	}

	summaryCSV := paths.EpisodeSummaryCSV
	summaryXLSX := paths.EpisodeSummaryXLSX
	if *out != "" {
		summaryCSV = filepath.Join(*out, "episode_summary.csv")
		summaryXLSX = filepath.Join(*out, "episode_summary.xlsx")
	}

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())

	logger.InfoContext(ctx, "Starting stabilization analysis",
		slog.String("input_dir", *dir),
		slog.Float64("tolerance_degrees", params.ToleranceDegrees),
		slog.Int("max_episode_rows", params.MaxEpisodeRows))

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
		fmt.Println("No room exports to analyze")
		return
	}

	outdoor, err := telemetry.ReadOutdoorCSV(paths.OutdoorCSV, cfg.Analysis.Delimiter)
	if err != nil {
		logger.WarnContext(ctx, "No outdoor-air data, analyzing without it",
			slog.String("path", paths.OutdoorCSV),
			slog.String("error", err.Error()))
	}
	stats, err := telemetry.ReadRoomStatsCSV(paths.RoomStatsCSV, cfg.Analysis.Delimiter)
	if err != nil {
		logger.WarnContext(ctx, "No room statistics, analyzing without metadata",
			slog.String("path", paths.RoomStatsCSV),
			slog.String("error", err.Error()))
	}

	// Stable room order so reruns produce identical reports
	roomIDs := make([]string, 0, len(rooms))
	for roomID := range rooms {
		roomIDs = append(roomIDs, roomID)
	}
	sort.Strings(roomIDs)

	plotter := plotting.NewPlotter(logger)
	var allSummaries []occupancy.Summary
	analyzed := 0

	for _, roomID := range roomIDs {
		file := rooms[roomID]

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

		summaries, err := occupancy.Analyze(ctx, merged, params)
		if err != nil {
			logger.WarnContext(ctx, "Skipping room, analysis failed",
				slog.String("room_id", roomID),
				slog.String("error", err.Error()))
			continue
		}

		analyzed++
		allSummaries = append(allSummaries, summaries...)

		if *plots {
			plotPath := paths.GetPlotPath(roomID + ".png")
			if err := plotter.RenderRoom(plotPath, merged, summaries); err != nil {
				logger.WarnContext(ctx, "Failed to render plot",
					slog.String("room_id", roomID),
					slog.String("error", err.Error()))
			}
		}
	}

	if analyzed == 0 {
		logger.ErrorContext(ctx, "No rooms could be analyzed")
		os.Exit(1)
	}

	csvWriter := exporter.NewCSVWriter(logger)
	if err := csvWriter.WriteEpisodeSummaries(summaryCSV, allSummaries); err != nil {
		logger.ErrorContext(ctx, "Failed to write episode summary CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}

	excelWriter := exporter.NewExcelWriter(logger)
	if err := excelWriter.WriteEpisodeWorkbook(summaryXLSX, allSummaries); err != nil {
		logger.ErrorContext(ctx, "Failed to write episode workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}

	agg := occupancy.Aggregate(allSummaries)
	logger.InfoContext(ctx, "Stabilization analysis completed",
		slog.Int("rooms_analyzed", analyzed),
		slog.Int("episodes", agg.Episodes),
		slog.Int("stabilized", agg.StabilizedCount),
		slog.Float64("mean_minutes_to_stabilize", agg.MeanStabilize.Minutes()),
		slog.Float64("stddev_minutes_to_stabilize", agg.StdDevStabilize.Minutes()))

	fmt.Printf("Analyzed %d rooms, %d episodes (%d stabilized)\n", analyzed, agg.Episodes, agg.StabilizedCount)
	fmt.Printf("Episode summary written to %s\n", summaryCSV)
}
