package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	BASDir        string `yaml:"bas_dir" envconfig:"BAS_DIR" default:"data/combined_milas_hall"`
	OutdoorCSV    string `yaml:"outdoor_csv" envconfig:"OUTDOOR_CSV" default:"data/oa_data.csv"`
	RoomStatsCSV  string `yaml:"room_stats_csv" envconfig:"ROOM_STATS_CSV" default:"data/room_stats.csv"`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	PlotsDir      string `yaml:"plots_dir" envconfig:"PLOTS_DIR" default:"data/plots"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// AnalysisConfig contains parameters for the occupancy analysis pipeline.
// Tolerance is in the same unit as the temperature columns (degrees F).
type AnalysisConfig struct {
	ToleranceDegrees float64 `yaml:"tolerance_degrees" envconfig:"TOLERANCE_DEGREES" default:"0.5" validate:"gt=0"`
	MaxEpisodeRows   int     `yaml:"max_episode_rows" envconfig:"MAX_EPISODE_ROWS" default:"48" validate:"gt=0"`
	RoomFilePrefix   string  `yaml:"room_file_prefix" envconfig:"ROOM_FILE_PREFIX" default:"Flo2.3-"`
	Delimiter        string  `yaml:"delimiter" envconfig:"DELIMITER" default:""`
}

// Load loads configuration from .env, environment variables and an optional
// YAML config file. Environment variables win over file values, which win
// over the tag defaults.
func Load() (*Config, error) {
	// Best-effort .env load, same as the local-dev flow
	_ = godotenv.Load()

	var cfg Config

	// Load from environment variables first; this also fills defaults
	if err := envconfig.Process("BAS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. A file value replaces the
// env result only when the field was filled by its default tag rather than an
// actual environment variable.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig

	if fileConfig.Logging.Level != "" && !envSet("LOGGING_LEVEL") {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && !envSet("LOGGING_FORMAT") {
		merged.Logging.Format = fileConfig.Logging.Format
	}
	if fileConfig.Logging.Output != "" && !envSet("LOGGING_OUTPUT") {
		merged.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && !envSet("LOGGING_FILE_PATH") {
		merged.Logging.FilePath = fileConfig.Logging.FilePath
	}

	if fileConfig.Paths.DataDir != "" && !envSet("PATHS_DATA_DIR") {
		merged.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if fileConfig.Paths.BASDir != "" && !envSet("PATHS_BAS_DIR") {
		merged.Paths.BASDir = fileConfig.Paths.BASDir
	}
	if fileConfig.Paths.OutdoorCSV != "" && !envSet("PATHS_OUTDOOR_CSV") {
		merged.Paths.OutdoorCSV = fileConfig.Paths.OutdoorCSV
	}
	if fileConfig.Paths.RoomStatsCSV != "" && !envSet("PATHS_ROOM_STATS_CSV") {
		merged.Paths.RoomStatsCSV = fileConfig.Paths.RoomStatsCSV
	}
	if fileConfig.Paths.ReportsDir != "" && !envSet("PATHS_REPORTS_DIR") {
		merged.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if fileConfig.Paths.PlotsDir != "" && !envSet("PATHS_PLOTS_DIR") {
		merged.Paths.PlotsDir = fileConfig.Paths.PlotsDir
	}
	if fileConfig.Paths.LogsDir != "" && !envSet("PATHS_LOGS_DIR") {
		merged.Paths.LogsDir = fileConfig.Paths.LogsDir
	}

	if fileConfig.Analysis.ToleranceDegrees != 0 && !envSet("ANALYSIS_TOLERANCE_DEGREES") {
		merged.Analysis.ToleranceDegrees = fileConfig.Analysis.ToleranceDegrees
	}
	if fileConfig.Analysis.MaxEpisodeRows != 0 && !envSet("ANALYSIS_MAX_EPISODE_ROWS") {
		merged.Analysis.MaxEpisodeRows = fileConfig.Analysis.MaxEpisodeRows
	}
	if fileConfig.Analysis.RoomFilePrefix != "" && !envSet("ANALYSIS_ROOM_FILE_PREFIX") {
		merged.Analysis.RoomFilePrefix = fileConfig.Analysis.RoomFilePrefix
	}
	if fileConfig.Analysis.Delimiter != "" && !envSet("ANALYSIS_DELIMITER") {
		merged.Analysis.Delimiter = fileConfig.Analysis.Delimiter
	}

	return merged
}

// envSet reports whether the prefixed environment variable is present.
func envSet(key string) bool {
	_, ok := os.LookupEnv("BAS_" + key)
	return ok
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// getConfigFilePath returns the config file path, overridable via env
func getConfigFilePath() string {
	if path := os.Getenv("BAS_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// validate checks configuration consistency
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	switch c.Logging.Output {
	case "", "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q (expected console, file, or both)", c.Logging.Output)
	}

	switch c.Analysis.Delimiter {
	case "", ",", ";":
	default:
		return fmt.Errorf("invalid delimiter %q (expected \",\" or \";\")", c.Analysis.Delimiter)
	}

	return nil
}
