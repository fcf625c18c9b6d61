// Package config loads application settings from defaults, an optional YAML
// file, a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"assessments/internal/database"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	SourceXLSX   = "xlsx"
	SourceOracle = "oracle"

	envPrefix         = "ASSESS"
	defaultConfigFile = "assessments.yaml"
)

// Config represents the complete application configuration
type Config struct {
	Source   string            `yaml:"source" envconfig:"SOURCE"`
	Files    FilesConfig       `yaml:"files" envconfig:"FILES"`
	Database database.DBConfig `yaml:"database" envconfig:"DATABASE"`
	Output   OutputConfig      `yaml:"output" envconfig:"OUTPUT"`
	Report   ReportConfig      `yaml:"report" envconfig:"REPORT"`
	Chart    ChartConfig       `yaml:"chart" envconfig:"CHART"`
	Logging  LoggingConfig     `yaml:"logging" envconfig:"LOGGING"`
}

// FilesConfig names the three source workbooks.
type FilesConfig struct {
	Construction string `yaml:"construction" envconfig:"CONSTRUCTION"`
	Land         string `yaml:"land" envconfig:"LAND"`
	Assessment   string `yaml:"assessment" envconfig:"ASSESSMENT"`
}

// OutputConfig names the files written at the end of a run.
type OutputConfig struct {
	Export    string `yaml:"export" envconfig:"EXPORT"`
	ChartPNG  string `yaml:"chart_png" envconfig:"CHART_PNG"`
	ChartHTML string `yaml:"chart_html" envconfig:"CHART_HTML"`
}

// ReportConfig tunes the statistics block.
type ReportConfig struct {
	BaseYear  int     `yaml:"base_year" envconfig:"BASE_YEAR"`
	Threshold float64 `yaml:"threshold" envconfig:"THRESHOLD"`
	TopN      int     `yaml:"top_n" envconfig:"TOP_N"`
	Locale    string  `yaml:"locale" envconfig:"LOCALE"`
	Symbol    string  `yaml:"currency_symbol" envconfig:"CURRENCY_SYMBOL"`
	Color     bool    `yaml:"color" envconfig:"COLOR"`

	LegendOrder []string `yaml:"legend_order" envconfig:"LEGEND_ORDER"`
}

// ChartConfig controls the interactive chart.
type ChartConfig struct {
	Show    bool   `yaml:"show" envconfig:"SHOW"`
	Browser string `yaml:"browser" envconfig:"BROWSER"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Source: SourceXLSX,
		Files: FilesConfig{
			Construction: "data/year_of_construction_data.xlsx",
			Land:         "data/land_data.xlsx",
			Assessment:   "data/assessment_data.xlsx",
		},
		Database: database.DBConfig{
			Host:              "localhost",
			Port:              "1521",
			Service:           "XE",
			Timeout:           10 * time.Second,
			ConstructionTable: "YEAR_OF_CONSTRUCTION_DATA",
			LandTable:         "LAND_DATA",
			AssessmentTable:   "ASSESSMENT_DATA",
		},
		Output: OutputConfig{
			Export:    "merged_data_export.xlsx",
			ChartPNG:  "yearly_averages_plot.png",
			ChartHTML: "yearly_averages_plot.html",
		},
		Report: ReportConfig{
			BaseYear:  2018,
			Threshold: 300000,
			TopN:      10,
			Locale:    "en-CA",
			Symbol:    "$",
			Color:     true,

			LegendOrder: []string{"FLN", "NEB", "HIL"},
		},
		Chart: ChartConfig{
			Show:    true,
			Browser: defaultBrowser(),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load builds the configuration. A .env file in the working directory seeds
// the environment without overriding variables that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if err := cfg.loadFile(configFilePath()); err != nil {
		return nil, err
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path. A missing file is not an error.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func configFilePath() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return defaultConfigFile
}

func (c *Config) validate() error {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	switch c.Source {
	case SourceXLSX:
		if c.Files.Construction == "" || c.Files.Land == "" || c.Files.Assessment == "" {
			return fmt.Errorf("%w: all three workbook paths are required", ErrInvalidConfig)
		}
	case SourceOracle:
		if c.Database.Username == "" {
			return fmt.Errorf("%w: DB_USERNAME is required for the oracle source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: source must be %q or %q, got %q", ErrInvalidConfig, SourceXLSX, SourceOracle, c.Source)
	}

	if c.Report.BaseYear <= 0 {
		return fmt.Errorf("%w: base year must be positive", ErrInvalidConfig)
	}
	if c.Report.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive", ErrInvalidConfig)
	}
	if c.Report.TopN <= 0 {
		return fmt.Errorf("%w: top N must be positive", ErrInvalidConfig)
	}
	if c.Output.Export == "" || c.Output.ChartPNG == "" {
		return fmt.Errorf("%w: export and chart paths are required", ErrInvalidConfig)
	}

	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
	switch c.Logging.Output {
	case "stderr", "file", "both":
	default:
		return fmt.Errorf("%w: logging output must be stderr, file or both", ErrInvalidConfig)
	}
	if c.Logging.Output != "stderr" && c.Logging.FilePath == "" {
		return fmt.Errorf("%w: logging file path is required when logging to a file", ErrInvalidConfig)
	}
	return nil
}
