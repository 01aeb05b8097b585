// =============================================================================
// Visitor Export - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file. The file
// is optional: when it does not exist every setting takes its default.
//
// CONFIGURATION SECTIONS:
//   1. Files:    history file, output directory, output file naming
//   2. Import:   spreadsheet sheet name, CSV encoding and delimiter
//   3. Logging:  level and format
//   4. Defaults: pre-filled shared metadata for the generate command
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/visitor-export/internal/types"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// HistoryFile stores the recently used approvers.
	// Default: "./history.json"
	HistoryFile string `yaml:"history_file"`

	// OutputDir is where generated files go when --output is not given.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// OutputFileFormat names generated files.
	// Placeholders: {timestamp}, {date}, {time}, {uuid}
	// Default: "visitors_{timestamp}.csv"
	OutputFileFormat string `yaml:"output_file_format"`

	// =========================================================================
	// IMPORT SETTINGS
	// =========================================================================

	Import ImportSettings `yaml:"import"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log handler.
	// Valid values: "text", "json"
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// METADATA DEFAULTS
	// =========================================================================

	Defaults Defaults `yaml:"defaults"`
}

// ImportSettings controls how visitor spreadsheets are read.
type ImportSettings struct {
	// SheetName is the worksheet to read from .xlsx files.
	// Default: "" (the first sheet)
	SheetName string `yaml:"sheet_name"`

	// Encoding of .csv input files.
	// Valid values: "UTF-8", "GBK"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// Delimiter of .csv input files.
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// Defaults pre-fill the shared metadata of the generate command.
type Defaults struct {
	// VisitType is "公务拜访" or "入校参观" (or "business" / "campus").
	// Default: "公务拜访"
	VisitType string `yaml:"visit_type"`

	// IDType is "身份证" or "护照" (or "national" / "passport").
	// Default: "身份证"
	IDType string `yaml:"id_type"`

	// Sites selected when no --site flag is given.
	Sites []string `yaml:"sites"`

	// StartTime and EndTime are "HH:MM" used when a date without a time is
	// passed on the command line.
	// Default: "08:00" and "18:00"
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration from configPath.
//
// PARAMETERS:
//   - configPath: The path to the YAML file.
//   - required:   When false, a missing file yields the defaults.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string, required bool) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = "./history.json"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.OutputFileFormat == "" {
		cfg.OutputFileFormat = "visitors_{timestamp}.csv"
	}
	if cfg.Import.Encoding == "" {
		cfg.Import.Encoding = "UTF-8"
	}
	if cfg.Import.Delimiter == "" {
		cfg.Import.Delimiter = ","
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.Defaults.VisitType == "" {
		cfg.Defaults.VisitType = string(types.VisitBusiness)
	}
	if cfg.Defaults.IDType == "" {
		cfg.Defaults.IDType = string(types.IDNational)
	}
	if cfg.Defaults.StartTime == "" {
		cfg.Defaults.StartTime = "08:00"
	}
	if cfg.Defaults.EndTime == "" {
		cfg.Defaults.EndTime = "18:00"
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q is not one of text, json", c.LogFormat)
	}

	switch strings.ToUpper(c.Import.Encoding) {
	case "UTF-8", "UTF8", "GBK":
	default:
		return fmt.Errorf("import.encoding %q is not one of UTF-8, GBK", c.Import.Encoding)
	}

	switch c.Import.Delimiter {
	case "\\t", "tab", "TAB":
	default:
		if len([]rune(c.Import.Delimiter)) != 1 {
			return fmt.Errorf("import.delimiter %q must be a single character", c.Import.Delimiter)
		}
	}

	if _, err := types.ParseVisitType(c.Defaults.VisitType); err != nil {
		return fmt.Errorf("defaults.visit_type: %w", err)
	}
	if _, err := types.ParseIDType(c.Defaults.IDType); err != nil {
		return fmt.Errorf("defaults.id_type: %w", err)
	}
	for _, s := range c.Defaults.Sites {
		if _, err := types.ParseSite(s); err != nil {
			return fmt.Errorf("defaults.sites: %w", err)
		}
	}
	for name, value := range map[string]string{
		"defaults.start_time": c.Defaults.StartTime,
		"defaults.end_time":   c.Defaults.EndTime,
	} {
		if _, err := time.Parse("15:04", value); err != nil {
			return fmt.Errorf("%s %q is not HH:MM", name, value)
		}
	}

	return nil
}

// DelimiterRune returns the CSV import delimiter.
func (s ImportSettings) DelimiterRune() rune {
	switch s.Delimiter {
	case "\\t", "tab", "TAB":
		return '\t'
	}
	return []rune(s.Delimiter)[0]
}
