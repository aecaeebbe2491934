// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	domainerrors "github.com/listenupapp/repostmap/internal/errors"
	"github.com/listenupapp/repostmap/internal/validation"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Input  InputConfig
	Output OutputConfig
	Map    MapConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `env:"ENV" validate:"oneof=development staging production"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// InputConfig locates the retweet spreadsheet and the country boundaries.
type InputConfig struct {
	DataPath          string `env:"DATA_PATH" validate:"required,xlsx"`
	Sheet             string `env:"DATA_SHEET"` // Optional, first sheet when empty
	BoundariesPath    string `env:"BOUNDARIES_PATH" validate:"required,boundaryfile"`
	BoundaryNameField string `env:"BOUNDARY_NAME_FIELD" validate:"required"`
	AliasesPath       string `env:"ALIASES_PATH"` // Optional extra alias file
	NormalizeUnicode  bool   `env:"NORMALIZE_UNICODE"`
}

// OutputConfig holds where rendered maps are written.
type OutputConfig struct {
	Dir           string `env:"OUTPUT_DIR" validate:"required"`
	ReportDropped bool   `env:"REPORT_DROPPED"`
}

// MapConfig holds figure geometry and styling switches.
type MapConfig struct {
	DPI         float64 `env:"MAP_DPI" validate:"gt=0,lte=1200"`
	WidthInch   float64 `env:"MAP_WIDTH_IN" validate:"gt=0,lte=100"`
	HeightInch  float64 `env:"MAP_HEIGHT_IN" validate:"gt=0,lte=100"`
	NeutralZero bool    `env:"MAP_NEUTRAL_ZERO"`
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("repostmap", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	dataPath := fs.String("data", "", "Path to the retweet spreadsheet (default: data/data.xlsx)")
	sheet := fs.String("sheet", "", "Worksheet name (default: first sheet)")
	boundariesPath := fs.String("boundaries", "", "Path to the country boundaries (.shp or .geojson)")
	nameField := fs.String("name-field", "", "Boundary attribute holding the country name (default: ADMIN)")
	aliasesPath := fs.String("aliases", "", "Optional file of extra country aliases (Alias=Canonical per line)")
	normalizeUnicode := fs.String("normalize-unicode", "", "Compose country names to NFC before alias lookup (default: false)")

	outputDir := fs.String("output", "", "Directory for rendered maps (default: output)")
	reportDropped := fs.String("report-dropped", "", "Log unmatched and null-country records per issue (default: false)")

	dpi := fs.String("dpi", "", "Raster resolution in dots per inch (default: 300)")
	width := fs.String("width", "", "Figure width in inches (default: 15)")
	height := fs.String("height", "", "Figure height in inches (default: 10)")
	neutralZero := fs.String("neutral-zero", "", "Fill countries without retweets with the neutral color (default: true)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	mapDPI, err := getFloatConfigValue(*dpi, "MAP_DPI", 300)
	if err != nil {
		return nil, err
	}
	mapWidth, err := getFloatConfigValue(*width, "MAP_WIDTH_IN", 15)
	if err != nil {
		return nil, err
	}
	mapHeight, err := getFloatConfigValue(*height, "MAP_HEIGHT_IN", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Input: InputConfig{
			DataPath:          getConfigValue(*dataPath, "DATA_PATH", filepath.Join("data", "data.xlsx")),
			Sheet:             getConfigValue(*sheet, "DATA_SHEET", ""),
			BoundariesPath:    getConfigValue(*boundariesPath, "BOUNDARIES_PATH", filepath.Join("shapefiles", "ne_110m_admin_0_countries.shp")),
			BoundaryNameField: getConfigValue(*nameField, "BOUNDARY_NAME_FIELD", "ADMIN"),
			AliasesPath:       getConfigValue(*aliasesPath, "ALIASES_PATH", ""),
			NormalizeUnicode:  getBoolConfigValue(*normalizeUnicode, "NORMALIZE_UNICODE", false),
		},
		Output: OutputConfig{
			Dir:           getConfigValue(*outputDir, "OUTPUT_DIR", "output"),
			ReportDropped: getBoolConfigValue(*reportDropped, "REPORT_DROPPED", false),
		},
		Map: MapConfig{
			DPI:         mapDPI,
			WidthInch:   mapWidth,
			HeightInch:  mapHeight,
			NeutralZero: getBoolConfigValue(*neutralZero, "MAP_NEUTRAL_ZERO", true),
		},
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	return validation.New().Validate(c)
}

func (c *Config) expandPaths() error {
	paths := []struct {
		name string
		ptr  *string
	}{
		{"data path", &c.Input.DataPath},
		{"boundaries path", &c.Input.BoundariesPath},
		{"aliases path", &c.Input.AliasesPath},
		{"output dir", &c.Output.Dir},
	}

	for _, p := range paths {
		expanded, err := expandPath(*p.ptr)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", p.name, err)
		}
		*p.ptr = expanded
	}
	return nil
}

// expandPath expands ~ and makes the path absolute. Empty stays empty.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getFloatConfigValue returns a float from flag, env var, or default.
// A value that does not parse is an invalid input error naming envKey.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) (float64, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseFloat(strings.TrimSpace(strValue), 64)
	if err != nil {
		return 0, domainerrors.InvalidInputWithDetails(
			fmt.Sprintf("validation failed: %s %q is not a number", envKey, strValue),
			map[string]string{envKey: "must be a number"})
	}
	return result, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Env vars already set take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
