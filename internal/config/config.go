package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	domain "waitstat/domain/stats"
	"waitstat/internal/errors"
)

var validate = validator.New()

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `validate:"required"`
	Database DatabaseConfig
	Data     DataConfig     `validate:"required"`
	Analysis AnalysisConfig `validate:"required"`
}

// DatabaseConfig holds database connection settings. An empty URL disables
// report persistence.
type DatabaseConfig struct {
	URL          string `validate:"omitempty,url"`
	MaxOpenConns int    `validate:"gte=0"`
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"oneof=debug release test"`
}

// DataConfig locates the input files
type DataConfig struct {
	File       string
	GroupA     string `validate:"required"`
	GroupB     string `validate:"required,nefield=GroupA"`
	SurveyFile string
}

// AnalysisConfig holds the comparison parameters. It can be loaded from a
// YAML profile and overridden from the environment.
type AnalysisConfig struct {
	Levels       []float64         `yaml:"levels" validate:"required,min=1,dive,gt=0,lt=1"`
	Thresholds   []float64         `yaml:"thresholds" validate:"required,min=1"`
	Alpha        float64           `yaml:"alpha" validate:"gt=0,lt=1"`
	LeveneCenter string            `yaml:"levene_center" validate:"oneof=median mean"`
	SurveyA      *domain.CountPair `yaml:"survey_a"`
	SurveyB      *domain.CountPair `yaml:"survey_b"`
}

// DefaultAnalysis returns the built-in analysis parameters
func DefaultAnalysis() AnalysisConfig {
	return AnalysisConfig{
		Levels:       []float64{0.90, 0.95, 0.99},
		Thresholds:   []float64{5, 8, 10},
		Alpha:        0.05,
		LeveneCenter: "median",
	}
}

// Load reads configuration from environment variables and validates it.
// When ANALYSIS_PROFILE names a YAML file its values replace the analysis
// defaults; ALPHA, CONFIDENCE_LEVELS and SLA_THRESHOLDS override both.
func Load() (*Config, error) {
	config := &Config{
		Server:   loadServerConfig(),
		Database: loadDatabaseConfig(),
		Data:     loadDataConfig(),
		Analysis: DefaultAnalysis(),
	}

	if path := os.Getenv("ANALYSIS_PROFILE"); path != "" {
		if err := LoadProfile(path, &config.Analysis); err != nil {
			return nil, errors.Wrap(err, "failed to load analysis profile")
		}
	}
	loadAnalysisEnv(&config.Analysis)

	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadProfile overlays a YAML analysis profile onto cfg. Keys absent from
// the file keep their current values.
func LoadProfile(path string, cfg *AnalysisConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &errors.AppError{Code: errors.CodeConfigInvalid, Message: "parse " + path, Cause: err}
	}
	return nil
}

// Validate checks the struct tags of the whole configuration
func Validate(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return &errors.AppError{Code: errors.CodeConfigInvalid, Message: "configuration validation failed", Cause: err}
	}
	return nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:          os.Getenv("DATABASE_URL"),
		MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		File:       getEnvOrDefault("DATA_FILE", ""),
		GroupA:     getEnvOrDefault("GROUP_A", "A"),
		GroupB:     getEnvOrDefault("GROUP_B", "B"),
		SurveyFile: getEnvOrDefault("SURVEY_FILE", ""),
	}
}

func loadAnalysisEnv(cfg *AnalysisConfig) {
	cfg.Alpha = getEnvFloatOrDefault("ALPHA", cfg.Alpha)
	cfg.Levels = getEnvFloatsOrDefault("CONFIDENCE_LEVELS", cfg.Levels)
	cfg.Thresholds = getEnvFloatsOrDefault("SLA_THRESHOLDS", cfg.Thresholds)
	cfg.LeveneCenter = getEnvOrDefault("LEVENE_CENTER", cfg.LeveneCenter)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvFloatsOrDefault parses a comma-separated list; any bad element
// discards the whole value
func getEnvFloatsOrDefault(key string, defaultValue []float64) []float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	values, err := ParseFloatList(value)
	if err != nil {
		return defaultValue
	}
	return values
}

// ParseFloatList parses "0.9, 0.95,0.99" into a slice
func ParseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, errors.InvalidInput("not a number: " + p)
		}
		out = append(out, v)
	}
	return out, nil
}
