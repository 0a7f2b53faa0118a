package config

import (
	"os"
	"strconv"

	"csvscope/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// UploadConfig holds file upload limits
type UploadConfig struct {
	MaxFileSizeMB  int64
	MaxUploadFiles int
}

// AnalysisConfig holds the default analysis options. Request-level
// options override these per call; both go through the same clamping.
type AnalysisConfig struct {
	HistogramBins     int  // 5..100
	ShowKDE           bool // overlay density curve on histograms
	MaxDefaultColumns int  // 1..12 columns auto-selected per file
	ShowCorrelation   bool // heatmap, only effective with >= 2 numeric columns
	PreviewRows       int  // rows included in dataset preview
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Upload: UploadConfig{
			MaxFileSizeMB:  int64(getEnvIntOrDefault("MAX_FILE_SIZE_MB", 50)),
			MaxUploadFiles: getEnvIntOrDefault("MAX_UPLOAD_FILES", 16),
		},
		Analysis: AnalysisConfig{
			HistogramBins:     getEnvIntOrDefault("HIST_BINS", 20),
			ShowKDE:           getEnvBoolOrDefault("SHOW_KDE", true),
			MaxDefaultColumns: getEnvIntOrDefault("MAX_DEFAULT_COLUMNS", 5),
			ShowCorrelation:   getEnvBoolOrDefault("SHOW_CORRELATION", true),
			PreviewRows:       getEnvIntOrDefault("PREVIEW_ROWS", 5),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	config.Analysis = config.Analysis.Clamped()

	return config, nil
}

// Clamped returns a copy with every option forced into its valid range
func (a AnalysisConfig) Clamped() AnalysisConfig {
	out := a
	if out.HistogramBins < 5 {
		out.HistogramBins = 5
	}
	if out.HistogramBins > 100 {
		out.HistogramBins = 100
	}
	if out.MaxDefaultColumns < 1 {
		out.MaxDefaultColumns = 1
	}
	if out.MaxDefaultColumns > 12 {
		out.MaxDefaultColumns = 12
	}
	if out.PreviewRows < 1 {
		out.PreviewRows = 1
	}
	return out
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Upload.MaxFileSizeMB <= 0 {
		return errors.ConfigInvalid("max file size must be positive")
	}
	if config.Upload.MaxUploadFiles <= 0 {
		return errors.ConfigInvalid("max upload files must be positive")
	}
	return nil
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
