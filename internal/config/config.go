package config

import (
	"os"
	"strconv"
	"strings"

	"logstat/internal/errors"
)

// Output formats understood by the renderers
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
)

// Config represents the complete application configuration
type Config struct {
	Summary SummaryConfig
	Server  ServerConfig
	Log     LogConfig
}

// SummaryConfig holds the defaults used by the summary command and API
type SummaryConfig struct {
	HPD     float64 // HPD proportion, 0 < HPD < 1
	Sep     string  // field delimiter in log files
	Comment string  // comment line prefix
	State   string  // iteration-index column, always excluded by default
	Format  string  // text|markdown|html|json
	Workers int     // runs processed concurrently
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Summary: *loadSummaryConfig(),
		Server:  ServerConfig{Addr: getEnvOrDefault("LOGSTAT_ADDR", ":8080")},
		Log:     LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Summary: SummaryConfig{
			HPD:     0.95,
			Sep:     "\t",
			Comment: "#",
			State:   "state",
			Format:  FormatText,
			Workers: 1,
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "INFO"},
	}
}

func loadSummaryConfig() *SummaryConfig {
	def := Default().Summary
	return &SummaryConfig{
		HPD:     getEnvFloatOrDefault("LOGSTAT_HPD", def.HPD),
		Sep:     UnescapeSep(getEnvOrDefault("LOGSTAT_SEP", def.Sep)),
		Comment: getEnvOrDefault("LOGSTAT_COMMENT", def.Comment),
		State:   getEnvOrDefault("LOGSTAT_STATE", def.State),
		Format:  strings.ToLower(getEnvOrDefault("LOGSTAT_FORMAT", def.Format)),
		Workers: getEnvIntOrDefault("LOGSTAT_WORKERS", def.Workers),
	}
}

func validateConfig(config *Config) error {
	s := config.Summary
	if !(s.HPD > 0 && s.HPD < 1) {
		return errors.ConfigInvalid("LOGSTAT_HPD must be in (0, 1)")
	}
	if s.Sep == "" {
		return errors.ConfigInvalid("LOGSTAT_SEP must not be empty")
	}
	if s.Workers < 1 {
		return errors.ConfigInvalid("LOGSTAT_WORKERS must be at least 1")
	}
	if !ValidFormat(s.Format) {
		return errors.ConfigInvalid("LOGSTAT_FORMAT must be one of text, markdown, html, json")
	}
	return nil
}

// ValidFormat reports whether f names a known output format
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatMarkdown, FormatHTML, FormatJSON:
		return true
	}
	return false
}

// UnescapeSep turns the two-character sequence `\t` into a tab so .env files and flags can name it
func UnescapeSep(s string) string {
	if s == `\t` {
		return "\t"
	}
	return s
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
