package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Database DatabaseConfig
	Matching MatchingConfig `yaml:"matching"`
	Capture  CaptureConfig  `yaml:"capture"`
	Landmark LandmarkConfig `yaml:"landmark"`
	Web      WebConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Driver       string // "postgres" (default) or "mysql"
	URL          string // DSN passed to the driver
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type MatchingConfig struct {
	// DistanceThreshold is the mean landmark distance in pixels below which
	// two faces are considered the same person.
	DistanceThreshold float64 `yaml:"distance_threshold"`
}

type CaptureConfig struct {
	DetectionWindow time.Duration `yaml:"detection_window"`
	PollInterval    time.Duration `yaml:"poll_interval"` // delay between frame polls against the landmark service
}

type LandmarkConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"` // per-frame request timeout
}

type WebConfig struct {
	Host           string
	Port           int
	APIKey         string // empty disables API key auth
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string // zap level name (debug, info, warn, error)
	Format string // "console" or "json"
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat is envInt for positive floats.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envDuration parses a Go duration string ("10s", "1500ms").
// Non-positive or malformed values fall back to the default.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma-separated variable, dropping empty entries.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	var defaults Config
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Database: DatabaseConfig{
			Driver:       strings.ToLower(envString("DATABASE_DRIVER", "postgres")),
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Matching: MatchingConfig{
			DistanceThreshold: envFloat("MATCH_DISTANCE_THRESHOLD", defaults.Matching.DistanceThreshold),
		},
		Capture: CaptureConfig{
			DetectionWindow: envDuration("CAPTURE_DETECTION_WINDOW", defaults.Capture.DetectionWindow),
			PollInterval:    envDuration("LANDMARK_POLL_INTERVAL", defaults.Capture.PollInterval),
		},
		Landmark: LandmarkConfig{
			URL:     envString("LANDMARK_URL", defaults.Landmark.URL),
			Timeout: envDuration("LANDMARK_TIMEOUT", defaults.Landmark.Timeout),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8080),
			APIKey:         os.Getenv("WEB_API_KEY"),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(envString("LOG_LEVEL", "info")),
			Format: strings.ToLower(envString("LOG_FORMAT", "console")),
		},
	}
}
