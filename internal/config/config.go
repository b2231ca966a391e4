package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danielpatrickdp/brainwave-viewer/internal/playback"
)

// #region types
// Config is the viewer's startup configuration, read once from the environment.
type Config struct {
	APIURL    string
	Addr      string
	Transport string // "http" | "grpc"
	GRPCAddr  string
	DBPath    string
	Cadence   time.Duration
	Timeout   time.Duration
	AutoStart time.Duration
}

// ConfigurationError reports a missing or malformed setting. It is fatal at startup.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Key, e.Reason)
}

// #endregion types

// #region load
// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv, which lets tests supply a map.
func LoadFrom(getenv func(string) string) (Config, error) {
	apiURL := strings.TrimRight(strings.TrimSpace(getenv("SIMVIEWER_API_URL")), "/")
	if apiURL == "" {
		return Config{}, &ConfigurationError{Key: "SIMVIEWER_API_URL", Reason: "is not defined"}
	}

	cfg := Config{
		APIURL:    apiURL,
		Addr:      envOr(getenv, "SIMVIEWER_ADDR", ":8080"),
		Transport: envOr(getenv, "SIMVIEWER_TRANSPORT", "http"),
		GRPCAddr:  envOr(getenv, "SIMVIEWER_GRPC_ADDR", "localhost:50051"),
		DBPath:    envOr(getenv, "SIMVIEWER_DB", ":memory:"),
	}

	if cfg.Transport != "http" && cfg.Transport != "grpc" {
		return Config{}, &ConfigurationError{Key: "SIMVIEWER_TRANSPORT", Reason: fmt.Sprintf("must be http or grpc, got %q", cfg.Transport)}
	}

	var err error
	if cfg.Cadence, err = ParseCadence(envOr(getenv, "SIMVIEWER_CADENCE", "cinematic")); err != nil {
		return Config{}, &ConfigurationError{Key: "SIMVIEWER_CADENCE", Reason: err.Error()}
	}
	if cfg.Timeout, err = parsePositive(envOr(getenv, "SIMVIEWER_TIMEOUT", "60s")); err != nil {
		return Config{}, &ConfigurationError{Key: "SIMVIEWER_TIMEOUT", Reason: err.Error()}
	}
	if cfg.AutoStart, err = time.ParseDuration(envOr(getenv, "SIMVIEWER_AUTOSTART", "2s")); err != nil || cfg.AutoStart < 0 {
		return Config{}, &ConfigurationError{Key: "SIMVIEWER_AUTOSTART", Reason: "must be a non-negative duration"}
	}
	return cfg, nil
}

// #endregion load

// #region helpers
// ParseCadence accepts "dashboard", "cinematic" or a positive Go duration.
func ParseCadence(s string) (time.Duration, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dashboard":
		return playback.DashboardCadence, nil
	case "cinematic":
		return playback.CinematicCadence, nil
	}
	return parsePositive(s)
}

func parsePositive(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return d, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
