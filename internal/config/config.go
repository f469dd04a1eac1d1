// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath string
	SessionPath  string
	LogDir       string
	LogLevel     string

	HistoryWindowDays int
	HistoryPageSize   int
	HistoryMaxPages   int
	RequestTimeout    time.Duration

	LoginPollInterval    time.Duration
	RefreshSchedule      string
	NotificationsEnabled bool

	APIBaseURL      string
	PassportBaseURL string
}

// Default values
const (
	defaultLogLevel          = "info"
	defaultWindowDays        = 7
	defaultPageSize          = 30
	maxPageSize              = 30
	defaultMaxPages          = 20
	defaultRequestTimeout    = 15 * time.Second
	defaultLoginPollInterval = 2 * time.Second
	defaultRefreshSchedule   = "@every 30m"
	defaultAPIBaseURL        = "https://api.bilibili.com"
	defaultPassportBaseURL   = "https://passport.bilibili.com"

	appDirName = "biliinsight"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath: getEnvString("DATABASE_PATH", defaultPath("history.db")),
		SessionPath:  getEnvString("SESSION_PATH", defaultPath("session.json")),
		LogDir:       getEnvString("LOG_DIR", defaultPath("log")),
		LogLevel:     strings.ToLower(getEnvString("LOG_LEVEL", defaultLogLevel)),

		HistoryWindowDays: getEnvInt("HISTORY_WINDOW_DAYS", defaultWindowDays),
		HistoryPageSize:   clamp(getEnvInt("HISTORY_PAGE_SIZE", defaultPageSize), 1, maxPageSize),
		HistoryMaxPages:   getEnvInt("HISTORY_MAX_PAGES", defaultMaxPages),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),

		LoginPollInterval:    getEnvDuration("LOGIN_POLL_INTERVAL", defaultLoginPollInterval),
		RefreshSchedule:      getEnvRaw("REFRESH_SCHEDULE", defaultRefreshSchedule),
		NotificationsEnabled: getEnvBool("NOTIFICATIONS_ENABLED", true),

		APIBaseURL:      strings.TrimRight(getEnvString("API_BASE_URL", defaultAPIBaseURL), "/"),
		PassportBaseURL: strings.TrimRight(getEnvString("PASSPORT_BASE_URL", defaultPassportBaseURL), "/"),
	}

	if cfg.HistoryWindowDays <= 0 {
		cfg.HistoryWindowDays = defaultWindowDays
	}
	if cfg.HistoryMaxPages <= 0 {
		cfg.HistoryMaxPages = defaultMaxPages
	}

	for _, dir := range []string{filepath.Dir(cfg.DatabasePath), filepath.Dir(cfg.SessionPath), cfg.LogDir} {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", appDirName, ".env"),
			filepath.Join(home, ".biliinsight", ".env"),
		)
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// defaultPath returns name inside the per-user config directory.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".config", appDirName, name)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRaw is like getEnvString but an explicitly empty value wins.
func getEnvRaw(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
