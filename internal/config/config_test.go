package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	t.Setenv(key, "test_value")

	if got := getEnvString(key, "default"); got != "test_value" {
		t.Errorf("getEnvString() = %q, want %q", got, "test_value")
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvRaw(t *testing.T) {
	key := "TEST_ENV_RAW"

	if got := getEnvRaw(key, "default"); got != "default" {
		t.Errorf("unset: getEnvRaw() = %q, want default", got)
	}

	t.Setenv(key, "")
	if got := getEnvRaw(key, "default"); got != "" {
		t.Errorf("empty: getEnvRaw() = %q, want empty", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_ENV_INT"

	tests := []struct {
		name   string
		envVal string
		want   int
	}{
		{"Valid", "12", 12},
		{"Negative", "-3", -3},
		{"Invalid", "twelve", 7},
		{"Empty", "", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvInt(key, 7); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	tests := []struct {
		envVal string
		want   bool
	}{
		{"false", false},
		{"0", false},
		{"true", true},
		{"nope", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.envVal, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvBool(key, true); got != tt.want {
				t.Errorf("getEnvBool(%q) = %v, want %v", tt.envVal, got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestDefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Skipping test because user home dir cannot be found")
	}

	want := filepath.Join(home, ".config", "biliinsight", "history.db")
	if got := defaultPath("history.db"); got != want {
		t.Errorf("defaultPath() = %q, want %q", got, want)
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Error("getEnvPaths() returned empty list")
	}

	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "data", "history.db"))
	t.Setenv("SESSION_PATH", filepath.Join(tmpDir, "session.json"))
	t.Setenv("LOG_DIR", filepath.Join(tmpDir, "log"))
	t.Setenv("HISTORY_PAGE_SIZE", "")
	t.Setenv("HISTORY_WINDOW_DAYS", "")
	t.Setenv("API_BASE_URL", "http://localhost:8080/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.HistoryWindowDays != defaultWindowDays || cfg.HistoryPageSize != defaultPageSize {
		t.Errorf("unexpected history defaults: %+v", cfg)
	}
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Errorf("APIBaseURL = %q, trailing slash not trimmed", cfg.APIBaseURL)
	}
	for _, dir := range []string{filepath.Join(tmpDir, "data"), filepath.Join(tmpDir, "log")} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
		}
	}
}

func TestLoad_ClampsAndFallbacks(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "history.db"))
	t.Setenv("SESSION_PATH", filepath.Join(tmpDir, "session.json"))
	t.Setenv("LOG_DIR", filepath.Join(tmpDir, "log"))
	t.Setenv("HISTORY_PAGE_SIZE", "100")
	t.Setenv("HISTORY_WINDOW_DAYS", "-2")
	t.Setenv("HISTORY_MAX_PAGES", "0")
	t.Setenv("REFRESH_SCHEDULE", "")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.HistoryPageSize != maxPageSize {
		t.Errorf("HistoryPageSize = %d, want %d", cfg.HistoryPageSize, maxPageSize)
	}
	if cfg.HistoryWindowDays != defaultWindowDays {
		t.Errorf("HistoryWindowDays = %d, want %d", cfg.HistoryWindowDays, defaultWindowDays)
	}
	if cfg.HistoryMaxPages != defaultMaxPages {
		t.Errorf("HistoryMaxPages = %d, want %d", cfg.HistoryMaxPages, defaultMaxPages)
	}
	if cfg.RefreshSchedule != "" {
		t.Errorf("RefreshSchedule = %q, want disabled", cfg.RefreshSchedule)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want lowercased", cfg.LogLevel)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ v, want int }{
		{0, 1}, {1, 1}, {15, 15}, {30, 30}, {31, 30},
	}
	for _, tt := range tests {
		if got := clamp(tt.v, 1, 30); got != tt.want {
			t.Errorf("clamp(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}
