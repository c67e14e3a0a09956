package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/pdfrules/extract"
	pdfhttp "github.com/fwojciec/pdfrules/http"
	"github.com/fwojciec/pdfrules/pdf"
)

// Config holds runtime settings read from the environment.
type Config struct {
	DBPath             string
	UploadDir          string
	Addr               string
	LogLevel           slog.Level
	ExtractTimeout     time.Duration
	ExtractConcurrency int
	MaxUploadSize      int64
	UploadRate         float64
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	dir := defaultDataDir()
	return Config{
		DBPath:             filepath.Join(dir, "pdfrules.db"),
		UploadDir:          filepath.Join(dir, "uploads"),
		Addr:               ":8080",
		LogLevel:           slog.LevelInfo,
		ExtractTimeout:     pdf.DefaultTimeout,
		ExtractConcurrency: extract.DefaultConcurrency,
		MaxUploadSize:      pdfhttp.DefaultMaxUploadSize,
		UploadRate:         2,
	}
}

// LoadConfig builds a Config from getenv, typically os.Getenv.
// Unparseable or non-positive numeric values keep their defaults.
func LoadConfig(getenv func(string) string) Config {
	cfg := DefaultConfig()

	if v := getenv("PDFRULES_DB"); v != "" {
		cfg.DBPath = v
		cfg.UploadDir = filepath.Join(filepath.Dir(v), "uploads")
	}
	if v := getenv("PDFRULES_UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := getenv("PDFRULES_ADDR"); v != "" {
		cfg.Addr = v
	}
	// PaaS platforms provide the listening port via PORT.
	if v := getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = parseLevel(v, cfg.LogLevel)
	}
	if v := getenv("EXTRACT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ExtractTimeout = d
		}
	}
	if v := getenv("EXTRACT_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ExtractConcurrency = n
		}
	}
	if v := getenv("MAX_UPLOAD_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxUploadSize = n
		}
	}
	if v := getenv("UPLOAD_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.UploadRate = f
		}
	}

	return cfg
}

func parseLevel(s string, fallback slog.Level) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".pdfrules")
}
