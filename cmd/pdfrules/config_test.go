package main_test

import (
	"log/slog"
	"testing"
	"time"

	main "github.com/fwojciec/pdfrules/cmd/pdfrules"
	"github.com/stretchr/testify/assert"
)

func envFunc(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("uses defaults when nothing is set", func(t *testing.T) {
		t.Parallel()

		cfg := main.LoadConfig(envFunc(nil))

		assert.Equal(t, main.DefaultConfig(), cfg)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
		assert.Equal(t, 60*time.Second, cfg.ExtractTimeout)
		assert.Equal(t, 4, cfg.ExtractConcurrency)
		assert.Equal(t, int64(10<<20), cfg.MaxUploadSize)
		assert.Equal(t, 2.0, cfg.UploadRate)
	})

	t.Run("reads every variable", func(t *testing.T) {
		t.Parallel()

		cfg := main.LoadConfig(envFunc(map[string]string{
			"PDFRULES_DB":         "/data/rules.db",
			"PDFRULES_UPLOAD_DIR": "/srv/uploads",
			"PDFRULES_ADDR":       "127.0.0.1:9000",
			"LOG_LEVEL":           "DEBUG",
			"EXTRACT_TIMEOUT":     "5s",
			"EXTRACT_CONCURRENCY": "8",
			"MAX_UPLOAD_SIZE":     "1024",
			"UPLOAD_RATE":         "0.5",
		}))

		assert.Equal(t, "/data/rules.db", cfg.DBPath)
		assert.Equal(t, "/srv/uploads", cfg.UploadDir)
		assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.Equal(t, 5*time.Second, cfg.ExtractTimeout)
		assert.Equal(t, 8, cfg.ExtractConcurrency)
		assert.Equal(t, int64(1024), cfg.MaxUploadSize)
		assert.Equal(t, 0.5, cfg.UploadRate)
	})

	t.Run("upload dir follows the database by default", func(t *testing.T) {
		t.Parallel()

		cfg := main.LoadConfig(envFunc(map[string]string{"PDFRULES_DB": "/data/rules.db"}))

		assert.Equal(t, "/data/uploads", cfg.UploadDir)
	})

	t.Run("PORT wins over PDFRULES_ADDR", func(t *testing.T) {
		t.Parallel()

		cfg := main.LoadConfig(envFunc(map[string]string{"PDFRULES_ADDR": ":9000", "PORT": "3000"}))

		assert.Equal(t, ":3000", cfg.Addr)
	})

	t.Run("invalid values fall back to defaults", func(t *testing.T) {
		t.Parallel()

		cfg := main.LoadConfig(envFunc(map[string]string{
			"LOG_LEVEL":           "loud",
			"EXTRACT_TIMEOUT":     "soon",
			"EXTRACT_CONCURRENCY": "-2",
			"MAX_UPLOAD_SIZE":     "big",
			"UPLOAD_RATE":         "0",
		}))

		def := main.DefaultConfig()
		assert.Equal(t, def.LogLevel, cfg.LogLevel)
		assert.Equal(t, def.ExtractTimeout, cfg.ExtractTimeout)
		assert.Equal(t, def.ExtractConcurrency, cfg.ExtractConcurrency)
		assert.Equal(t, def.MaxUploadSize, cfg.MaxUploadSize)
		assert.Equal(t, def.UploadRate, cfg.UploadRate)
	})
}
