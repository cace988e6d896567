package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestProductionConfig(t *testing.T) {
	cfg := ProductionConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"default config", DefaultConfig()},
		{"production config", ProductionConfig()},
		{"debug console", &Config{
			Level:      "debug",
			Format:     "console",
			Output:     "stdout",
			TimeFormat: "2006-01-02T15:04:05Z07:00",
		}},
		{"json to stderr", &Config{
			Level:      "info",
			Format:     "json",
			Output:     "stderr",
			TimeFormat: "2006-01-02T15:04:05Z07:00",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNew_FileOutputWritesStructuredEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	logger, err := New(&Config{
		Level:      "info",
		Format:     "json",
		Output:     path,
		TimeFormat: "2006-01-02T15:04:05Z07:00",
	})
	require.NoError(t, err)

	logger.Info("Resolved effective config",
		zap.String("platform_code", "OPENINVOICE"),
		zap.String("level", "CUSTOMER"))
	_ = Sync(logger)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "Resolved effective config", entry["msg"])
	assert.Equal(t, "OPENINVOICE", entry["platform_code"])
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", "staging"} {
		t.Run(env, func(t *testing.T) {
			logger, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestWith(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	child := With(logger, zap.String("component", "resolver"))
	assert.NotNil(t, child)
	assert.NotEqual(t, logger, child)
}

func TestNamed(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	named := Named(logger, "invoice-exchange")
	assert.NotNil(t, named)
	assert.NotEqual(t, logger, named)
}

func TestSync(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	// Sync on stdout may legitimately error on some platforms; it must not panic.
	assert.NotPanics(t, func() {
		_ = Sync(logger)
	})
}

func TestCreateWriter(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", "STDOUT"} {
		t.Run(output, func(t *testing.T) {
			assert.NotNil(t, createWriter(output))
		})
	}

	t.Run("file path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ticketing.log")
		assert.NotNil(t, createWriter(path))
	})
}

func TestCreateEncoder(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		t.Run(format, func(t *testing.T) {
			encoder := createEncoder(&Config{
				Level:      "info",
				Format:     format,
				Output:     "stdout",
				TimeFormat: "2006-01-02T15:04:05Z07:00",
			})
			assert.NotNil(t, encoder)
		})
	}
}
