package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogerio-castellano/catalog-admin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, cleanup := New(config.LogConfig{Level: "info", Format: "json", Output: path, MaxSizeMB: 1, MaxBackups: 1})

	log.Debug("hidden")
	log.Info("category created", zap.String("name", "Books"))
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), "expected exactly one json line, got %q", data)
	assert.Equal(t, "category created", entry["msg"])
	assert.Equal(t, "Books", entry["name"])
	assert.Equal(t, "info", entry["level"])
}
