package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv(LevelKey, "")
	t.Setenv(EncodingKey, "")

	log, err := New()
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(LevelKey, "DEBUG")
	t.Setenv(EncodingKey, "json")

	log, err := New()
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Setenv(LevelKey, "loud")
	_, err := New()
	assert.Error(t, err)

	_, err = NewWithConfig(Configuration{Level: "info", Encoding: "xml"})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Setenv(LevelKey, "Warn")
	t.Setenv(EncodingKey, "")
	t.Setenv(TimeFormatKey, "15:04")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Configuration{Level: "warn", Encoding: "console", TimeFormat: "15:04"}, cfg)
}
