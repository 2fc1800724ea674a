package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestInit(t *testing.T) {
	require.NoError(t, Init("debug", false))
	t.Cleanup(func() { Log, Sugar = nil, nil })

	require.NotNil(t, Log)
	assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))
	assert.NotNil(t, Named("walker"))
}

func TestHelpersWithoutLogger(t *testing.T) {
	Log = nil
	assert.NotPanics(t, func() {
		Info("ignored")
		Sync()
	})
	assert.NotNil(t, Named("walker"))
}

func TestIsDevelopmentFromEnv(t *testing.T) {
	t.Setenv("ASSETSTAMP_LOG_FORMAT", "console")
	assert.True(t, IsDevelopment())

	t.Setenv("ASSETSTAMP_LOG_FORMAT", "json")
	assert.False(t, IsDevelopment())
}
