package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"pv-bknd/internal/config"
)

func TestNew_Levels(t *testing.T) {
	prod := New(&config.Config{Environment: "production"})
	require.NotNil(t, prod.Logger)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, prod.Core().Enabled(zapcore.InfoLevel))

	dev := New(&config.Config{Environment: "development"})
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	quiet := New(&config.Config{Environment: "development", LogLevel: "error"})
	assert.False(t, quiet.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_BadLevelPanics(t *testing.T) {
	assert.Panics(t, func() { New(&config.Config{LogLevel: "loud"}) })
}

func TestNewCLI(t *testing.T) {
	assert.False(t, NewCLI(false).Core().Enabled(zapcore.InfoLevel))
	assert.True(t, NewCLI(true).Core().Enabled(zapcore.DebugLevel))
}
