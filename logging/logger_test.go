package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/warp/hr-scheduler/config"
	"github.com/warp/hr-scheduler/logging"
)

func TestNew(t *testing.T) {
	prod, err := logging.New(&config.Config{Env: config.EnvProduction, LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, prod.Core().Enabled(zapcore.WarnLevel))

	dev, err := logging.New(&config.Config{Env: config.EnvDevelopment, LogLevel: "debug"})
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	def, err := logging.New(&config.Config{Env: config.EnvDevelopment})
	require.NoError(t, err)
	assert.False(t, def.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, def.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logging.New(&config.Config{Env: config.EnvProduction, LogLevel: "loud"})
	assert.Error(t, err)
}
