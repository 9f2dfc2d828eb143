package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLBeforeSetup(t *testing.T) {
	assert.NotPanics(t, func() {
		L().Infof("hello %s", "info")
	})
}

func TestUse(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core), zapcore.DebugLevel)
	defer Use(zap.NewNop(), zapcore.InfoLevel)

	L().Debugf("poll %d", 1)
	L().Warn("host not in maintenance mode")

	assert.True(t, IsDebug())
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, "poll 1", logs.All()[0].Message)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}
