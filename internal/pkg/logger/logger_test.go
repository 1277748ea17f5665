package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"logify/internal/pkg/config"
)

func TestInit_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	require.NoError(t, Init(&config.LogConfig{Level: "debug", Format: "json", Output: "file", FilePath: path}))
	t.Cleanup(func() {
		_ = Init(&config.LogConfig{Level: "info", Format: "console"})
	})

	Info("hello", zap.String("k", "v"))
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
	assert.Contains(t, string(data), `"level":"info"`)
}

func TestInit_InvalidLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init(&config.LogConfig{Level: "loud", Format: "console"}))
	assert.Equal(t, zapcore.InfoLevel, atomicLevel.Level())

	SetLevel(zapcore.WarnLevel)
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
	SetLevel(zapcore.InfoLevel)
}

func TestContextLogger(t *testing.T) {
	assert.Same(t, log, FromContext(context.Background()))
	assert.Same(t, log, FromContext(nil)) //nolint:staticcheck

	ctx := WithContext(context.Background(), zap.String("request_id", "abc"))
	l := FromContext(ctx)
	assert.NotSame(t, log, l)

	nested := WithContext(ctx, zap.Int64("user_id", 1))
	assert.NotSame(t, l, FromContext(nested))
}
