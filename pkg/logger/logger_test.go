package logger_test

import (
	"context"
	"emailcleaner/pkg/logger"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
		debug       bool
	}{
		{name: "development default", environment: logger.DevelopmentEnvironment, debug: true},
		{name: "production default", environment: logger.ProductionEnvironment, debug: false},
		{name: "development forced info", environment: logger.DevelopmentEnvironment, level: "info", debug: false},
		{name: "production forced debug", environment: logger.ProductionEnvironment, level: "DEBUG", debug: true},
		{name: "unknown level keeps default", environment: logger.DevelopmentEnvironment, level: "verbose", debug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				logger.Setup(tt.environment, tt.level)
			})

			ctx := context.Background()
			require.NotNil(t, logger.Get(ctx))
			require.Equal(t, tt.debug, logger.IsDebug(ctx))
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, ok := logger.ParseLevel("warning")
	require.True(t, ok)
	require.Equal(t, zapcore.WarnLevel, lvl)

	_, ok = logger.ParseLevel("")
	require.False(t, ok)
}

func TestGetAndWithLogger(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment, "")

	ctx := context.Background()
	require.NotNil(t, logger.Get(ctx), "Should return default logger when context has no logger")

	customLogger := zap.NewNop()
	ctxWithLogger := logger.WithLogger(ctx, customLogger)
	require.Equal(t, customLogger, logger.Get(ctxWithLogger), "Should return logger from context")
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	ctx = logger.WithFields(ctx, zap.String("requestId", "abc"), zap.Int64("chatId", 42))
	logger.Info(ctx, "cleaned batch")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "abc", fields["requestId"])
	require.Equal(t, int64(42), fields["chatId"])
}

func TestLoggingFunctions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	logger.Debug(ctx, "debug message", zap.String("key", "value"))
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	require.Equal(t, 4, logs.Len())
	require.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	require.Equal(t, zapcore.ErrorLevel, logs.All()[3].Level)
}
