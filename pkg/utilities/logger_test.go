package utilities

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		require.Equal(t, want, levelFromString(in), "level %q", in)
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	lg, err := Init(Config{Level: "info"})
	require.NoError(t, err)
	require.NotNil(t, lg)

	lg, err = Init(Config{Level: "debug", Dev: true})
	require.NoError(t, err)
	require.NotNil(t, lg)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_DEV", "1")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FILE", "")

	cfg := ConfigFromEnv()
	require.True(t, cfg.Dev)
	require.Equal(t, "debug", cfg.Level)
	require.Empty(t, cfg.File)
}
