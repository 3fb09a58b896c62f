package config

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "BOT_TOKEN", "TELEGRAM_DEBUG", "FORCE_JOIN_CHANNEL",
		"YTDLP_PATH", "YTDLP_AUTO_INSTALL", "DOWNLOAD_DIR", "YOUTUBE_COOKIES_PATH",
		"MAX_FILE_SIZE_MB", "MAX_CONCURRENT_DOWNLOADS", "DOWNLOAD_TIMEOUT",
		"SESSION_TTL", "SESSION_MAX_ENTRIES", "RESTART_DELAY", "RESTART_BACKOFF_MAX",
		"RESTART_MAX", "HEALTH_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load(quietLogger())
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramBotToken)
	assert.Equal(t, "", cfg.ForceJoinChannel)
	assert.Equal(t, "temp_downloads", cfg.DownloadDir)
	assert.Equal(t, int64(50), cfg.MaxFileSizeMB)
	assert.Equal(t, int64(50*1024*1024), cfg.MaxFileSize())
	assert.Equal(t, 1, cfg.MaxConcurrent)
	assert.Equal(t, time.Duration(0), cfg.DownloadTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10000, cfg.SessionMaxEntries)
	assert.Equal(t, 10*time.Second, cfg.RestartDelay)
	assert.Equal(t, time.Duration(0), cfg.RestartBackoffMax)
	assert.Equal(t, 0, cfg.RestartMax)
	assert.False(t, cfg.YTDLPAutoInstall)
}

func TestLoadLegacyTokenVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "legacy")

	cfg, err := Load(quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.TelegramBotToken)
}

func TestLoadMissingToken(t *testing.T) {
	clearEnv(t)

	_, err := Load(quietLogger())
	assert.Error(t, err)
}

func TestLoadNormalizesChannel(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "x")
	t.Setenv("FORCE_JOIN_CHANNEL", "learntospeake_1")

	cfg, err := Load(quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "@learntospeake_1", cfg.ForceJoinChannel)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "x")
	t.Setenv("MAX_FILE_SIZE_MB", "20")
	t.Setenv("MAX_CONCURRENT_DOWNLOADS", "3")
	t.Setenv("DOWNLOAD_TIMEOUT", "5m")
	t.Setenv("RESTART_DELAY", "2s")
	t.Setenv("RESTART_BACKOFF_MAX", "1m")
	t.Setenv("RESTART_MAX", "4")
	t.Setenv("YTDLP_AUTO_INSTALL", "true")
	t.Setenv("HEALTH_ADDR", ":8081")

	cfg, err := Load(quietLogger())
	require.NoError(t, err)
	assert.Equal(t, int64(20), cfg.MaxFileSizeMB)
	assert.Equal(t, 3, cfg.MaxConcurrent)
	assert.Equal(t, 5*time.Minute, cfg.DownloadTimeout)
	assert.Equal(t, 2*time.Second, cfg.RestartDelay)
	assert.Equal(t, time.Minute, cfg.RestartBackoffMax)
	assert.Equal(t, 4, cfg.RestartMax)
	assert.True(t, cfg.YTDLPAutoInstall)
	assert.Equal(t, ":8081", cfg.HealthAddr)
}

func TestLoadInvalidValues(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{"MAX_FILE_SIZE_MB", "lots"},
		{"RESTART_DELAY", "ten"},
		{"RESTART_DELAY", "0s"},
		{"RESTART_DELAY", "-5s"},
		{"RESTART_BACKOFF_MAX", "-1m"},
		{"RESTART_MAX", "-1"},
		{"YTDLP_AUTO_INSTALL", "maybe"},
		{"SESSION_MAX_ENTRIES", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TELEGRAM_BOT_TOKEN", "x")
			t.Setenv(tc.key, tc.value)

			_, err := Load(quietLogger())
			assert.Error(t, err)
		})
	}
}
