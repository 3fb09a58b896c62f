package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	TelegramBotToken string
	TelegramDebug    bool
	ForceJoinChannel string

	YTDLPPath          string
	YTDLPAutoInstall   bool
	DownloadDir        string
	YouTubeCookiesPath string
	MaxFileSizeMB      int64
	MaxConcurrent      int
	DownloadTimeout    time.Duration

	SessionTTL        time.Duration
	SessionMaxEntries int

	RestartDelay      time.Duration
	RestartBackoffMax time.Duration
	RestartMax        int

	HealthAddr string
}

// MaxFileSize is the upload ceiling in bytes.
func (c *Config) MaxFileSize() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// Load reads the configuration from the environment. The caller is expected
// to have loaded any .env file beforehand.
func Load(log logrus.FieldLogger) (*Config, error) {
	cfg := &Config{}

	cfg.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", os.Getenv("BOT_TOKEN"))
	if cfg.TelegramBotToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN environment variable not set")
	}

	var err error
	if cfg.TelegramDebug, err = getEnvBool("TELEGRAM_DEBUG", false); err != nil {
		return nil, err
	}

	cfg.ForceJoinChannel = strings.TrimSpace(os.Getenv("FORCE_JOIN_CHANNEL"))
	if cfg.ForceJoinChannel != "" {
		if !strings.HasPrefix(cfg.ForceJoinChannel, "@") {
			cfg.ForceJoinChannel = "@" + cfg.ForceJoinChannel
		}
		log.Infof("Force join channel configured: %s", cfg.ForceJoinChannel)
	} else {
		log.Warn("FORCE_JOIN_CHANNEL not set. No mandatory channel join required.")
	}

	cfg.YTDLPPath = os.Getenv("YTDLP_PATH")
	if cfg.YTDLPPath == "" {
		log.Info("YTDLP_PATH not set, resolving yt-dlp from PATH or cache")
	}
	if cfg.YTDLPAutoInstall, err = getEnvBool("YTDLP_AUTO_INSTALL", false); err != nil {
		return nil, err
	}

	cfg.DownloadDir = getEnv("DOWNLOAD_DIR", "temp_downloads")
	cfg.YouTubeCookiesPath = os.Getenv("YOUTUBE_COOKIES_PATH")
	if cfg.YouTubeCookiesPath == "" {
		log.Warn("YOUTUBE_COOKIES_PATH not set. Downloads may fail due to bot detection.")
	}

	maxSize, err := getEnvInt("MAX_FILE_SIZE_MB", 50)
	if err != nil {
		return nil, err
	}
	if maxSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE_MB must be positive, got %d", maxSize)
	}
	cfg.MaxFileSizeMB = int64(maxSize)

	if cfg.MaxConcurrent, err = getEnvInt("MAX_CONCURRENT_DOWNLOADS", 1); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.DownloadTimeout, err = getEnvDuration("DOWNLOAD_TIMEOUT", 0); err != nil {
		return nil, err
	}

	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionMaxEntries, err = getEnvInt("SESSION_MAX_ENTRIES", 10000); err != nil {
		return nil, err
	}
	if cfg.SessionMaxEntries < 1 {
		return nil, fmt.Errorf("SESSION_MAX_ENTRIES must be positive, got %d", cfg.SessionMaxEntries)
	}

	if cfg.RestartDelay, err = getEnvDuration("RESTART_DELAY", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RestartDelay <= 0 {
		return nil, fmt.Errorf("RESTART_DELAY must be positive, got %s", cfg.RestartDelay)
	}
	if cfg.RestartBackoffMax, err = getEnvDuration("RESTART_BACKOFF_MAX", 0); err != nil {
		return nil, err
	}
	if cfg.RestartBackoffMax < 0 {
		return nil, fmt.Errorf("RESTART_BACKOFF_MAX must not be negative, got %s", cfg.RestartBackoffMax)
	}
	if cfg.RestartMax, err = getEnvInt("RESTART_MAX", 0); err != nil {
		return nil, err
	}
	if cfg.RestartMax < 0 {
		return nil, fmt.Errorf("RESTART_MAX must not be negative, got %d", cfg.RestartMax)
	}

	cfg.HealthAddr = os.Getenv("HEALTH_ADDR")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
