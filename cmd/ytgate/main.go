package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Mohammad-Alipour/ytgate/internal/bot"
	"github.com/Mohammad-Alipour/ytgate/internal/config"
	"github.com/Mohammad-Alipour/ytgate/internal/downloader"
	"github.com/Mohammad-Alipour/ytgate/internal/health"
	"github.com/Mohammad-Alipour/ytgate/internal/logger"
	"github.com/Mohammad-Alipour/ytgate/internal/supervisor"
)

func main() {
	envErr := godotenv.Load()
	logr := logger.New(os.Getenv("LOG_LEVEL"), os.Stdout)
	if envErr != nil {
		logr.Warn("No .env file found, relying on system environment variables.")
	}

	logr.Info("Loading configuration...")
	cfg, err := config.Load(logr)
	if err != nil {
		logr.WithError(err).Fatal("Error loading configuration")
	}
	logr.WithField("download_dir", cfg.DownloadDir).
		WithField("max_file_size_mb", cfg.MaxFileSizeMB).
		WithField("max_concurrent", cfg.MaxConcurrent).
		Info("Configuration loaded successfully.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.YTDLPAutoInstall {
		if err := downloader.InstallTools(ctx, logr); err != nil {
			logr.WithError(err).Fatal("Error installing yt-dlp and ffmpeg")
		}
	}

	logr.Info("Initializing Downloader...")
	dl, err := downloader.New(
		downloader.NewYTDLP(cfg.YTDLPPath, logr),
		downloader.Settings{
			DownloadDir: cfg.DownloadDir,
			CookiesPath: cfg.YouTubeCookiesPath,
			Timeout:     cfg.DownloadTimeout,
		},
		logr,
	)
	if err != nil {
		logr.WithError(err).Fatal("Error initializing Downloader")
	}

	// Each restart gets a new API client and an empty session store.
	runBot := func(ctx context.Context) error {
		api, err := bot.Dial(cfg.TelegramBotToken, cfg.TelegramDebug, logr)
		if err != nil {
			return err
		}
		return bot.New(cfg, api, dl, logr).Run(ctx)
	}

	sup := supervisor.New(runBot, supervisor.Settings{
		Delay:       cfg.RestartDelay,
		MaxDelay:    cfg.RestartBackoffMax,
		MaxRestarts: cfg.RestartMax,
	}, logr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Info("Starting Telegram bot polling with auto-restart enabled...")
		return sup.Run(gctx)
	})
	if cfg.HealthAddr != "" {
		g.Go(func() error {
			return health.Serve(gctx, cfg.HealthAddr, health.NewRouter(sup), logr)
		})
	}

	if err := g.Wait(); err != nil {
		logr.WithError(err).Fatal("Bot has stopped")
	}
	logr.Info("Bot has stopped.")
}
