package downloader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"github.com/Mohammad-Alipour/ytgate/internal/logger"
)

// Extractor fetches url into local storage according to opts.
type Extractor interface {
	Extract(ctx context.Context, url string, opts Options) error
}

// YTDLP runs the yt-dlp binary through go-ytdlp.
type YTDLP struct {
	path string
	log  logrus.FieldLogger
}

// NewYTDLP uses the executable at path, or lets go-ytdlp resolve one when
// path is empty.
func NewYTDLP(path string, log logrus.FieldLogger) *YTDLP {
	return &YTDLP{path: path, log: log}
}

type installStep struct {
	name string
	run  func(ctx context.Context) error
}

// installSteps provisions yt-dlp plus the ffmpeg and ffprobe binaries it
// needs for MP3 conversion and for merging video with audio.
var installSteps = []installStep{
	{"yt-dlp", func(ctx context.Context) error {
		_, err := ytdlp.Install(ctx, nil)
		return err
	}},
	{"ffmpeg", func(ctx context.Context) error {
		_, err := ytdlp.InstallFFmpeg(ctx, nil)
		return err
	}},
	{"ffprobe", func(ctx context.Context) error {
		_, err := ytdlp.InstallFFprobe(ctx, nil)
		return err
	}},
}

// InstallTools downloads any missing tool into the go-ytdlp cache, which
// go-ytdlp puts on PATH for every command it runs.
func InstallTools(ctx context.Context, log logrus.FieldLogger) error {
	log.Info("Installing yt-dlp and ffmpeg...")
	for _, step := range installSteps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("failed to install %s: %w", step.name, err)
		}
	}
	log.Info("Tools installed successfully")
	return nil
}

func (y *YTDLP) Extract(ctx context.Context, url string, opts Options) error {
	cmd := ytdlp.New().
		Quiet().
		NoPlaylist().
		Format(opts.Format).
		Output(opts.OutputTemplate)

	if y.path != "" {
		cmd.SetExecutable(y.path)
	}
	if opts.ExtractAudio {
		cmd.ExtractAudio().
			AudioFormat(opts.AudioFormat).
			AudioQuality(opts.AudioQuality)
	}
	if opts.MergeOutputFormat != "" {
		cmd.MergeOutputFormat(opts.MergeOutputFormat)
	}
	if opts.CookiesPath != "" {
		cmd.Cookies(opts.CookiesPath)
	}

	log := logger.FromContext(ctx, y.log).WithFields(logrus.Fields{
		"url":    url,
		"format": opts.Format,
	})
	log.Debug("Executing yt-dlp")
	start := time.Now()

	res, err := cmd.Run(ctx, url)
	if err != nil {
		stderr := ""
		if res != nil {
			stderr = strings.TrimSpace(res.Stderr)
		}
		log.WithError(err).WithField("stderr", stderr).Error("yt-dlp execution failed")
		return fmt.Errorf("yt-dlp execution failed: %w", err)
	}

	log.WithField("elapsed", time.Since(start).String()).Info("yt-dlp finished")
	return nil
}
