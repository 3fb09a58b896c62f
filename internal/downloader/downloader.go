package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Mohammad-Alipour/ytgate/internal/logger"
	"github.com/Mohammad-Alipour/ytgate/internal/youtube"
)

// ErrNoOutput means the engine finished without leaving a recognised file.
var ErrNoOutput = errors.New("no downloaded file found")

// candidateExts is probed in order after extraction.
var candidateExts = []string{"mp3", "mp4", "mkv", "webm"}

type Downloader struct {
	extractor   Extractor
	downloadDir string
	cookiesPath string
	timeout     time.Duration
	log         logrus.FieldLogger
}

type Settings struct {
	DownloadDir string
	CookiesPath string
	// Timeout bounds a single extraction; zero means no limit.
	Timeout time.Duration
}

func New(extractor Extractor, s Settings, log logrus.FieldLogger) (*Downloader, error) {
	if _, err := os.Stat(s.DownloadDir); os.IsNotExist(err) {
		log.Infof("Download directory '%s' does not exist. Creating it...", s.DownloadDir)
		if err := os.MkdirAll(s.DownloadDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create download directory '%s': %w", s.DownloadDir, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("error checking download directory '%s': %w", s.DownloadDir, err)
	}

	return &Downloader{
		extractor:   extractor,
		downloadDir: s.DownloadDir,
		cookiesPath: s.CookiesPath,
		timeout:     s.Timeout,
		log:         log,
	}, nil
}

// Artifact is a downloaded file owned by the caller until Remove is called.
type Artifact struct {
	Path   string
	Size   int64
	Choice Choice
	base   string
}

// Remove deletes the artifact and anything else the engine left under the
// same base name. It is safe to call more than once.
func (a *Artifact) Remove() error {
	return removeBase(a.base)
}

// Fetch downloads link in the requested format. On success the returned
// artifact must be removed by the caller; on failure nothing is left behind.
func (d *Downloader) Fetch(ctx context.Context, link string, choice Choice) (*Artifact, error) {
	base := d.newBase(link)
	opts := OptionsFor(choice, base, d.cookiesPath)
	log := logger.FromContext(ctx, d.log).WithFields(logrus.Fields{
		"choice": choice.Token(),
		"base":   filepath.Base(base),
	})

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	log.Info("Starting download")
	if err := d.extractor.Extract(ctx, link, opts); err != nil {
		d.cleanup(base, log)
		return nil, err
	}

	path, err := probe(base)
	if err != nil {
		d.cleanup(base, log)
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		d.cleanup(base, log)
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	log.WithFields(logrus.Fields{"file": filepath.Base(path), "size": info.Size()}).Info("Download finished")
	return &Artifact{Path: path, Size: info.Size(), Choice: choice, base: base}, nil
}

// newBase returns a per-request path prefix, so concurrent downloads never
// share a file.
func (d *Downloader) newBase(link string) string {
	prefix := youtube.VideoID(link)
	if prefix == "" {
		prefix = "yt"
	}
	return filepath.Join(d.downloadDir, prefix+"_"+uuid.NewString())
}

func (d *Downloader) cleanup(base string, log logrus.FieldLogger) {
	if err := removeBase(base); err != nil {
		log.WithError(err).Warn("Failed to clean up partial download")
	}
}

func probe(base string) (string, error) {
	for _, ext := range candidateExts {
		path := base + "." + ext
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrNoOutput
}

// removeBase deletes every file in base's directory named "<base>.*". The
// directory is listed rather than globbed so metacharacters in its path are
// taken literally.
func removeBase(base string) error {
	dir, prefix := filepath.Dir(base), filepath.Base(base)+"."
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
