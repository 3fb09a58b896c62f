package downloader

import "fmt"

const (
	audioCodec     = "mp3"
	audioQuality   = "192"
	videoContainer = "mp4"
)

// Options is the engine-neutral description of one extraction.
type Options struct {
	Format            string
	OutputTemplate    string
	ExtractAudio      bool
	AudioFormat       string
	AudioQuality      string
	MergeOutputFormat string
	CookiesPath       string
}

// OptionsFor builds the extraction options for choice, writing to base with
// an engine-chosen extension.
func OptionsFor(choice Choice, base, cookiesPath string) Options {
	opts := Options{
		OutputTemplate: base + ".%(ext)s",
		CookiesPath:    cookiesPath,
	}
	switch choice.Mode {
	case ModeAudio:
		opts.Format = "bestaudio/best"
		opts.ExtractAudio = true
		opts.AudioFormat = audioCodec
		opts.AudioQuality = audioQuality
	default:
		opts.Format = fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best", choice.Height)
		opts.MergeOutputFormat = videoContainer
	}
	return opts
}
