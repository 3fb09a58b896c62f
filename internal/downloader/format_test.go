package downloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChoice(t *testing.T) {
	testCases := []struct {
		token string
		want  Choice
	}{
		{"mp3", ChoiceMP3},
		{"video_144", Choice144p},
		{"video_360", Choice360p},
		{"video_720", Choice720p},
		{"video_1080", Choice1080p},
	}

	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			got, err := ParseChoice(tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.token, got.Token())
		})
	}
}

func TestParseChoiceRejectsUnknown(t *testing.T) {
	for _, token := range []string{"", "mp4", "video_", "video_480", "video_abc", "VIDEO_720"} {
		_, err := ParseChoice(token)
		assert.ErrorIs(t, err, ErrUnknownChoice, token)
	}
}

func TestChoiceLabels(t *testing.T) {
	assert.Equal(t, "🎵 MP3", ChoiceMP3.Label())
	assert.Equal(t, "1080p", Choice1080p.Label())
}

func TestOptionsFor(t *testing.T) {
	audio := OptionsFor(ChoiceMP3, "/tmp/x", "")
	assert.Equal(t, Options{
		Format:         "bestaudio/best",
		OutputTemplate: "/tmp/x.%(ext)s",
		ExtractAudio:   true,
		AudioFormat:    "mp3",
		AudioQuality:   "192",
	}, audio)

	video := OptionsFor(Choice360p, "/tmp/y", "c.txt")
	assert.Equal(t, Options{
		Format:            "bestvideo[height<=360]+bestaudio/best",
		OutputTemplate:    "/tmp/y.%(ext)s",
		MergeOutputFormat: "mp4",
		CookiesPath:       "c.txt",
	}, video)
}
