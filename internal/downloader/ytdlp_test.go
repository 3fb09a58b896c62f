package downloader

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubInstallSteps(t *testing.T, fail string) *[]string {
	var ran []string
	orig := installSteps
	t.Cleanup(func() { installSteps = orig })

	steps := make([]installStep, 0, len(orig))
	for _, s := range orig {
		name := s.name
		steps = append(steps, installStep{name: name, run: func(context.Context) error {
			ran = append(ran, name)
			if name == fail {
				return errors.New("download refused")
			}
			return nil
		}})
	}
	installSteps = steps
	return &ran
}

func TestInstallToolsProvisionsFFmpeg(t *testing.T) {
	ran := stubInstallSteps(t, "")

	require.NoError(t, InstallTools(context.Background(), quiet()))
	assert.Equal(t, []string{"yt-dlp", "ffmpeg", "ffprobe"}, *ran)
}

func TestInstallToolsStopsOnFailure(t *testing.T) {
	ran := stubInstallSteps(t, "ffmpeg")

	err := InstallTools(context.Background(), quiet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to install ffmpeg")
	assert.Equal(t, []string{"yt-dlp", "ffmpeg"}, *ran)
}
