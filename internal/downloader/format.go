package downloader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownChoice is returned for a callback token outside the menu.
var ErrUnknownChoice = errors.New("unknown format choice")

type Mode string

const (
	ModeAudio Mode = "audio"
	ModeVideo Mode = "video"
)

// Choice is one of the fixed menu entries: MP3, or video capped at Height.
type Choice struct {
	Mode   Mode
	Height int
}

var (
	ChoiceMP3   = Choice{Mode: ModeAudio}
	Choice144p  = Choice{Mode: ModeVideo, Height: 144}
	Choice360p  = Choice{Mode: ModeVideo, Height: 360}
	Choice720p  = Choice{Mode: ModeVideo, Height: 720}
	Choice1080p = Choice{Mode: ModeVideo, Height: 1080}
)

// VideoChoices lists the resolution buttons in menu order.
var VideoChoices = []Choice{Choice144p, Choice360p, Choice720p, Choice1080p}

const audioToken = "mp3"

// Token is the callback data carried by the choice's button.
func (c Choice) Token() string {
	if c.Mode == ModeAudio {
		return audioToken
	}
	return fmt.Sprintf("video_%d", c.Height)
}

func (c Choice) Label() string {
	if c.Mode == ModeAudio {
		return "🎵 MP3"
	}
	return fmt.Sprintf("%dp", c.Height)
}

func (c Choice) String() string {
	return c.Token()
}

// ParseChoice maps a callback token back to its Choice. Only tokens produced
// by the menu are accepted.
func ParseChoice(token string) (Choice, error) {
	if token == audioToken {
		return ChoiceMP3, nil
	}
	if h, ok := strings.CutPrefix(token, "video_"); ok {
		height, err := strconv.Atoi(h)
		if err == nil {
			for _, c := range VideoChoices {
				if c.Height == height {
					return c, nil
				}
			}
		}
	}
	return Choice{}, fmt.Errorf("%w: %q", ErrUnknownChoice, token)
}
