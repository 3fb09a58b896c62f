// Package youtube recognises YouTube links in free text.
package youtube

import (
	"regexp"
	"strings"

	ytclient "github.com/kkdai/youtube/v2"
)

var (
	hosts   = []string{"youtube.com", "youtu.be"}
	idShape = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// IsYouTubeLink reports whether text contains a known YouTube host. No URL
// parsing is done; a message that merely mentions the host is accepted.
func IsYouTubeLink(text string) bool {
	for _, host := range hosts {
		if strings.Contains(text, host) {
			return true
		}
	}
	return false
}

// VideoID extracts the 11 character video id, or "" when the link does not
// carry one (playlists, channel pages, shorthand mentions).
func VideoID(link string) string {
	id, err := ytclient.ExtractVideoID(strings.TrimSpace(link))
	if err != nil || !idShape.MatchString(id) {
		return ""
	}
	return id
}
