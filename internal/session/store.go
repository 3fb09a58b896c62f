// Package session keeps the pending YouTube link of each user between the
// message that submitted it and the button press that consumes it.
package session

import (
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrNoLink is returned when a user has no pending link.
var ErrNoLink = errors.New("no pending link")

// Store is an in-memory, size-bounded map from user id to the last submitted
// link. Entries expire after the configured TTL; when full, the least
// recently used entry is dropped. A Store is safe for concurrent use.
type Store struct {
	links *expirable.LRU[int64, string]
}

func NewStore(maxEntries int, ttl time.Duration) *Store {
	return &Store{
		links: expirable.NewLRU[int64, string](maxEntries, nil, ttl),
	}
}

// Put records link as the pending link of userID, replacing any previous one.
func (s *Store) Put(userID int64, link string) {
	s.links.Add(userID, link)
}

// Link returns the pending link of userID. Reading does not clear it.
func (s *Store) Link(userID int64) (string, error) {
	link, ok := s.links.Get(userID)
	if !ok || link == "" {
		return "", ErrNoLink
	}
	return link, nil
}

func (s *Store) Len() int {
	return s.links.Len()
}
