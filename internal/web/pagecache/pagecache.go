// Package pagecache caches rendered pages and carries the path invalidation
// signal fired by mutations. It is a thin layer over a gofiber storage
// backend, not a general cache: handlers opt in per path and mutations
// invalidate the paths they touch.
package pagecache

import (
	"time"

	"github.com/gofiber/storage"
	"github.com/rs/zerolog/log"
)

// DefaultTTL bounds staleness for cached pages that miss an invalidation.
const DefaultTTL = 60 * time.Second

// Store is the global page cache storage. A nil store disables caching.
var Store storage.Storage //nolint:gochecknoglobals

// Init sets the storage backend for the page cache.
func Init(s storage.Storage) {
	Store = s
}

// Get returns the cached body for a path, or nil on miss or when caching is
// disabled.
func Get(path string) []byte {
	if Store == nil {
		return nil
	}

	body, err := Store.Get(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("page cache read failed")
		return nil
	}

	if len(body) == 0 {
		return nil
	}

	return body
}

// Set stores a rendered body for a path.
func Set(path string, body []byte) {
	if Store == nil || len(body) == 0 {
		return
	}

	// storage backends may retain the slice, keep our own copy
	buf := make([]byte, len(body))
	copy(buf, body)

	if err := Store.Set(path, buf, DefaultTTL); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("page cache write failed")
	}
}

// Invalidate drops the cached bodies for the given paths. Mutations call it
// so the dashboard and public pages re-render on the next request.
func Invalidate(paths ...string) {
	if Store == nil {
		return
	}

	for _, path := range paths {
		if err := Store.Delete(path); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("page cache invalidation failed")
		}
	}
}
