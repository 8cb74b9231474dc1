package stocargo

import (
	"context"
	"time"
)

// DefaultTTL is how long a cached category file stays fresh.
const DefaultTTL = 3 * 24 * time.Hour

// IsFresh reports whether data fetched at fetchedAt can still be used at now.
// A forced refresh is never fresh. A zero fetchedAt means nothing was fetched.
func IsFresh(now, fetchedAt time.Time, ttl time.Duration, force bool) bool {
	if force || fetchedAt.IsZero() {
		return false
	}
	return now.Sub(fetchedAt) < ttl
}

// CacheMeta is the sidecar record written next to a cached category file.
type CacheMeta struct {
	Category  Category  `json:"category"`
	FetchedAt time.Time `json:"fetchedAt"`
	Records   int       `json:"records"`
	Checksum  string    `json:"checksum"`
}

// CacheService keeps local copies of category exports fresh.
type CacheService interface {
	// EnsureFresh returns the path of the cached file for category c,
	// downloading it first if it is missing, empty, older than the TTL,
	// or if force is set.
	// Returns EDOWNLOAD if the download fails and ECACHEWRITE if the
	// file cannot be written.
	EnsureFresh(ctx context.Context, c Category, force bool) (string, error)
}
