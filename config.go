package stocargo

import (
	"fmt"
	"strings"
	"time"
)

// Config holds user settings loaded from the optional config file.
// Zero values mean "use the default".
type Config struct {
	// CacheDir is the directory holding cached category files.
	CacheDir string

	// TTL is how long cached files stay fresh.
	TTL time.Duration

	// WikiURL is the wiki root used to build export URLs.
	WikiURL string

	// Fields narrows, per category, which record fields a search looks at.
	Fields map[Category][]string
}

// ParseTTL parses a freshness duration. Besides time.ParseDuration syntax
// it accepts whole days, e.g. "3d".
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		var n int
		if _, err := fmt.Sscanf(days, "%d", &n); err == nil && fmt.Sprint(n) == days {
			if n < 0 {
				return 0, Errorf(EINVALID, "ttl must not be negative: %q", s)
			}
			return time.Duration(n) * 24 * time.Hour, nil
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, Errorf(EINVALID, "invalid ttl %q: use a duration such as 72h or 3d", s)
	}
	if d < 0 {
		return 0, Errorf(EINVALID, "ttl must not be negative: %q", s)
	}
	return d, nil
}
