// Package fs provides file-based caching of category exports.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/stocargo"
)

// Ensure Cache implements stocargo.CacheService at compile time.
var _ stocargo.CacheService = (*Cache)(nil)

// Cache keeps one JSON file per category in a directory, next to a
// <category>.meta.json sidecar recording when it was fetched.
type Cache struct {
	dir        string
	ttl        time.Duration
	downloader stocargo.Downloader
	now        func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long cached files stay fresh.
// Defaults to stocargo.DefaultTTL if not specified.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a Cache storing files in dir and fetching them with d.
func NewCache(dir string, d stocargo.Downloader, opts ...Option) *Cache {
	c := &Cache{
		dir:        dir,
		ttl:        stocargo.DefaultTTL,
		downloader: d,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the location of the cached file for category cat.
func (c *Cache) Path(cat stocargo.Category) string {
	return filepath.Join(c.dir, string(cat)+".json")
}

// MetaPath returns the location of the sidecar for the data file at path.
func MetaPath(path string) string {
	return strings.TrimSuffix(path, ".json") + ".meta.json"
}

// EnsureFresh returns the path of the cached file for cat, downloading it
// first when it is missing, empty, stale, or force is set.
func (c *Cache) EnsureFresh(ctx context.Context, cat stocargo.Category, force bool) (string, error) {
	path := c.Path(cat)

	fetchedAt, err := c.FetchedAt(cat)
	if err != nil {
		return "", err
	}
	if stocargo.IsFresh(c.now(), fetchedAt, c.ttl, force) {
		return path, nil
	}

	data, err := c.downloader.Download(ctx, cat)
	if err != nil {
		if stocargo.ErrorCode(err) == stocargo.EDOWNLOAD {
			return "", err
		}
		return "", stocargo.WrapError(stocargo.EDOWNLOAD, err, "failed to download %s", cat)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return "", stocargo.WrapError(stocargo.EDOWNLOAD, err, "%s export is not a JSON array", cat)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", stocargo.WrapError(stocargo.ECACHEWRITE, err, "failed to create cache directory %q", c.dir)
	}
	// New data is never paired with an old sidecar.
	if err := os.Remove(MetaPath(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", stocargo.WrapError(stocargo.ECACHEWRITE, err, "failed to remove %q", MetaPath(path))
	}
	if err := writeFileAtomic(path, data); err != nil {
		return "", stocargo.WrapError(stocargo.ECACHEWRITE, err, "failed to write %q", path)
	}

	meta := stocargo.CacheMeta{
		Category:  cat,
		FetchedAt: c.now().UTC(),
		Records:   len(records),
		Checksum:  Checksum(data),
	}
	buf, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", stocargo.WrapError(stocargo.EINTERNAL, err, "failed to encode cache metadata")
	}
	if err := writeFileAtomic(MetaPath(path), buf); err != nil {
		return "", stocargo.WrapError(stocargo.ECACHEWRITE, err, "failed to write %q", MetaPath(path))
	}

	return path, nil
}

// Refresh downloads cat regardless of the age of the cached file.
func (c *Cache) Refresh(ctx context.Context, cat stocargo.Category) (string, error) {
	return c.EnsureFresh(ctx, cat, true)
}

// FetchedAt returns when the cached file for cat was last downloaded.
// The sidecar is preferred; the file's modification time is used when the
// sidecar is missing or unreadable. Returns the zero time if the file is
// missing, empty or cannot be inspected.
func (c *Cache) FetchedAt(cat stocargo.Category) (time.Time, error) {
	path := c.Path(cat)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return time.Time{}, nil
	}

	meta, err := ReadMeta(path)
	if err == nil && !meta.FetchedAt.IsZero() {
		return meta.FetchedAt, nil
	}
	return info.ModTime(), nil
}

// ReadMeta reads the sidecar of the data file at path.
// Returns ENOTFOUND if there is no sidecar.
func ReadMeta(path string) (*stocargo.CacheMeta, error) {
	buf, err := os.ReadFile(MetaPath(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, stocargo.Errorf(stocargo.ENOTFOUND, "no metadata for %q", path)
	} else if err != nil {
		return nil, err
	}

	var meta stocargo.CacheMeta
	if err := json.Unmarshal(buf, &meta); err != nil {
		return nil, stocargo.WrapError(stocargo.EMALFORMED, err, "invalid metadata for %q", path)
	}
	return &meta, nil
}

// Checksum returns the hex xxhash64 digest of data.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
