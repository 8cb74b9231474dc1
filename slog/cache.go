package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/stocargo"
)

// Ensure LoggingCache implements stocargo.CacheService.
var _ stocargo.CacheService = (*LoggingCache)(nil)

// LoggingCache wraps a CacheService with logging.
type LoggingCache struct {
	next   stocargo.CacheService
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next stocargo.CacheService, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// EnsureFresh delegates to the wrapped cache and logs the outcome.
func (c *LoggingCache) EnsureFresh(ctx context.Context, cat stocargo.Category, force bool) (path string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("ensure fresh",
			"category", cat,
			"force", force,
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.EnsureFresh(ctx, cat, force)
}

// Ensure LoggingRecordStore implements stocargo.RecordStore.
var _ stocargo.RecordStore = (*LoggingRecordStore)(nil)

// LoggingRecordStore wraps a RecordStore with logging.
type LoggingRecordStore struct {
	next   stocargo.RecordStore
	logger *slog.Logger
}

// NewLoggingRecordStore creates a new LoggingRecordStore.
func NewLoggingRecordStore(next stocargo.RecordStore, logger *slog.Logger) *LoggingRecordStore {
	return &LoggingRecordStore{next: next, logger: logger}
}

// Load delegates to the wrapped store and logs the record count.
func (s *LoggingRecordStore) Load(ctx context.Context, c stocargo.Category, path string) (set *stocargo.RecordSet, err error) {
	defer func(begin time.Time) {
		count := 0
		if set != nil {
			count = set.Len()
		}
		s.logger.Info("load",
			"category", c,
			"path", path,
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx, c, path)
}
