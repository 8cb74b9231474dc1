package mock

import (
	"context"

	"github.com/fwojciec/stocargo"
)

var _ stocargo.CacheService = (*CacheService)(nil)

// CacheService is a mock implementation of stocargo.CacheService.
type CacheService struct {
	EnsureFreshFn func(ctx context.Context, c stocargo.Category, force bool) (string, error)
}

func (s *CacheService) EnsureFresh(ctx context.Context, c stocargo.Category, force bool) (string, error) {
	return s.EnsureFreshFn(ctx, c, force)
}

var _ stocargo.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of stocargo.RecordStore.
type RecordStore struct {
	LoadFn func(ctx context.Context, c stocargo.Category, path string) (*stocargo.RecordSet, error)
}

func (s *RecordStore) Load(ctx context.Context, c stocargo.Category, path string) (*stocargo.RecordSet, error) {
	return s.LoadFn(ctx, c, path)
}
