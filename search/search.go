// Package search runs search expressions over cached category exports.
// It coordinates the cache, the record store and expression evaluation
// for each requested category.
package search

import (
	"context"
	"log/slog"

	"github.com/fwojciec/stocargo"
)

// Ensure Searcher implements stocargo.SearchService at compile time.
var _ stocargo.SearchService = (*Searcher)(nil)

// Searcher searches categories one at a time. A failure in one category
// is recorded in its result and does not stop the others.
type Searcher struct {
	Cache  stocargo.CacheService
	Store  stocargo.RecordStore
	Force  bool
	Logger *slog.Logger
}

// Search implements stocargo.SearchService.
func (s *Searcher) Search(ctx context.Context, cats []stocargo.Category, q stocargo.Query) ([]stocargo.CategoryResult, error) {
	s.logger().Debug("search", "categories", cats, "expr", describe(q))

	results := make([]stocargo.CategoryResult, 0, len(cats))
	for _, c := range cats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, s.searchCategory(ctx, c, q))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Searcher) searchCategory(ctx context.Context, c stocargo.Category, q stocargo.Query) stocargo.CategoryResult {
	path, err := s.Cache.EnsureFresh(ctx, c, s.Force)
	if err != nil {
		return stocargo.CategoryResult{Category: c, Err: err}
	}

	set, err := s.Store.Load(ctx, c, path)
	if err != nil {
		return stocargo.CategoryResult{Category: c, Err: err}
	}

	return Filter(set, q)
}

// Filter returns the records of set matching q, in set order.
func Filter(set *stocargo.RecordSet, q stocargo.Query) stocargo.CategoryResult {
	res := stocargo.CategoryResult{Category: set.Category, Searched: set.Len()}
	for _, r := range set.Records() {
		if q.Match(set.Category, r) {
			res.Matches = append(res.Matches, r)
		}
	}
	return res
}

// SearchFile runs q over a single export file outside the cache.
// The category is inferred from the first record; when that fails and
// hints holds exactly one category, that category is used.
func (s *Searcher) SearchFile(ctx context.Context, path string, hints []stocargo.Category, q stocargo.Query) (stocargo.CategoryResult, error) {
	set, err := s.Store.Load(ctx, "", path)
	if err != nil {
		return stocargo.CategoryResult{}, err
	}

	c, err := inferCategory(set, hints)
	if err != nil {
		return stocargo.CategoryResult{}, err
	}
	s.logger().Info("search file", "path", path, "category", c, "records", set.Len())

	return Filter(rekey(set, c), q), nil
}

// Download refreshes every category in cats regardless of age.
// Each result carries the category's error, if any.
func (s *Searcher) Download(ctx context.Context, cats []stocargo.Category) ([]stocargo.CategoryResult, error) {
	results := make([]stocargo.CategoryResult, 0, len(cats))
	for _, c := range cats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, err := s.Cache.EnsureFresh(ctx, c, true)
		results = append(results, stocargo.CategoryResult{Category: c, Err: err})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func inferCategory(set *stocargo.RecordSet, hints []stocargo.Category) (stocargo.Category, error) {
	if records := set.Records(); len(records) > 0 {
		if c, ok := stocargo.DetectCategory(records[0]); ok {
			return c, nil
		}
	}
	if len(hints) == 1 {
		return hints[0], nil
	}
	return "", stocargo.Errorf(stocargo.EUSAGE, "cannot determine the category of the file, pass a single --search-type")
}

// rekey rebuilds set under the identifiers of category c.
func rekey(set *stocargo.RecordSet, c stocargo.Category) *stocargo.RecordSet {
	out := stocargo.NewRecordSet(c)
	for _, r := range set.Records() {
		if id := r.ID(c); id != "" {
			out.Put(id, r)
		}
	}
	return out
}

func describe(q stocargo.Query) string {
	if q.ListAll {
		return "<all>"
	}
	if q.Expr == nil {
		return "<none>"
	}
	return q.Expr.String()
}

func (s *Searcher) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
