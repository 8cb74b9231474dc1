package stocargo

import (
	"context"
	"io"
)

// Query selects records during a search.
type Query struct {
	// Expr is the compiled search expression. It is ignored when ListAll is set.
	Expr Expr

	// ListAll matches every record without evaluating Expr.
	ListAll bool

	// Fields restricts, per category, which record fields Expr searches.
	// Categories without an entry search every field.
	Fields map[Category][]string
}

// Match reports whether record r of category c satisfies the query.
func (q Query) Match(c Category, r Record) bool {
	if q.ListAll {
		return true
	}
	if q.Expr == nil {
		return false
	}
	return q.Expr.Eval(r, q.Fields[c])
}

// CategoryResult is the outcome of searching one category.
// Exactly one of Matches or Err is meaningful.
type CategoryResult struct {
	Category Category
	Matches  []Record
	Searched int
	Err      error
}

// Partition splits results into successful and failed categories,
// keeping their relative order.
func Partition(results []CategoryResult) (ok, failed []CategoryResult) {
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		} else {
			ok = append(ok, r)
		}
	}
	return ok, failed
}

// SearchService searches categories of cached records.
type SearchService interface {
	// Search runs q over every category in cats, in order.
	// Failures are reported per category in CategoryResult.Err; the
	// returned error is reserved for failures that stop the whole search,
	// such as context cancellation.
	Search(ctx context.Context, cats []Category, q Query) ([]CategoryResult, error)
}

// RenderOptions configures a Presenter.
type RenderOptions struct {
	// Full shows every detail of each match instead of a summary table.
	Full bool

	// Converter rewrites field markup before display. Nil leaves it as is.
	Converter Converter

	// Width caps the width of summary tables. Zero means unlimited.
	Width int
}

// Presenter renders search results.
type Presenter interface {
	// Render writes the matches of successful results to w, grouped by
	// category. Failed results and categories without matches are skipped.
	Render(w io.Writer, results []CategoryResult, opts RenderOptions) error
}
