package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fwojciec/stocargo"
	"golang.org/x/time/rate"
)

// DefaultPageInterval is the minimum pause between two export page requests.
const DefaultPageInterval = time.Second

// Ensure Exporter implements stocargo.Downloader at compile time.
var _ stocargo.Downloader = (*Exporter)(nil)

// Exporter downloads complete Cargo exports by paging through
// Special:CargoExport until a short page is returned.
type Exporter struct {
	fetcher stocargo.Fetcher
	baseURL string
	limiter *rate.Limiter
	delays  []time.Duration
	logger  LogFunc
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithBaseURL sets the wiki root used to build export URLs.
// Defaults to stocargo.DefaultWikiURL.
func WithBaseURL(u string) ExporterOption {
	return func(e *Exporter) {
		e.baseURL = u
	}
}

// WithPageInterval sets the minimum pause between page requests.
// Zero disables pacing.
func WithPageInterval(d time.Duration) ExporterOption {
	return func(e *Exporter) {
		if d <= 0 {
			e.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		e.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithRetryDelays sets the backoff between attempts of a failed page.
// Defaults to DefaultRetryDelays.
func WithRetryDelays(delays ...time.Duration) ExporterOption {
	return func(e *Exporter) {
		e.delays = delays
	}
}

// WithRetryLogger sets the function called before each retry.
func WithRetryLogger(fn LogFunc) ExporterOption {
	return func(e *Exporter) {
		e.logger = fn
	}
}

// NewExporter creates an Exporter fetching pages with f.
func NewExporter(f stocargo.Fetcher, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		fetcher: f,
		baseURL: stocargo.DefaultWikiURL,
		limiter: rate.NewLimiter(rate.Every(DefaultPageInterval), 1),
		delays:  DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Download fetches every page of the export of c and returns the records
// as a single JSON array.
// Returns EDOWNLOAD if any page fails or the first page is empty, so a
// partial export is never returned.
func (e *Exporter) Download(ctx context.Context, c stocargo.Category) ([]byte, error) {
	limit := c.Export().Limit
	if limit <= 0 {
		return nil, stocargo.Errorf(stocargo.EINVALID, "no export defined for %q", c)
	}

	var all []json.RawMessage
	for offset := 0; ; offset += limit {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		url := c.ExportURL(e.baseURL, offset)
		body, err := FetchWithRetry(ctx, e.fetcher, url, e.delays, e.logger)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, stocargo.WrapError(stocargo.EDOWNLOAD, err, "failed to download %s at offset %d", c, offset)
		}

		var batch []json.RawMessage
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, stocargo.WrapError(stocargo.EDOWNLOAD, err, "invalid %s export at offset %d", c, offset)
		}
		all = append(all, batch...)

		if len(batch) < limit {
			break
		}
	}

	if len(all) == 0 {
		return nil, stocargo.Errorf(stocargo.EDOWNLOAD, "export of %s is empty", c)
	}

	data, err := json.Marshal(all)
	if err != nil {
		return nil, stocargo.WrapError(stocargo.EINTERNAL, err, "failed to encode %s export", c)
	}
	return data, nil
}
