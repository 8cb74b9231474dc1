package mock

import (
	"context"

	"github.com/fwojciec/stocargo"
)

var _ stocargo.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of stocargo.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}

var _ stocargo.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of stocargo.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, c stocargo.Category) ([]byte, error)
}

func (d *Downloader) Download(ctx context.Context, c stocargo.Category) ([]byte, error) {
	return d.DownloadFn(ctx, c)
}
