package stocargo

import "context"

// Fetcher retrieves raw bytes from URLs.
type Fetcher interface {
	// Fetch performs a GET request and returns the response body.
	// Non-success responses are errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Downloader retrieves the complete export of a category.
type Downloader interface {
	// Download returns the category's records as a single JSON array.
	// Returns EDOWNLOAD if the export cannot be retrieved or is empty.
	Download(ctx context.Context, c Category) ([]byte, error)
}
