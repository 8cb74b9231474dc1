package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/stocargo"
	stocargohttp "github.com/fwojciec/stocargo/http"
	"github.com/fwojciec/stocargo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// page returns n doff records numbered from start.
func page(start, n int) []byte {
	records := make([]map[string]any, n)
	for i := range records {
		records[i] = map[string]any{"doff_specialization": fmt.Sprintf("Officer %d", start+i)}
	}
	b, _ := json.Marshal(records)
	return b
}

func offsetOf(t *testing.T, rawURL string) int {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	offset, err := strconv.Atoi(u.Query().Get("offset"))
	require.NoError(t, err)
	return offset
}

func fastExporter(f stocargo.Fetcher, opts ...stocargohttp.ExporterOption) *stocargohttp.Exporter {
	opts = append([]stocargohttp.ExporterOption{
		stocargohttp.WithPageInterval(0),
		stocargohttp.WithRetryDelays(time.Millisecond),
	}, opts...)
	return stocargohttp.NewExporter(f, opts...)
}

func TestExporter_Download(t *testing.T) {
	t.Parallel()

	limit := stocargo.CategoryDoff.Export().Limit

	t.Run("pages until a short page", func(t *testing.T) {
		t.Parallel()

		var offsets []int
		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, u string) ([]byte, error) {
				offset := offsetOf(t, u)
				offsets = append(offsets, offset)
				if offset == 0 {
					return page(0, limit), nil
				}
				return page(offset, 3), nil
			},
		}

		data, err := fastExporter(f).Download(context.Background(), stocargo.CategoryDoff)

		require.NoError(t, err)
		assert.Equal(t, []int{0, limit}, offsets)
		var records []map[string]any
		require.NoError(t, json.Unmarshal(data, &records))
		assert.Len(t, records, limit+3)
		assert.Equal(t, "Officer 0", records[0]["doff_specialization"])
		assert.Equal(t, fmt.Sprintf("Officer %d", limit+2), records[limit+2]["doff_specialization"])
	})

	t.Run("stops on empty page after full page", func(t *testing.T) {
		t.Parallel()

		var calls int
		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, u string) ([]byte, error) {
				calls++
				if offsetOf(t, u) == 0 {
					return page(0, limit), nil
				}
				return []byte("[]"), nil
			},
		}

		data, err := fastExporter(f).Download(context.Background(), stocargo.CategoryDoff)

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		var records []json.RawMessage
		require.NoError(t, json.Unmarshal(data, &records))
		assert.Len(t, records, limit)
	})

	t.Run("empty first page", func(t *testing.T) {
		t.Parallel()

		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) ([]byte, error) {
				return []byte("[]"), nil
			},
		}

		_, err := fastExporter(f).Download(context.Background(), stocargo.CategoryDoff)

		assert.Equal(t, stocargo.EDOWNLOAD, stocargo.ErrorCode(err))
	})

	t.Run("failed later page fails the download", func(t *testing.T) {
		t.Parallel()

		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, u string) ([]byte, error) {
				if offsetOf(t, u) == 0 {
					return page(0, limit), nil
				}
				return nil, errors.New("HTTP 500")
			},
		}

		data, err := fastExporter(f).Download(context.Background(), stocargo.CategoryDoff)

		assert.Nil(t, data)
		assert.Equal(t, stocargo.EDOWNLOAD, stocargo.ErrorCode(err))
		assert.Contains(t, err.Error(), "offset 1000")
	})

	t.Run("retries a failed page", func(t *testing.T) {
		t.Parallel()

		var calls int
		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) ([]byte, error) {
				calls++
				if calls == 1 {
					return nil, errors.New("HTTP 503")
				}
				return page(0, 2), nil
			},
		}

		_, err := fastExporter(f).Download(context.Background(), stocargo.CategoryDoff)

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("rejects non-array page", func(t *testing.T) {
		t.Parallel()

		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) ([]byte, error) {
				return []byte("<html>error</html>"), nil
			},
		}

		_, err := fastExporter(f).Download(context.Background(), stocargo.CategoryDoff)

		assert.Equal(t, stocargo.EDOWNLOAD, stocargo.ErrorCode(err))
	})

	t.Run("uses base url", func(t *testing.T) {
		t.Parallel()

		var got string
		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, u string) ([]byte, error) {
				got = u
				return page(0, 1), nil
			},
		}

		_, err := fastExporter(f, stocargohttp.WithBaseURL("http://mirror.test/wiki")).Download(context.Background(), stocargo.CategoryStarshipTrait)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "http://mirror.test/wiki/Special:CargoExport?tables=StarshipTraits&"), got)
		assert.Contains(t, got, "where=name+IS+NOT+NULL")
	})

	t.Run("paces pages", func(t *testing.T) {
		t.Parallel()

		f := &mock.Fetcher{
			FetchFn: func(_ context.Context, u string) ([]byte, error) {
				if offsetOf(t, u) == 0 {
					return page(0, limit), nil
				}
				return page(limit, 1), nil
			},
		}
		e := stocargohttp.NewExporter(f, stocargohttp.WithPageInterval(50*time.Millisecond))

		start := time.Now()
		_, err := e.Download(context.Background(), stocargo.CategoryDoff)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		f := &mock.Fetcher{
			FetchFn: func(ctx context.Context, _ string) ([]byte, error) {
				return nil, ctx.Err()
			},
		}

		_, err := fastExporter(f).Download(ctx, stocargo.CategoryDoff)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("downloads from wiki server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/wiki/Special:CargoExport", r.URL.Path)
			assert.Equal(t, "Traits", r.URL.Query().Get("tables"))
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			_, _ = w.Write([]byte(`[{"name":"Ambition","isunique":"1"}]`))
		}))
		defer server.Close()

		e := fastExporter(stocargohttp.NewFetcher(), stocargohttp.WithBaseURL(server.URL+"/wiki/"))

		data, err := e.Download(context.Background(), stocargo.CategoryPersonalTrait)

		require.NoError(t, err)
		assert.JSONEq(t, `[{"name":"Ambition","isunique":"1"}]`, string(data))
	})
}
