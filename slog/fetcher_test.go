package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/stocargo"
	"github.com/fwojciec/stocargo/mock"
	stocargoslog "github.com/fwojciec/stocargo/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				return []byte(`[{"name":"x"}]`), nil
			},
		}

		fetcher := stocargoslog.NewLoggingFetcher(inner, logger)
		body, err := fetcher.Fetch(context.Background(), "https://stowiki.net/wiki/Special:CargoExport")

		require.NoError(t, err)
		assert.Equal(t, `[{"name":"x"}]`, string(body))
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://stowiki.net/wiki/Special:CargoExport")
		assert.Contains(t, output, "bytes=14")
		assert.Contains(t, output, "duration=")
	})

	t.Run("silent above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) ([]byte, error) {
				return []byte("[]"), nil
			},
		}

		_, err := stocargoslog.NewLoggingFetcher(inner, logger).Fetch(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingDownloader_Download(t *testing.T) {
	t.Parallel()

	t.Run("logs download with bytes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Downloader{
			DownloadFn: func(ctx context.Context, c stocargo.Category) ([]byte, error) {
				return []byte("[1,2]"), nil
			},
		}

		data, err := stocargoslog.NewLoggingDownloader(inner, logger).Download(context.Background(), stocargo.CategoryDoff)

		require.NoError(t, err)
		assert.Equal(t, "[1,2]", string(data))
		output := buf.String()
		assert.Contains(t, output, "msg=downloading category=doff")
		assert.Contains(t, output, "msg=download category=doff bytes=5")
	})

	t.Run("logs failure as warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
		inner := &mock.Downloader{
			DownloadFn: func(ctx context.Context, c stocargo.Category) ([]byte, error) {
				return nil, errors.New("HTTP 500")
			},
		}

		_, err := stocargoslog.NewLoggingDownloader(inner, logger).Download(context.Background(), stocargo.CategoryEquipment)

		require.Error(t, err)
		output := buf.String()
		assert.NotContains(t, output, "msg=downloading")
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "err=\"HTTP 500\"")
	})
}
