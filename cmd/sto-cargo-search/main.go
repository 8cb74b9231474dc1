package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/fwojciec/stocargo"
	"github.com/fwojciec/stocargo/fs"
	"github.com/fwojciec/stocargo/goquery"
	"github.com/fwojciec/stocargo/htmltomarkdown"
	stohttp "github.com/fwojciec/stocargo/http"
	"github.com/fwojciec/stocargo/lipgloss"
	"github.com/fwojciec/stocargo/search"
	stoslog "github.com/fwojciec/stocargo/slog"
	"github.com/fwojciec/stocargo/yaml"
	"golang.org/x/term"
)

// appName names the binary and its XDG directories.
const appName = "sto-cargo-search"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorText(err))
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Downloader fetches category exports. When nil, exports are
	// downloaded from the wiki over HTTP. Set before calling Run().
	Downloader stocargo.Downloader
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name(appName),
		kong.Description("Search Star Trek Online wiki Cargo exports with boolean expressions."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"categories": strings.Join(stocargo.CategoryNames(), ",")},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return errMissingMode
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return stocargo.WrapError(stocargo.EUSAGE, err, "invalid arguments")
	}

	opts, err := cli.options()
	if err != nil {
		return err
	}

	cfg, err := yaml.LoadConfig(configPath(cli.Config))
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Logger:    logger,
		Presenter: lipgloss.NewPresenter(),
	}
	deps.Searcher = m.newSearcher(cli, cfg, logger)
	deps.Render = stocargo.RenderOptions{
		Full:      cli.Full,
		Converter: converter(cli),
		Width:     terminalWidth(stdout),
	}
	opts.Query.Fields = cfg.Fields

	cmd := &SearchCmd{Options: opts}
	return cmd.Run(deps)
}

func (m *Main) newSearcher(cli *CLI, cfg *stocargo.Config, logger *slog.Logger) *search.Searcher {
	dir := firstNonEmpty(cli.CacheDir, cfg.CacheDir, defaultCacheDir())

	ttl := stocargo.DefaultTTL
	if cfg.TTL > 0 {
		ttl = cfg.TTL
	}
	if cli.TTL != "" {
		// Already validated by options.
		ttl, _ = stocargo.ParseTTL(cli.TTL)
	}

	downloader := m.Downloader
	if downloader == nil {
		fetcher := stoslog.NewLoggingFetcher(stohttp.NewFetcher(), logger)
		downloader = stohttp.NewExporter(fetcher,
			stohttp.WithBaseURL(firstNonEmpty(cfg.WikiURL, stocargo.DefaultWikiURL)),
			stohttp.WithRetryLogger(func(format string, args ...any) {
				logger.Warn(fmt.Sprintf(format, args...))
			}),
		)
	}

	logger.Info("using cache directory", "dir", dir, "ttl", ttl)
	cache := fs.NewCache(dir, stoslog.NewLoggingDownloader(downloader, logger), fs.WithTTL(ttl))

	return &search.Searcher{
		Cache:  stoslog.NewLoggingCache(cache, logger),
		Store:  stoslog.NewLoggingRecordStore(fs.NewRecordStore(), logger),
		Force:  cli.ForceDownload,
		Logger: logger,
	}
}

func converter(cli *CLI) stocargo.Converter {
	switch {
	case cli.NoStripHTML:
		return nil
	case cli.Markdown:
		return htmltomarkdown.NewConverter()
	}
	return goquery.NewStripper()
}

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func defaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, appName)
}

func configPath(flag string) string {
	if flag != "" {
		return flag
	}
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// errorText returns the message shown to the user for err.
func errorText(err error) string {
	var e *stocargo.Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}
