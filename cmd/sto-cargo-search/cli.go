package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/stocargo"
	"github.com/fwojciec/stocargo/search"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Searcher  *search.Searcher
	Presenter stocargo.Presenter
	Render    stocargo.RenderOptions
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	File          string   `short:"f" type:"path" help:"Search a local JSON export instead of the cache"`
	SearchType    []string `short:"t" sep:"," placeholder:"TYPE" help:"Categories to search, comma separated (${categories})"`
	Search        string   `short:"s" placeholder:"EXPR" help:"Search expression, e.g. 'phaser and (beam or cannon)'"`
	ListAll       bool     `short:"a" help:"List every record"`
	Full          bool     `help:"Show full record details instead of a table"`
	NoStripHTML   bool     `name:"no-strip-html" help:"Keep HTML markup in field values"`
	Markdown      bool     `help:"Render HTML markup in field values as Markdown"`
	ForceDownload bool     `help:"Download fresh data even if the cache is current"`
	CacheDir      string   `type:"path" env:"STO_CARGO_CACHE_DIR" help:"Cache directory"`
	Config        string   `type:"path" env:"STO_CARGO_CONFIG" help:"Config file"`
	TTL           string   `name:"ttl" placeholder:"DURATION" help:"How long cached data stays fresh, e.g. 72h or 3d"`
	Verbose       bool     `short:"v" help:"Log progress to stderr"`
}

var errMissingMode = stocargo.Errorf(stocargo.EUSAGE, "you must specify at least one of --search, --list-all, or --force-download")

// Options are the validated inputs of a run.
type Options struct {
	Categories []stocargo.Category
	Explicit   bool
	File       string
	Query      stocargo.Query
	Download   bool
}

// options validates flag combinations and compiles the search expression.
// Every usage problem is reported here, before any cache or network work.
func (c *CLI) options() (Options, error) {
	if c.Search != "" && c.ListAll {
		return Options{}, stocargo.Errorf(stocargo.EUSAGE, "--search and --list-all are mutually exclusive")
	}
	if c.Search == "" && !c.ListAll && !c.ForceDownload {
		return Options{}, errMissingMode
	}
	if c.NoStripHTML && c.Markdown {
		return Options{}, stocargo.Errorf(stocargo.EUSAGE, "--no-strip-html and --markdown are mutually exclusive")
	}
	if c.TTL != "" {
		if _, err := stocargo.ParseTTL(c.TTL); err != nil {
			return Options{}, stocargo.Errorf(stocargo.EUSAGE, "%s", stocargo.ErrorMessage(err))
		}
	}

	cats, err := stocargo.ParseCategories(c.SearchType)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Categories: cats,
		Explicit:   len(c.SearchType) > 0,
		File:       c.File,
		Query:      stocargo.Query{ListAll: c.ListAll},
		Download:   c.ForceDownload && c.Search == "" && !c.ListAll,
	}
	if opts.Download && c.File != "" {
		return Options{}, stocargo.Errorf(stocargo.EUSAGE, "--file needs --search or --list-all")
	}
	if c.Search != "" {
		expr, err := stocargo.Compile(c.Search)
		if err != nil {
			return Options{}, err
		}
		opts.Query.Expr = expr
	}
	return opts, nil
}

// SearchCmd runs one search, file search or download.
type SearchCmd struct {
	Options Options
}

// Run executes the command. Categories fail independently: the command
// succeeds when at least one category succeeded and warns about the rest.
func (cmd *SearchCmd) Run(deps *Dependencies) error {
	opts := cmd.Options

	if opts.Download {
		results, err := deps.Searcher.Download(deps.Ctx, opts.Categories)
		if err != nil {
			return err
		}
		if err := report(deps.Stderr, results); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, "Download complete.")
		return nil
	}

	var results []stocargo.CategoryResult
	if opts.File != "" {
		var hints []stocargo.Category
		if opts.Explicit {
			hints = opts.Categories
		}
		res, err := deps.Searcher.SearchFile(deps.Ctx, opts.File, hints, opts.Query)
		if err != nil {
			return err
		}
		results = []stocargo.CategoryResult{res}
	} else {
		var err error
		results, err = deps.Searcher.Search(deps.Ctx, opts.Categories, opts.Query)
		if err != nil {
			return err
		}
	}

	ok, _ := stocargo.Partition(results)
	if len(ok) > 0 {
		if err := deps.Presenter.Render(deps.Stdout, results, deps.Render); err != nil {
			return err
		}
	}
	return report(deps.Stderr, results)
}

// report prints failed categories to w. It returns an error when every
// category failed.
func report(w io.Writer, results []stocargo.CategoryResult) error {
	ok, failed := stocargo.Partition(results)
	if len(failed) == 0 {
		return nil
	}
	for _, res := range failed {
		fmt.Fprintf(w, "error: %s: %s\n", res.Category, errorText(res.Err))
	}
	if len(ok) == 0 {
		return &stocargo.Error{
			Code:    stocargo.ErrorCode(failed[0].Err),
			Message: fmt.Sprintf("%d of %d categories failed", len(failed), len(results)),
		}
	}
	fmt.Fprintf(w, "warning: %d of %d categories failed\n", len(failed), len(results))
	return nil
}
