// Package lipgloss renders search results as text using lipgloss tables.
package lipgloss

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fwojciec/stocargo"
)

// Ensure Presenter implements stocargo.Presenter at compile time.
var _ stocargo.Presenter = (*Presenter)(nil)

// NoMatchesMessage is written when no category has matches.
const NoMatchesMessage = "No matches found."

// Presenter writes matches grouped by category, either as condensed
// tables or as full record dumps.
type Presenter struct{}

// NewPresenter creates a new Presenter.
func NewPresenter() *Presenter {
	return &Presenter{}
}

// Render implements stocargo.Presenter.
func (p *Presenter) Render(w io.Writer, results []stocargo.CategoryResult, opts stocargo.RenderOptions) error {
	ok, _ := stocargo.Partition(results)
	sortByCategory(ok)

	r := lipgloss.NewRenderer(w)
	printed := false
	for _, res := range ok {
		if len(res.Matches) == 0 {
			continue
		}
		if printed {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		printed = true

		if _, err := fmt.Fprintf(w, "=== %s MATCHES ===\n\n", res.Category.Title()); err != nil {
			return err
		}

		var body string
		if opts.Full {
			body = stocargo.FormatRecords(res.Category, res.Matches, opts.Converter)
		} else {
			body = renderTable(r, res.Category, res.Matches, opts) + "\n"
		}
		if _, err := io.WriteString(w, body); err != nil {
			return err
		}
	}

	if !printed {
		_, err := fmt.Fprintln(w, NoMatchesMessage)
		return err
	}
	return nil
}

func renderTable(r *lipgloss.Renderer, c stocargo.Category, records []stocargo.Record, opts stocargo.RenderOptions) string {
	cols := c.Columns()
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Header
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = stocargo.FormatCell(rec, col, opts.Converter)
		}
		rows[i] = row
	}

	headerStyle := r.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.ASCIIBorder()).
		BorderStyle(r.NewStyle()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if opts.Width > 0 {
		t = t.Width(opts.Width)
	}
	return t.String()
}

func sortByCategory(results []stocargo.CategoryResult) {
	order := make(map[stocargo.Category]int)
	for i, c := range stocargo.Categories() {
		order[c] = i
	}
	sort.SliceStable(results, func(i, j int) bool {
		return order[results[i].Category] < order[results[j].Category]
	})
}
