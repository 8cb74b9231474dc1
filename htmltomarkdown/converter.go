// Package htmltomarkdown renders wiki HTML in record fields as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/stocargo"
)

// Ensure Converter implements stocargo.Converter at compile time.
var _ stocargo.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert field markup to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms a field value into Markdown.
// Values without markup are returned unchanged so plain text is not escaped.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	if !strings.ContainsAny(html, "<&") {
		return html, nil
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", stocargo.WrapError(stocargo.EINVALID, err, "failed to convert HTML to Markdown")
	}

	return strings.TrimSpace(result), nil
}
