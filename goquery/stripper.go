// Package goquery strips wiki HTML from record fields using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/stocargo"
	"golang.org/x/net/html"
)

// Ensure Stripper implements stocargo.Converter at compile time.
var _ stocargo.Converter = (*Stripper)(nil)

// blockSelector matches elements whose content ends a line.
const blockSelector = "p, div, li, tr, h1, h2, h3, h4, h5, h6"

// Stripper reduces HTML to plain text. Line breaks become newlines,
// entities are decoded and all other markup is dropped.
type Stripper struct{}

// NewStripper creates a new Stripper.
func NewStripper() *Stripper {
	return &Stripper{}
}

// Convert returns the text content of s.
func (c *Stripper) Convert(s string) (string, error) {
	if !strings.ContainsAny(s, "<&") {
		return s, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", stocargo.Errorf(stocargo.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("script, style").Remove()
	doc.Find("br").Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			n.Type = html.TextNode
			n.Data = "\n"
			n.Attr = nil
		}
	})
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: "\n"})
		}
	})

	text := strings.ReplaceAll(doc.Text(), "\u00a0", " ")
	return strings.TrimSpace(text), nil
}
