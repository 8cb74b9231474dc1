package mock

import "github.com/fwojciec/stocargo"

var _ stocargo.Converter = (*Converter)(nil)

// Converter is a mock implementation of stocargo.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
