package mock

import (
	"io"

	"github.com/fwojciec/stocargo"
)

var _ stocargo.Presenter = (*Presenter)(nil)

// Presenter is a mock implementation of stocargo.Presenter.
type Presenter struct {
	RenderFn func(w io.Writer, results []stocargo.CategoryResult, opts stocargo.RenderOptions) error
}

func (p *Presenter) Render(w io.Writer, results []stocargo.CategoryResult, opts stocargo.RenderOptions) error {
	return p.RenderFn(w, results, opts)
}
