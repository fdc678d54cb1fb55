package layout

import (
	"math"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

// DefaultBottomMargin is the normalized height kept free below the deepest
// depth of a page for the closing line.
const DefaultBottomMargin = 0.025

// Mapper converts depths on one page to normalized vertical coordinates of
// the body region. The page top maps to y = 1 and the page top plus one span
// maps to the bottom margin, linearly in between.
//
// A Mapper is a value bound to a single page; build a fresh one per page.
type Mapper struct {
	top    float64
	span   float64
	bottom float64
}

// NewMapper binds a mapper to page. span must be positive and bottomMargin
// must lie in [0, 1).
func NewMapper(page PageSpec, span, bottomMargin float64) (Mapper, error) {
	if !(span > 0) || math.IsInf(span, 0) {
		return Mapper{}, errors.New(errors.ErrCodeInvalidConfig, "page span must be positive, got %v", span)
	}
	if bottomMargin < 0 || bottomMargin >= 1 {
		return Mapper{}, errors.New(errors.ErrCodeInvalidConfig, "bottom margin must be in [0, 1), got %v", bottomMargin)
	}
	return Mapper{top: page.Top, span: span, bottom: bottomMargin}, nil
}

// Y maps a depth to y. Depths outside the page map outside [bottom, 1].
func (m Mapper) Y(depth float64) float64 {
	f := (depth - m.top) / m.span
	// Equivalent to 1 - (1-bottom)*f, arranged so both page edges are exact.
	return (1 - f) + m.bottom*f
}

// Depth is the inverse of Y.
func (m Mapper) Depth(y float64) float64 {
	return m.top + (1-y)/(1-m.bottom)*m.span
}

// Bottom returns the normalized bottom margin.
func (m Mapper) Bottom() float64 { return m.bottom }

// Span returns the depth span of the page.
func (m Mapper) Span() float64 { return m.span }
